package adapter

import "errors"

var (
	// ErrUnauthorized is returned on a 401 response.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrTokenExpired is returned without hitting the network when the
	// installed bearer token has already expired.
	ErrTokenExpired = errors.New("bearer token expired")

	// ErrNotFound is returned on a 404 response, e.g. an unknown
	// organization id.
	ErrNotFound = errors.New("resource not found")
)
