package domain

import "errors"

// Sentinel errors returned by the domain models. Callers should match with
// [errors.Is].
var (
	// ErrUnknownCipherType is returned when a cipher carries a type
	// discriminant this build does not recognize. The entity is rejected
	// outright: guessing a shape risks displaying or transmitting the
	// wrong secret.
	ErrUnknownCipherType = errors.New("unknown cipher type")

	// ErrCipherShapeMismatch is returned when a view offered for
	// encryption does not populate exactly the sub-shape its type
	// discriminant selects.
	ErrCipherShapeMismatch = errors.New("cipher sub-shape does not match its type")

	// ErrSendKeyUnavailable is returned when the send key material cannot
	// be decrypted. The wrapped cipher is not decrypted at all in that
	// case; a send never renders partially.
	ErrSendKeyUnavailable = errors.New("send key cannot be decrypted")

	// ErrInvalidDate is returned when a wire date field is present but
	// not RFC 3339.
	ErrInvalidDate = errors.New("invalid date value")
)
