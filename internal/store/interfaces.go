// Package store provides the key-value storage contract the entity services
// persist their encrypted state through, with a sqlite-backed implementation
// for real profiles and an in-memory one for tests and ephemeral use.
package store

//go:generate mockgen -source=interfaces.go -destination=../mock/storage_service_mock.go -package=mock

import "context"

// StorageService is the abstract key-value store the core persists through.
// Values are opaque byte slices (the services store JSON documents).
//
// Implementations must preserve last-write-wins semantics per key under
// concurrent callers; the core relies on that guarantee and does not add
// its own locking around storage access.
type StorageService interface {
	// Get returns the value stored under key. The second result is false
	// when the key is absent; absence is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Save stores value under key, replacing any previous value.
	Save(ctx context.Context, key string, value []byte) error

	// Remove deletes the key. Removing an absent key is a no-op.
	Remove(ctx context.Context, key string) error

	// Has reports whether the key is present.
	Has(ctx context.Context, key string) (bool, error)
}
