package crypto

import "errors"

// Sentinel errors returned by the crypto service. Callers should match with
// [errors.Is].
var (
	// ErrNoKey is returned when an operation needs the account symmetric
	// key but none has been set (vault still locked).
	ErrNoKey = errors.New("no encryption key available")

	// ErrNoOrgKey is returned when an organization-owned item references an
	// organization whose key is not present in the key registry.
	ErrNoOrgKey = errors.New("no organization key available")

	// ErrInvalidCiphertext is returned when a serialized EncryptedString
	// cannot be parsed or is too short to contain a nonce.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")

	// ErrDecryptFailed is returned when authenticated decryption fails,
	// almost always because the wrong key was supplied or the ciphertext
	// was corrupted. It is deliberately distinct from a valid empty
	// plaintext.
	ErrDecryptFailed = errors.New("decryption failed")
)
