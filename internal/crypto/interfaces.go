package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_service_mock.go -package=mock

import "context"

// CryptoService is the narrow contract the transformation core calls for all
// symmetric cryptography. It owns the key hierarchy consumed by the domain
// models:
//
//   - the account key, set once the vault is unlocked;
//   - per-organization keys, registered as org membership is synced;
//   - per-send ephemeral keys, derived on demand from random seeds.
//
// Decryption is deterministic: the same ciphertext and key always yield the
// same plaintext, and failure is signalled with an error, never with a valid
// empty result.
type CryptoService interface {
	// Encrypt encrypts plaintext under key. A nil key means the account
	// key. Returns [ErrNoKey] when the account key is required but unset.
	Encrypt(ctx context.Context, plaintext []byte, key *SymmetricKey) (*EncryptedString, error)

	// EncryptString is Encrypt for string plaintext.
	EncryptString(ctx context.Context, plaintext string, key *SymmetricKey) (*EncryptedString, error)

	// DecryptToBytes decrypts es under key (nil key = account key).
	// Returns [ErrDecryptFailed] on authentication failure.
	DecryptToBytes(ctx context.Context, es *EncryptedString, key *SymmetricKey) ([]byte, error)

	// DecryptToString is DecryptToBytes with a string result.
	DecryptToString(ctx context.Context, es *EncryptedString, key *SymmetricKey) (string, error)

	// MakeSendKey derives the per-send symmetric key from the 16-byte
	// random seed embedded in a send link. The derivation is independent
	// of the account key so a recipient without an account can decrypt.
	MakeSendKey(seed []byte) (*SymmetricKey, error)

	// HashSendPassword computes the PBKDF2-HMAC-SHA256 digest of an
	// optional send access password, salted with the send key seed.
	// The digest is checkable against the password but the send key is
	// not derivable from the password alone.
	HashSendPassword(password string, seed []byte) string

	// HasKey reports whether the account key is set.
	HasKey() bool

	// SetKey installs the account symmetric key (vault unlock).
	SetKey(key *SymmetricKey)

	// ClearKey removes the account key and all organization keys
	// (vault lock / logout).
	ClearKey()

	// SetOrgKey registers the symmetric key of an organization.
	SetOrgKey(orgID string, key *SymmetricKey)

	// GetOrgKey resolves the symmetric key of an organization. Returns
	// [ErrNoOrgKey] when the organization is unknown.
	GetOrgKey(orgID string) (*SymmetricKey, error)
}
