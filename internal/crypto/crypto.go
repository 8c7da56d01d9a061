package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

// sendKeyInfo domain-separates send-key derivation from any other HKDF use
// of the same seed material.
const sendKeyInfo = "send"

// sendPasswordIterations is the PBKDF2 iteration count for send access
// password digests. Changing it invalidates every stored send password hash.
const sendPasswordIterations = 100000

// cryptoService is the private implementation of [CryptoService]. Symmetric
// encryption is AES-256-GCM; the GCM nonce travels in the IV slot of the
// serialized [EncryptedString] and the auth tag stays appended to the
// ciphertext.
type cryptoService struct {
	mu      sync.RWMutex
	key     *SymmetricKey
	orgKeys map[string]*SymmetricKey
}

// NewCryptoService constructs a [CryptoService] with no keys installed.
// The account key is set on vault unlock via SetKey.
func NewCryptoService() CryptoService {
	return &cryptoService{orgKeys: make(map[string]*SymmetricKey)}
}

// DeriveMasterKey derives the 256-bit account symmetric key from the master
// password and the account email (used as salt) with Argon2id, using the
// OWASP-recommended parameters (64 MiB, 1 iteration, 4 threads).
func DeriveMasterKey(masterPassword, email string) (*SymmetricKey, error) {
	material := argon2.IDKey([]byte(masterPassword), []byte(email), 1, 64*1024, 4, 32)
	return NewSymmetricKey(material)
}

// GenerateSendSeed reads the 16 random bytes a new send key is derived from.
func GenerateSendSeed() ([]byte, error) {
	seed := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, seed); err != nil {
		return nil, fmt.Errorf("generate send seed: %w", err)
	}
	return seed, nil
}

// Encrypt implements [CryptoService].
func (c *cryptoService) Encrypt(_ context.Context, plaintext []byte, key *SymmetricKey) (*EncryptedString, error) {
	k, err := c.resolveKey(key)
	if err != nil {
		return nil, err
	}

	gcm, err := newGCM(k)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	ct := gcm.Seal(nil, nonce, plaintext, nil)
	return &EncryptedString{Type: AesGcm256B64, IV: nonce, Data: ct}, nil
}

// EncryptString implements [CryptoService].
func (c *cryptoService) EncryptString(ctx context.Context, plaintext string, key *SymmetricKey) (*EncryptedString, error) {
	return c.Encrypt(ctx, []byte(plaintext), key)
}

// DecryptToBytes implements [CryptoService]. An auth-tag mismatch almost
// always means the wrong key was supplied; it surfaces as
// [ErrDecryptFailed], never as empty plaintext.
func (c *cryptoService) DecryptToBytes(_ context.Context, es *EncryptedString, key *SymmetricKey) ([]byte, error) {
	if es == nil {
		return nil, fmt.Errorf("%w: nil encrypted string", ErrInvalidCiphertext)
	}
	if es.Type != AesGcm256B64 {
		return nil, fmt.Errorf("%w: unsupported encryption type %d", ErrInvalidCiphertext, int(es.Type))
	}

	k, err := c.resolveKey(key)
	if err != nil {
		return nil, err
	}

	gcm, err := newGCM(k)
	if err != nil {
		return nil, err
	}

	if len(es.IV) != gcm.NonceSize() {
		return nil, fmt.Errorf("%w: bad nonce length %d", ErrInvalidCiphertext, len(es.IV))
	}

	pt, err := gcm.Open(nil, es.IV, es.Data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}
	return pt, nil
}

// DecryptToString implements [CryptoService].
func (c *cryptoService) DecryptToString(ctx context.Context, es *EncryptedString, key *SymmetricKey) (string, error) {
	pt, err := c.DecryptToBytes(ctx, es, key)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

// MakeSendKey implements [CryptoService]. HKDF-SHA256 expands the 16-byte
// link seed into 256-bit key material without involving the account key.
func (c *cryptoService) MakeSendKey(seed []byte) (*SymmetricKey, error) {
	material := make([]byte, 32)
	kdf := hkdf.New(sha256.New, seed, nil, []byte(sendKeyInfo))
	if _, err := io.ReadFull(kdf, material); err != nil {
		return nil, fmt.Errorf("derive send key: %w", err)
	}
	return NewSymmetricKey(material)
}

// HashSendPassword implements [CryptoService].
func (c *cryptoService) HashSendPassword(password string, seed []byte) string {
	digest := pbkdf2.Key([]byte(password), seed, sendPasswordIterations, 32, sha256.New)
	return base64.StdEncoding.EncodeToString(digest)
}

// HasKey implements [CryptoService].
func (c *cryptoService) HasKey() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.key != nil
}

// SetKey implements [CryptoService].
func (c *cryptoService) SetKey(key *SymmetricKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = key
}

// ClearKey implements [CryptoService].
func (c *cryptoService) ClearKey() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = nil
	c.orgKeys = make(map[string]*SymmetricKey)
}

// SetOrgKey implements [CryptoService].
func (c *cryptoService) SetOrgKey(orgID string, key *SymmetricKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orgKeys[orgID] = key
}

// GetOrgKey implements [CryptoService].
func (c *cryptoService) GetOrgKey(orgID string) (*SymmetricKey, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key, ok := c.orgKeys[orgID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoOrgKey, orgID)
	}
	return key, nil
}

// resolveKey maps a nil caller key to the account key.
func (c *cryptoService) resolveKey(key *SymmetricKey) (*SymmetricKey, error) {
	if key != nil {
		return key, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.key == nil {
		return nil, ErrNoKey
	}
	return c.key, nil
}

func newGCM(key *SymmetricKey) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
