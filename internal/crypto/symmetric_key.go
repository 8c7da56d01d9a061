package crypto

import (
	"encoding/base64"
	"errors"
)

// ErrInvalidKeyLength is returned when key material of a wrong size is
// supplied to [NewSymmetricKey].
var ErrInvalidKeyLength = errors.New("symmetric key must be 32 bytes")

// SymmetricKey holds 256-bit symmetric key material. Keys are immutable
// once constructed and are passed around by pointer; a nil *SymmetricKey
// in the service API means "use the account key".
type SymmetricKey struct {
	key []byte
}

// NewSymmetricKey wraps raw key material. The material is copied so the
// caller may zero its own buffer afterwards.
func NewSymmetricKey(material []byte) (*SymmetricKey, error) {
	if len(material) != 32 {
		return nil, ErrInvalidKeyLength
	}
	k := make([]byte, len(material))
	copy(k, material)
	return &SymmetricKey{key: k}, nil
}

// Bytes returns the raw key material. The returned slice must not be
// mutated by the caller.
func (k *SymmetricKey) Bytes() []byte {
	return k.key
}

// B64 returns the key material in standard base64 encoding, the form used
// when a key travels inside another encrypted payload.
func (k *SymmetricKey) B64() string {
	return base64.StdEncoding.EncodeToString(k.key)
}
