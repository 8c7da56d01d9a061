package crypto

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncryptionType marks the scheme an [EncryptedString] was produced with.
// The marker is the first token of the serialized form and lets a future
// scheme migration coexist with already-stored ciphertext.
type EncryptionType int

const (
	// AesGcm256B64 is AES-256-GCM with a random 12-byte nonce carried in
	// the IV slot. The GCM authentication tag is appended to the
	// ciphertext by the cipher itself, so no separate MAC part is stored.
	AesGcm256B64 EncryptionType = 2

	// AesCbc256HmacSha256B64 is the legacy CBC+HMAC scheme. It is parsed
	// for storage compatibility but this implementation never produces it.
	AesCbc256HmacSha256B64 EncryptionType = 1
)

// EncryptedString is the immutable ciphertext wrapper used by every
// ciphertext-bearing Domain field. It carries the raw ciphertext plus the
// metadata needed to decrypt it given a key, and round-trips losslessly
// through its serialized form:
//
//	<type>.<b64 iv>|<b64 data>[|<b64 mac>]
type EncryptedString struct {
	Type EncryptionType
	IV   []byte
	Data []byte
	MAC  []byte
}

// ParseEncryptedString decodes the serialized ciphertext form. An empty
// string yields nil, not an empty-ciphertext value: absent source values
// must stay absent through the Data->Domain mapping.
func ParseEncryptedString(s string) (*EncryptedString, error) {
	if s == "" {
		return nil, nil
	}

	head, rest, ok := strings.Cut(s, ".")
	if !ok {
		return nil, fmt.Errorf("%w: missing type marker", ErrInvalidCiphertext)
	}

	var encType EncryptionType
	switch head {
	case "1":
		encType = AesCbc256HmacSha256B64
	case "2":
		encType = AesGcm256B64
	default:
		return nil, fmt.Errorf("%w: unknown encryption type %q", ErrInvalidCiphertext, head)
	}

	parts := strings.Split(rest, "|")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("%w: expected iv|data[|mac], got %d parts", ErrInvalidCiphertext, len(parts))
	}

	iv, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: decode iv: %v", ErrInvalidCiphertext, err)
	}
	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: decode data: %v", ErrInvalidCiphertext, err)
	}

	es := &EncryptedString{Type: encType, IV: iv, Data: data}
	if len(parts) == 3 {
		mac, macErr := base64.StdEncoding.DecodeString(parts[2])
		if macErr != nil {
			return nil, fmt.Errorf("%w: decode mac: %v", ErrInvalidCiphertext, macErr)
		}
		es.MAC = mac
	}

	return es, nil
}

// String returns the serialized storage/wire form. The output of String fed
// back through [ParseEncryptedString] reproduces an equal value.
func (e *EncryptedString) String() string {
	if e == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d.", int(e.Type))
	b.WriteString(base64.StdEncoding.EncodeToString(e.IV))
	b.WriteByte('|')
	b.WriteString(base64.StdEncoding.EncodeToString(e.Data))
	if len(e.MAC) > 0 {
		b.WriteByte('|')
		b.WriteString(base64.StdEncoding.EncodeToString(e.MAC))
	}
	return b.String()
}
