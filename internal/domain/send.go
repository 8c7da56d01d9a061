package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/vaultkit/go-vault-client/internal/crypto"
	"github.com/vaultkit/go-vault-client/internal/view"
	"github.com/vaultkit/go-vault-client/models"
)

// Send is the in-memory encrypted representation of an ephemeral share.
// Its confidentiality is independent of the account key: the wrapped cipher
// is encrypted under a key derived from a random per-send seed, and only
// the seed itself is stored encrypted under the account key.
type Send struct {
	ID       string
	AccessID string

	// Key is the send key seed encrypted under the account/org key.
	Key *crypto.EncryptedString

	// Password is the base64 PBKDF2 digest of the optional access
	// password. Already a hash; never wrapped again.
	Password string

	MaxAccessCount       *int
	AccessCount          int
	EachEmailAccessCount *int
	ExpirationDate       *time.Time
	RevisionDate         *time.Time
	Disabled             bool
	RequireOtp           bool
	Emails               []string

	// Cipher is the wrapped vault item, encrypted under the send key.
	Cipher *Cipher
}

// NewSend builds the Domain form from the wire/storage form.
func NewSend(data models.SendData) (*Send, error) {
	s := &Send{
		ID:                   data.ID,
		AccessID:             data.AccessID,
		Password:             data.Password,
		MaxAccessCount:       data.MaxAccessCount,
		AccessCount:          data.AccessCount,
		EachEmailAccessCount: data.EachEmailAccessCount,
		Disabled:             data.Disabled,
		RequireOtp:           data.RequireOtp,
		Emails:               data.Emails,
	}

	var err error
	if s.Key, err = parseEnc("key", data.Key); err != nil {
		return nil, err
	}
	if s.ExpirationDate, err = parseDate("expirationDate", data.ExpirationDate); err != nil {
		return nil, err
	}
	if s.RevisionDate, err = parseDate("revisionDate", data.RevisionDate); err != nil {
		return nil, err
	}
	if s.Cipher, err = NewCipher(data.Cipher); err != nil {
		return nil, fmt.Errorf("send cipher: %w", err)
	}
	return s, nil
}

// ToData is the inverse of [NewSend].
func (s *Send) ToData() models.SendData {
	return models.SendData{
		ID:                   s.ID,
		AccessID:             s.AccessID,
		Key:                  encString(s.Key),
		Password:             s.Password,
		MaxAccessCount:       s.MaxAccessCount,
		AccessCount:          s.AccessCount,
		EachEmailAccessCount: s.EachEmailAccessCount,
		ExpirationDate:       dateString(s.ExpirationDate),
		RevisionDate:         dateString(s.RevisionDate),
		Disabled:             s.Disabled,
		RequireOtp:           s.RequireOtp,
		Emails:               s.Emails,
		Cipher:               s.Cipher.ToData(),
	}
}

// Decrypt converts the send to its View in two sequential stages: first the
// send key seed is decrypted under the account key, then the wrapped cipher
// is decrypted under the key derived from the seed. A failure at either
// stage returns no view at all; a send never renders partially decrypted.
func (s *Send) Decrypt(ctx context.Context, cs crypto.CryptoService) (*view.Send, error) {
	seed, err := cs.DecryptToBytes(ctx, s.Key, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSendKeyUnavailable, err)
	}

	sendKey, err := cs.MakeSendKey(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSendKeyUnavailable, err)
	}

	cipherView, err := s.Cipher.Decrypt(ctx, cs, sendKey)
	if err != nil {
		return nil, fmt.Errorf("decrypt send cipher: %w", err)
	}

	return &view.Send{
		ID:                   s.ID,
		AccessID:             s.AccessID,
		KeySeed:              seed,
		HasPassword:          s.Password != "",
		Password:             s.Password,
		MaxAccessCount:       s.MaxAccessCount,
		AccessCount:          s.AccessCount,
		EachEmailAccessCount: s.EachEmailAccessCount,
		ExpirationDate:       s.ExpirationDate,
		RevisionDate:         s.RevisionDate,
		Disabled:             s.Disabled,
		RequireOtp:           s.RequireOtp,
		Emails:               s.Emails,
		Cipher:               cipherView,
	}, nil
}

// EncryptSend converts a send View to its Domain form. When the view has no
// key seed yet a fresh 16-byte seed is generated. The optional password is
// folded into a PBKDF2 digest salted with the seed; an empty password keeps
// whatever digest the view already carries. The seed is encrypted
// under the account/org key for storage; the wrapped cipher is encrypted
// under the derived send key so a link holder can decrypt without an
// account.
func EncryptSend(ctx context.Context, cs crypto.CryptoService, v *view.Send, password string, key *crypto.SymmetricKey) (*Send, error) {
	seed := v.KeySeed
	if len(seed) == 0 {
		var err error
		if seed, err = crypto.GenerateSendSeed(); err != nil {
			return nil, err
		}
		v.KeySeed = seed
	}

	sendKey, err := cs.MakeSendKey(seed)
	if err != nil {
		return nil, fmt.Errorf("derive send key: %w", err)
	}

	s := &Send{
		ID:                   v.ID,
		AccessID:             v.AccessID,
		MaxAccessCount:       v.MaxAccessCount,
		AccessCount:          v.AccessCount,
		EachEmailAccessCount: v.EachEmailAccessCount,
		ExpirationDate:       v.ExpirationDate,
		RevisionDate:         v.RevisionDate,
		Disabled:             v.Disabled,
		RequireOtp:           v.RequireOtp,
		Emails:               v.Emails,
	}

	if password != "" {
		s.Password = cs.HashSendPassword(password, seed)
	} else {
		// No new password supplied: keep the digest already on the view so
		// a re-encrypt cannot silently drop the gate.
		s.Password = v.Password
	}

	if s.Key, err = cs.Encrypt(ctx, seed, key); err != nil {
		return nil, fmt.Errorf("encrypt send key: %w", err)
	}

	if s.Cipher, err = EncryptCipher(ctx, cs, v.Cipher, sendKey); err != nil {
		return nil, fmt.Errorf("encrypt send cipher: %w", err)
	}

	return s, nil
}
