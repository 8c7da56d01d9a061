package view

import "time"

// Send is the decrypted representation of an ephemeral share. KeySeed holds
// the raw 16-byte send key seed once decrypted; the wrapped cipher is
// decrypted with the key derived from it, never with the account key.
type Send struct {
	ID       string
	AccessID string

	// KeySeed is the decrypted 16-byte seed the send key derives from.
	KeySeed []byte

	// HasPassword reports whether the send is password-gated. Password
	// carries the existing digest so re-encrypting the view preserves the
	// gate when no new password is supplied.
	HasPassword bool
	Password    string

	MaxAccessCount       *int
	AccessCount          int
	EachEmailAccessCount *int
	ExpirationDate       *time.Time
	RevisionDate         *time.Time
	Disabled             bool
	RequireOtp           bool
	Emails               []string

	Cipher *Cipher
}

// Expired reports whether the send has passed its expiration instant.
// Client-side gating only; the server check is authoritative.
func (s *Send) Expired(now time.Time) bool {
	return s.ExpirationDate != nil && now.After(*s.ExpirationDate)
}

// MaxAccessCountReached reports whether the access cap is exhausted.
func (s *Send) MaxAccessCountReached() bool {
	return s.MaxAccessCount != nil && s.AccessCount >= *s.MaxAccessCount
}

// Accessible reports whether the send may still be rendered: not disabled,
// not expired, and not over its access cap.
func (s *Send) Accessible(now time.Time) bool {
	return !s.Disabled && !s.Expired(now) && !s.MaxAccessCountReached()
}
