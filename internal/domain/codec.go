// Package domain holds the in-memory encrypted representations of vault
// entities and the transformation engine that maps them to their Data
// (wire/storage) and View (decrypted) counterparts.
//
// The mapping is declared per entity as a compile-time encode/decode pair
// (ToData and a New* constructor) built on the shared helpers in this file,
// so every Domain field provably has a mapping. A Domain object never
// exposes plaintext; conversion to a View requires a key and goes through
// the concurrent field decryption below.
package domain

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vaultkit/go-vault-client/internal/crypto"
)

// encField binds one ciphertext-bearing Domain field to its plaintext
// destination in a View under construction.
type encField struct {
	name string
	src  *crypto.EncryptedString
	dst  *string
}

// decryptFields decrypts every bound field concurrently and joins on an
// all-settle barrier: each goroutine runs to completion and the first
// failure is reported only after all have finished. Fields with a nil
// source leave their destination empty. Latency is bounded by the slowest
// single field, not the sum, which matters for bulk vault decryption.
func decryptFields(ctx context.Context, cs crypto.CryptoService, key *crypto.SymmetricKey, fields []encField) error {
	var g errgroup.Group
	for _, f := range fields {
		f := f
		if f.src == nil {
			continue
		}
		g.Go(func() error {
			plain, err := cs.DecryptToString(ctx, f.src, key)
			if err != nil {
				return fmt.Errorf("decrypt %s: %w", f.name, err)
			}
			*f.dst = plain
			return nil
		})
	}
	return g.Wait()
}

// encryptValue wraps one plaintext value for a Domain field. Empty input
// maps to nil, never to an encryption of the empty string, so absent fields
// stay absent through every representation.
func encryptValue(ctx context.Context, cs crypto.CryptoService, plain string, key *crypto.SymmetricKey) (*crypto.EncryptedString, error) {
	if plain == "" {
		return nil, nil
	}
	return cs.EncryptString(ctx, plain, key)
}

// parseEnc maps a wire ciphertext string to its Domain wrapper ("" -> nil).
func parseEnc(field, s string) (*crypto.EncryptedString, error) {
	es, err := crypto.ParseEncryptedString(s)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", field, err)
	}
	return es, nil
}

// encString maps a Domain ciphertext wrapper back to its wire string
// (nil -> ""). Together with parseEnc the Data<->Domain mapping is
// symmetric and lossless.
func encString(es *crypto.EncryptedString) string {
	return es.String()
}

// parseDate maps a wire RFC 3339 date to a Domain time ("" -> nil). A
// present but malformed value is a decode error, not a silent nil.
func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w: %q", field, ErrInvalidDate, s)
	}
	return &t, nil
}

// dateString is the inverse of parseDate (nil -> "").
func dateString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
