package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultkit/go-vault-client/internal/crypto"
	"github.com/vaultkit/go-vault-client/internal/domain"
	"github.com/vaultkit/go-vault-client/internal/view"
)

func sendView() *view.Send {
	max := 3
	exp := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	return &view.Send{
		ID:             "send-1",
		AccessID:       "access-1",
		MaxAccessCount: &max,
		ExpirationDate: &exp,
		Emails:         []string{"friend@example.com"},
		Cipher:         loginView(),
	}
}

func TestSend_EncryptDecrypt_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)

	in := sendView()
	enc, err := domain.EncryptSend(ctx, cs, in, "", nil)
	require.NoError(t, err)

	// A fresh 16-byte seed was generated and stored encrypted.
	require.Len(t, in.KeySeed, 16)
	require.NotNil(t, enc.Key)
	assert.Empty(t, enc.Password)

	got, err := enc.Decrypt(ctx, cs)
	require.NoError(t, err)

	assert.Equal(t, in.KeySeed, got.KeySeed)
	assert.Equal(t, in.Cipher, got.Cipher)
	assert.Equal(t, in.MaxAccessCount, got.MaxAccessCount)
	assert.False(t, got.HasPassword)
}

func TestSend_PasswordDigest(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)

	in := sendView()
	enc, err := domain.EncryptSend(ctx, cs, in, "open sesame", nil)
	require.NoError(t, err)

	// The stored digest is checkable against the password but never
	// equals it, and it is salted with the send key seed.
	require.NotEmpty(t, enc.Password)
	assert.NotEqual(t, "open sesame", enc.Password)
	assert.Equal(t, cs.HashSendPassword("open sesame", in.KeySeed), enc.Password)

	got, err := enc.Decrypt(ctx, cs)
	require.NoError(t, err)
	assert.True(t, got.HasPassword)
}

func TestSend_ReencryptKeepsPasswordDigest(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)

	enc, err := domain.EncryptSend(ctx, cs, sendView(), "open sesame", nil)
	require.NoError(t, err)

	got, err := enc.Decrypt(ctx, cs)
	require.NoError(t, err)
	require.True(t, got.HasPassword)
	require.Equal(t, enc.Password, got.Password)

	// Re-encrypting the decrypted view without supplying the password again
	// must keep the gate, not silently drop it.
	again, err := domain.EncryptSend(ctx, cs, got, "", nil)
	require.NoError(t, err)
	assert.Equal(t, enc.Password, again.Password)

	// A new password replaces the carried digest.
	rotated, err := domain.EncryptSend(ctx, cs, got, "new secret", nil)
	require.NoError(t, err)
	assert.Equal(t, cs.HashSendPassword("new secret", got.KeySeed), rotated.Password)
	assert.NotEqual(t, enc.Password, rotated.Password)
}

func TestSend_CipherEncryptedUnderSendKey(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)

	in := sendView()
	enc, err := domain.EncryptSend(ctx, cs, in, "", nil)
	require.NoError(t, err)

	// The wrapped cipher must not decrypt under the account key: only the
	// derived send key opens it.
	_, err = enc.Cipher.Decrypt(ctx, cs, nil)
	require.ErrorIs(t, err, crypto.ErrDecryptFailed)

	sendKey, err := cs.MakeSendKey(in.KeySeed)
	require.NoError(t, err)
	got, err := enc.Cipher.Decrypt(ctx, cs, sendKey)
	require.NoError(t, err)
	assert.Equal(t, in.Cipher, got)
}

func TestSend_Decrypt_KeyStageFailure_NoPartialView(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)

	in := sendView()
	enc, err := domain.EncryptSend(ctx, cs, in, "", nil)
	require.NoError(t, err)

	// Lock the vault: the send key cannot be unwrapped, so no view at all
	// is produced.
	cs.ClearKey()

	got, err := enc.Decrypt(ctx, cs)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrSendKeyUnavailable)
}

func TestSend_DataDomain_Symmetric(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)

	enc, err := domain.EncryptSend(ctx, cs, sendView(), "pw", nil)
	require.NoError(t, err)

	data := enc.ToData()
	back, err := domain.NewSend(data)
	require.NoError(t, err)
	assert.Equal(t, data, back.ToData())
}
