package crypto_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultkit/go-vault-client/internal/crypto"
)

func newUnlockedService(t *testing.T) (crypto.CryptoService, *crypto.SymmetricKey) {
	t.Helper()

	key, err := crypto.DeriveMasterKey("correct horse battery staple", "user@example.com")
	require.NoError(t, err)

	svc := crypto.NewCryptoService()
	svc.SetKey(key)
	return svc, key
}

func TestCryptoService_EncryptDecrypt_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUnlockedService(t)

	plaintext := "p@ss w0rd with unicode: пароль"

	es, err := svc.EncryptString(ctx, plaintext, nil)
	require.NoError(t, err)
	require.NotNil(t, es)

	// Ciphertext never contains the plaintext.
	assert.NotContains(t, es.String(), plaintext)

	got, err := svc.DecryptToString(ctx, es, nil)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestCryptoService_Encrypt_NoKey(t *testing.T) {
	ctx := context.Background()
	svc := crypto.NewCryptoService()

	_, err := svc.EncryptString(ctx, "secret", nil)
	assert.ErrorIs(t, err, crypto.ErrNoKey)
}

func TestCryptoService_Decrypt_WrongKey(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUnlockedService(t)

	es, err := svc.EncryptString(ctx, "secret", nil)
	require.NoError(t, err)

	other, err := crypto.DeriveMasterKey("another password", "user@example.com")
	require.NoError(t, err)

	_, err = svc.DecryptToString(ctx, es, other)
	assert.ErrorIs(t, err, crypto.ErrDecryptFailed)
}

func TestCryptoService_OrgKeys(t *testing.T) {
	svc, _ := newUnlockedService(t)

	_, err := svc.GetOrgKey("org-A")
	assert.ErrorIs(t, err, crypto.ErrNoOrgKey)

	orgKey, err := crypto.DeriveMasterKey("org secret", "org-A")
	require.NoError(t, err)

	svc.SetOrgKey("org-A", orgKey)
	got, err := svc.GetOrgKey("org-A")
	require.NoError(t, err)
	assert.Equal(t, orgKey, got)

	// ClearKey drops the account key and the whole org registry.
	svc.ClearKey()
	assert.False(t, svc.HasKey())
	_, err = svc.GetOrgKey("org-A")
	assert.ErrorIs(t, err, crypto.ErrNoOrgKey)
}

func TestCryptoService_MakeSendKey_Deterministic(t *testing.T) {
	svc, _ := newUnlockedService(t)

	seed, err := crypto.GenerateSendSeed()
	require.NoError(t, err)
	require.Len(t, seed, 16)

	k1, err := svc.MakeSendKey(seed)
	require.NoError(t, err)
	k2, err := svc.MakeSendKey(seed)
	require.NoError(t, err)

	// Same seed always derives the same key: the link alone must suffice.
	assert.Equal(t, k1.Bytes(), k2.Bytes())

	otherSeed, err := crypto.GenerateSendSeed()
	require.NoError(t, err)
	k3, err := svc.MakeSendKey(otherSeed)
	require.NoError(t, err)
	assert.NotEqual(t, k1.Bytes(), k3.Bytes())
}

func TestCryptoService_HashSendPassword(t *testing.T) {
	svc, _ := newUnlockedService(t)

	seed := []byte("0123456789abcdef")

	h1 := svc.HashSendPassword("hunter2", seed)
	h2 := svc.HashSendPassword("hunter2", seed)
	h3 := svc.HashSendPassword("hunter3", seed)

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.NotEmpty(t, h1)
}

func TestParseEncryptedString(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantNil bool
		wantErr bool
	}{
		{name: "empty maps to nil", in: "", wantNil: true},
		{name: "gcm round trip", in: "2.AAAAAAAAAAAAAAAA|AQIDBA=="},
		{name: "legacy cbc with mac", in: "1.AAAAAAAAAAAAAAAA|AQIDBA==|BQYHCA=="},
		{name: "missing type marker", in: "AAAA|BBBB", wantErr: true},
		{name: "unknown type", in: "9.AAAA|BBBB", wantErr: true},
		{name: "too few parts", in: "2.AAAA", wantErr: true},
		{name: "bad base64", in: "2.!!!!|BBBB", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			es, err := crypto.ParseEncryptedString(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, crypto.ErrInvalidCiphertext)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, es)
				return
			}
			require.NotNil(t, es)
			assert.Equal(t, tt.in, es.String())
		})
	}
}

func TestEncryptedString_String_Nil(t *testing.T) {
	var es *crypto.EncryptedString
	assert.Equal(t, "", es.String())
}
