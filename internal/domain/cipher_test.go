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
	"github.com/vaultkit/go-vault-client/models"
)

func newUnlockedCrypto(t *testing.T) crypto.CryptoService {
	t.Helper()

	key, err := crypto.DeriveMasterKey("master password", "user@example.com")
	require.NoError(t, err)

	cs := crypto.NewCryptoService()
	cs.SetKey(key)
	return cs
}

func loginView() *view.Cipher {
	match := models.URIMatchDomain
	return &view.Cipher{
		Type:     models.Login,
		Name:     "Example",
		Notes:    "some notes",
		Favorite: true,
		Login: &view.Login{
			Username: "a@b.com",
			Password: "p@ss",
			TOTP:     "JBSWY3DPEHPK3PXP",
			URIs:     []view.LoginURI{{URI: "https://example.com", Match: &match}},
		},
		Fields: []view.Field{
			{Name: "pin", Value: "1234", Type: models.FieldHidden},
			{Name: "phone", Value: "+15550100", Type: models.FieldPhone},
		},
	}
}

func cardView() *view.Cipher {
	return &view.Cipher{
		Type: models.Card,
		Name: "Visa",
		Card: &view.Card{
			CardholderName: "JOHN DOE",
			Brand:          "Visa",
			Number:         "4111111111111111",
			ExpMonth:       "12",
			ExpYear:        "2030",
			Code:           "123",
		},
	}
}

func identityView() *view.Cipher {
	return &view.Cipher{
		Type: models.Identity,
		Name: "Me",
		Identity: &view.Identity{
			Title:     "Dr",
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			City:      "Berlin",
			SSN:       "078-05-1120",
		},
	}
}

func noteView(t models.CipherType) *view.Cipher {
	return &view.Cipher{
		Type:       t,
		Name:       "note item",
		Notes:      `{"seed":"secret material"}`,
		SecureNote: &view.SecureNote{Type: models.SecureNoteGeneric},
	}
}

func TestCipher_EncryptDecrypt_RoundTrip_AllTypes(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)

	tests := []struct {
		name string
		in   *view.Cipher
	}{
		{"login", loginView()},
		{"card", cardView()},
		{"identity", identityView()},
		{"secure note", noteView(models.SecureNote)},
		{"totp", noteView(models.TOTP)},
		{"crypto wallet", noteView(models.CryptoWallet)},
		{"driver license", noteView(models.DriverLicense)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := domain.EncryptCipher(ctx, cs, tt.in, nil)
			require.NoError(t, err)

			// Domain never exposes plaintext.
			if tt.in.Name != "" {
				assert.NotContains(t, enc.Name.String(), tt.in.Name)
			}

			got, err := enc.Decrypt(ctx, cs, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestCipher_DataDomain_Symmetric(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)

	enc, err := domain.EncryptCipher(ctx, cs, loginView(), nil)
	require.NoError(t, err)
	enc.ID = "cipher-1"
	now := time.Now().UTC().Truncate(time.Second)
	enc.RevisionDate = &now

	data := enc.ToData()
	back, err := domain.NewCipher(data)
	require.NoError(t, err)

	// Data -> Domain -> Data is lossless for the declared field set.
	assert.Equal(t, data, back.ToData())
}

func TestCipher_Decrypt_FieldOrderPreserved(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)

	in := loginView()
	enc, err := domain.EncryptCipher(ctx, cs, in, nil)
	require.NoError(t, err)

	got, err := enc.Decrypt(ctx, cs, nil)
	require.NoError(t, err)

	require.Len(t, got.Fields, 2)
	assert.Equal(t, "pin", got.Fields[0].Name)
	assert.Equal(t, "phone", got.Fields[1].Name)
}

func TestCipher_KeyScopeIsolation(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)

	orgKey, err := crypto.DeriveMasterKey("org secret", "org-A")
	require.NoError(t, err)
	cs.SetOrgKey("org-A", orgKey)

	v := loginView()
	v.OrganizationID = "org-A"

	enc, err := domain.EncryptCipher(ctx, cs, v, nil)
	require.NoError(t, err)

	// Re-register org-A with a different key: decryption must fail rather
	// than silently produce wrong plaintext.
	wrongKey, err := crypto.DeriveMasterKey("not the org secret", "org-A")
	require.NoError(t, err)
	cs.SetOrgKey("org-A", wrongKey)

	_, err = enc.Decrypt(ctx, cs, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, crypto.ErrDecryptFailed)
}

func TestCipher_MissingOrgKey(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)

	v := loginView()
	v.OrganizationID = "org-B"

	_, err := domain.EncryptCipher(ctx, cs, v, nil)
	assert.ErrorIs(t, err, crypto.ErrNoOrgKey)
}

func TestNewCipher_UnknownType(t *testing.T) {
	_, err := domain.NewCipher(models.CipherData{ID: "x", Type: 99})
	assert.ErrorIs(t, err, domain.ErrUnknownCipherType)
}

func TestNewCipher_MalformedCiphertext(t *testing.T) {
	_, err := domain.NewCipher(models.CipherData{ID: "x", Type: models.Login, Name: "not ciphertext"})
	assert.ErrorIs(t, err, crypto.ErrInvalidCiphertext)
}

func TestNewCipher_MalformedDate(t *testing.T) {
	_, err := domain.NewCipher(models.CipherData{ID: "x", Type: models.SecureNote, RevisionDate: "yesterday"})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestEncryptCipher_ShapeMismatch(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)

	tests := []struct {
		name string
		mut  func(*view.Cipher)
	}{
		{"missing sub-shape", func(v *view.Cipher) { v.Login = nil }},
		{"extra sub-shape", func(v *view.Cipher) { v.Card = &view.Card{} }},
		{"wrong sub-shape", func(v *view.Cipher) {
			v.Login = nil
			v.SecureNote = &view.SecureNote{}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := loginView()
			tt.mut(v)
			_, err := domain.EncryptCipher(ctx, cs, v, nil)
			assert.ErrorIs(t, err, domain.ErrCipherShapeMismatch)
		})
	}
}

func TestEncryptCipher_EmptyValuesStayAbsent(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)

	v := &view.Cipher{
		Type:  models.Login,
		Name:  "only a name",
		Login: &view.Login{},
	}

	enc, err := domain.EncryptCipher(ctx, cs, v, nil)
	require.NoError(t, err)

	// Absent plaintext maps to nil, never to an encrypted empty string.
	assert.Nil(t, enc.Notes)
	assert.Nil(t, enc.Login.Username)
	assert.Nil(t, enc.Login.Password)

	data := enc.ToData()
	assert.Empty(t, data.Notes)
	assert.Empty(t, data.Login.Password)
}
