package importers_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultkit/go-vault-client/internal/crypto"
	"github.com/vaultkit/go-vault-client/internal/domain"
	"github.com/vaultkit/go-vault-client/internal/importers"
	"github.com/vaultkit/go-vault-client/internal/view"
	"github.com/vaultkit/go-vault-client/models"
)

const plainJSONDoc = `{
  "encrypted": false,
  "folders": [
    {"id": "f-1", "name": "Work"}
  ],
  "items": [
    {
      "id": "c-1",
      "organizationId": null,
      "folderId": "f-1",
      "type": 1,
      "name": "Example",
      "notes": "some notes",
      "favorite": true,
      "reprompt": 0,
      "fields": [{"name": "api-key", "value": "abc123", "type": 0}],
      "login": {
        "username": "a@b.com",
        "password": "p@ss",
        "totp": "JBSWY3DPEHPK3PXP",
        "uris": [{"uri": "https://example.com"}]
      }
    },
    {
      "id": "c-2",
      "folderId": null,
      "type": 3,
      "name": "Visa",
      "favorite": false,
      "reprompt": 0,
      "card": {"number": "4111111111111111", "expMonth": "4", "expYear": "2028"}
    }
  ]
}`

func TestGenericJSONImporter_Parse(t *testing.T) {
	ctx := context.Background()

	result, err := importers.NewGenericJSONImporter(false).Parse(ctx, plainJSONDoc)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Ciphers, 2)
	require.Len(t, result.Folders, 1)
	assert.Equal(t, "Work", result.Folders[0].Name)
	assert.Equal(t, []importers.Relationship{{CipherIndex: 0, TargetIndex: 0}}, result.FolderRelationships)

	login := result.Ciphers[0]
	assert.Equal(t, models.Login, login.Type)
	assert.Equal(t, "Example", login.Name)
	require.NotNil(t, login.Login)
	assert.Equal(t, "a@b.com", login.Login.Username)
	require.Len(t, login.Fields, 1)
	assert.Equal(t, "api-key", login.Fields[0].Name)

	card := result.Ciphers[1]
	assert.Equal(t, models.Card, card.Type)
	require.NotNil(t, card.Card)
	assert.Equal(t, "Visa", card.Card.Brand, "brand inferred when the source omits it")
}

func TestGenericJSONImporter_TypeFollowsPayload(t *testing.T) {
	ctx := context.Background()

	// The first item claims to be a card but carries a login payload; the
	// second claims to be a login but carries a secure note payload.
	doc := `{
	  "encrypted": false,
	  "items": [
	    {"id": "c-1", "type": 3, "name": "Mislabelled", "login": {"username": "a@b.com", "password": "p@ss"}},
	    {"id": "c-2", "type": 1, "name": "Note", "notes": "text", "secureNote": {"type": 0}}
	  ]
	}`

	result, err := importers.NewGenericJSONImporter(false).Parse(ctx, doc)
	require.NoError(t, err)
	require.Len(t, result.Ciphers, 2)

	login := result.Ciphers[0]
	assert.Equal(t, models.Login, login.Type)
	require.NotNil(t, login.Login)
	assert.Nil(t, login.Card)
	assert.Equal(t, "a@b.com", login.Login.Username)

	note := result.Ciphers[1]
	assert.Equal(t, models.SecureNote, note.Type)
	require.NotNil(t, note.SecureNote)
	assert.Nil(t, note.Login)
}

func TestGenericJSONImporter_RejectsEncryptedDocument(t *testing.T) {
	ctx := context.Background()

	result, err := importers.NewGenericJSONImporter(false).Parse(ctx, `{"encrypted": true, "items": []}`)
	require.ErrorIs(t, err, importers.ErrEncryptedInput)
	assert.False(t, result.Success)
	assert.Empty(t, result.Ciphers)
}

func TestGenericJSONImporter_MalformedDocument(t *testing.T) {
	ctx := context.Background()

	result, err := importers.NewGenericJSONImporter(false).Parse(ctx, `{"encrypted": fal`)
	require.Error(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Ciphers)
}

func newUnlockedCrypto(t *testing.T, masterPassword string) crypto.CryptoService {
	t.Helper()

	key, err := crypto.DeriveMasterKey(masterPassword, "user@example.com")
	require.NoError(t, err)

	cs := crypto.NewCryptoService()
	cs.SetKey(key)
	return cs
}

// buildEncryptedDoc encrypts one folder and one login under cs and wraps
// them in the encrypted export document shape.
func buildEncryptedDoc(t *testing.T, cs crypto.CryptoService) string {
	t.Helper()
	ctx := context.Background()

	marker, err := cs.EncryptString(ctx, "3b1c9a8e-validation-marker", nil)
	require.NoError(t, err)

	folder, err := domain.EncryptFolder(ctx, cs, &view.Folder{ID: "f-1", Name: "Work"}, nil)
	require.NoError(t, err)

	match := models.URIMatchDomain
	cipher, err := domain.EncryptCipher(ctx, cs, &view.Cipher{
		ID:       "c-1",
		FolderID: "f-1",
		Type:     models.Login,
		Name:     "Example",
		Notes:    "some notes",
		Login: &view.Login{
			Username: "a@b.com",
			Password: "p@ss",
			URIs:     []view.LoginURI{{URI: "https://example.com", Match: &match}},
		},
	}, nil)
	require.NoError(t, err)

	doc := map[string]any{
		"encrypted":                    true,
		"encKeyValidation_DO_NOT_EDIT": marker.String(),
		"folders":                      []models.FolderData{folder.ToData()},
		"items":                        []models.CipherData{cipher.ToData()},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(raw)
}

func TestEncryptedJSONImporter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t, "master password")
	data := buildEncryptedDoc(t, cs)

	result, err := importers.NewEncryptedJSONImporter(cs, false).Parse(ctx, data)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Ciphers, 1)
	require.Len(t, result.Folders, 1)
	assert.Equal(t, "Work", result.Folders[0].Name)
	assert.Equal(t, []importers.Relationship{{CipherIndex: 0, TargetIndex: 0}}, result.FolderRelationships)

	c := result.Ciphers[0]
	assert.Equal(t, "Example", c.Name)
	assert.Equal(t, "some notes", c.Notes)
	require.NotNil(t, c.Login)
	assert.Equal(t, "a@b.com", c.Login.Username)
	assert.Equal(t, "p@ss", c.Login.Password)
	assert.Empty(t, c.ID, "imported items are re-identified on upsert")
}

func TestEncryptedJSONImporter_WrongKeyFailsOnMarker(t *testing.T) {
	ctx := context.Background()
	data := buildEncryptedDoc(t, newUnlockedCrypto(t, "master password"))

	other := newUnlockedCrypto(t, "a different password")
	result, err := importers.NewEncryptedJSONImporter(other, false).Parse(ctx, data)
	require.ErrorIs(t, err, importers.ErrWrongImportKey)
	assert.False(t, result.Success)
	assert.Empty(t, result.Ciphers, "items are never touched after a marker mismatch")
}
