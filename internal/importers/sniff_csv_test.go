package importers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultkit/go-vault-client/internal/importers"
	"github.com/vaultkit/go-vault-client/models"
)

func TestSniffCSVImporter_LoginShape(t *testing.T) {
	ctx := context.Background()
	data := "grouping,title,url,username,password,extra\n" +
		"Work,GitHub,https://github.com,octocat,hunter2,personal access token rotated"

	result, err := importers.NewSniffCSVImporter(false).Parse(ctx, data)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Ciphers, 1)

	c := result.Ciphers[0]
	assert.Equal(t, models.Login, c.Type)
	assert.Equal(t, "GitHub", c.Name)
	require.NotNil(t, c.Login)
	assert.Equal(t, "octocat", c.Login.Username)
	assert.Equal(t, "hunter2", c.Login.Password)
	require.Len(t, c.Login.URIs, 1)
	assert.Equal(t, "https://github.com", c.Login.URIs[0].URI)
	assert.Equal(t, "personal access token rotated", c.Notes, "the extra alias maps to notes")

	require.Len(t, result.Folders, 1)
	assert.Equal(t, "Work", result.Folders[0].Name)
}

func TestSniffCSVImporter_CardShape(t *testing.T) {
	ctx := context.Background()
	data := "name,cardnumber,cardholder,expiry,cvv\n" +
		"My Card,5500005555555559,Jane Roe,04/2028,123"

	result, err := importers.NewSniffCSVImporter(false).Parse(ctx, data)
	require.NoError(t, err)
	require.Len(t, result.Ciphers, 1)

	c := result.Ciphers[0]
	assert.Equal(t, models.Card, c.Type)
	assert.Nil(t, c.Login)
	require.NotNil(t, c.Card)
	assert.Equal(t, "5500005555555559", c.Card.Number)
	assert.Equal(t, "Mastercard", c.Card.Brand)
	assert.Equal(t, "Jane Roe", c.Card.CardholderName)
	assert.Equal(t, "04", c.Card.ExpMonth)
	assert.Equal(t, "2028", c.Card.ExpYear)
	assert.Equal(t, "123", c.Card.Code)
}

func TestSniffCSVImporter_IdentityShape(t *testing.T) {
	ctx := context.Background()
	data := "name,firstname,lastname,email,phone\n" +
		"Me,Jane,Roe,jane@example.com,555-0100"

	result, err := importers.NewSniffCSVImporter(false).Parse(ctx, data)
	require.NoError(t, err)
	require.Len(t, result.Ciphers, 1)

	c := result.Ciphers[0]
	assert.Equal(t, models.Identity, c.Type)
	require.NotNil(t, c.Identity)
	assert.Equal(t, "Jane", c.Identity.FirstName)
	assert.Equal(t, "Roe", c.Identity.LastName)
	assert.Equal(t, "jane@example.com", c.Identity.Email)
	assert.Equal(t, "555-0100", c.Identity.Phone)
}

func TestSniffCSVImporter_NoteShape(t *testing.T) {
	ctx := context.Background()
	data := "name,content\n" +
		"Recovery Codes,code1 code2 code3"

	result, err := importers.NewSniffCSVImporter(false).Parse(ctx, data)
	require.NoError(t, err)
	require.Len(t, result.Ciphers, 1)

	c := result.Ciphers[0]
	assert.Equal(t, models.SecureNote, c.Type)
	require.NotNil(t, c.SecureNote)
	assert.Equal(t, "code1 code2 code3", c.Notes)
}

func TestSniffCSVImporter_VendorColumnsBecomeCustomFields(t *testing.T) {
	ctx := context.Background()
	data := "title,username,password,vendor_id,last_rotated\n" +
		"Router,admin,changeme,v-42,2026-01-01"

	result, err := importers.NewSniffCSVImporter(false).Parse(ctx, data)
	require.NoError(t, err)
	require.Len(t, result.Ciphers, 1)

	c := result.Ciphers[0]
	require.Len(t, c.Fields, 2)
	assert.Equal(t, "vendor_id", c.Fields[0].Name)
	assert.Equal(t, "v-42", c.Fields[0].Value)
	assert.Equal(t, "last_rotated", c.Fields[1].Name)
	assert.Equal(t, "2026-01-01", c.Fields[1].Value)
}

func TestSniffCSVImporter_MalformedDocument(t *testing.T) {
	ctx := context.Background()
	data := "title,password\n\"broken,row"

	result, err := importers.NewSniffCSVImporter(false).Parse(ctx, data)
	require.Error(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Ciphers)
}
