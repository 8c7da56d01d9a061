package domain

import (
	"context"
	"fmt"

	"github.com/vaultkit/go-vault-client/internal/crypto"
	"github.com/vaultkit/go-vault-client/internal/view"
	"github.com/vaultkit/go-vault-client/models"
)

// Collection is the in-memory encrypted representation of an organization
// collection. Its name decrypts with the organization key, never the
// account key.
type Collection struct {
	ID             string
	OrganizationID string
	Name           *crypto.EncryptedString
	ExternalID     string
	ReadOnly       bool
	HidePasswords  bool
}

// NewCollection builds the Domain form from the wire/storage form.
func NewCollection(data models.CollectionData) (*Collection, error) {
	c := &Collection{
		ID:             data.ID,
		OrganizationID: data.OrganizationID,
		ExternalID:     data.ExternalID,
		ReadOnly:       data.ReadOnly,
		HidePasswords:  data.HidePasswords,
	}

	var err error
	if c.Name, err = parseEnc("name", data.Name); err != nil {
		return nil, err
	}
	return c, nil
}

// ToData is the inverse of [NewCollection].
func (c *Collection) ToData() models.CollectionData {
	return models.CollectionData{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		Name:           encString(c.Name),
		ExternalID:     c.ExternalID,
		ReadOnly:       c.ReadOnly,
		HidePasswords:  c.HidePasswords,
	}
}

// Decrypt converts the collection to its View. A nil key resolves the
// organization key from the registry.
func (c *Collection) Decrypt(ctx context.Context, cs crypto.CryptoService, key *crypto.SymmetricKey) (*view.Collection, error) {
	k, err := resolveCipherKey(cs, c.OrganizationID, key)
	if err != nil {
		return nil, err
	}

	v := &view.Collection{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		ExternalID:     c.ExternalID,
		ReadOnly:       c.ReadOnly,
		HidePasswords:  c.HidePasswords,
	}
	if err = decryptFields(ctx, cs, k, []encField{{"name", c.Name, &v.Name}}); err != nil {
		return nil, err
	}
	return v, nil
}

// EncryptCollection converts a collection View to its Domain form under the
// organization key.
func EncryptCollection(ctx context.Context, cs crypto.CryptoService, v *view.Collection, key *crypto.SymmetricKey) (*Collection, error) {
	k, err := resolveCipherKey(cs, v.OrganizationID, key)
	if err != nil {
		return nil, err
	}

	c := &Collection{
		ID:             v.ID,
		OrganizationID: v.OrganizationID,
		ExternalID:     v.ExternalID,
		ReadOnly:       v.ReadOnly,
		HidePasswords:  v.HidePasswords,
	}
	if c.Name, err = encryptValue(ctx, cs, v.Name, k); err != nil {
		return nil, fmt.Errorf("encrypt name: %w", err)
	}
	return c, nil
}
