package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/vaultkit/go-vault-client/internal/crypto"
	"github.com/vaultkit/go-vault-client/internal/view"
	"github.com/vaultkit/go-vault-client/models"
)

// Folder is the in-memory encrypted representation of a folder.
type Folder struct {
	ID           string
	Name         *crypto.EncryptedString
	RevisionDate *time.Time
}

// NewFolder builds the Domain form from the wire/storage form.
func NewFolder(data models.FolderData) (*Folder, error) {
	f := &Folder{ID: data.ID}

	var err error
	if f.Name, err = parseEnc("name", data.Name); err != nil {
		return nil, err
	}
	if f.RevisionDate, err = parseDate("revisionDate", data.RevisionDate); err != nil {
		return nil, err
	}
	return f, nil
}

// ToData is the inverse of [NewFolder].
func (f *Folder) ToData() models.FolderData {
	return models.FolderData{
		ID:           f.ID,
		Name:         encString(f.Name),
		RevisionDate: dateString(f.RevisionDate),
	}
}

// Decrypt converts the folder to its View under the account key (or an
// explicit caller key).
func (f *Folder) Decrypt(ctx context.Context, cs crypto.CryptoService, key *crypto.SymmetricKey) (*view.Folder, error) {
	v := &view.Folder{ID: f.ID, RevisionDate: f.RevisionDate}
	err := decryptFields(ctx, cs, key, []encField{{"name", f.Name, &v.Name}})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// EncryptFolder converts a folder View to its Domain form.
func EncryptFolder(ctx context.Context, cs crypto.CryptoService, v *view.Folder, key *crypto.SymmetricKey) (*Folder, error) {
	f := &Folder{ID: v.ID, RevisionDate: v.RevisionDate}

	var err error
	if f.Name, err = encryptValue(ctx, cs, v.Name, key); err != nil {
		return nil, fmt.Errorf("encrypt name: %w", err)
	}
	return f, nil
}
