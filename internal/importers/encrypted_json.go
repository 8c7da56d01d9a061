package importers

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vaultkit/go-vault-client/internal/crypto"
	"github.com/vaultkit/go-vault-client/internal/domain"
	"github.com/vaultkit/go-vault-client/internal/view"
	"github.com/vaultkit/go-vault-client/models"
)

// encryptedJSONDocument is the encrypted JSON export shape. Records keep
// their storage representation.
type encryptedJSONDocument struct {
	Encrypted        bool                    `json:"encrypted"`
	EncKeyValidation string                  `json:"encKeyValidation_DO_NOT_EDIT"`
	Folders          []models.FolderData     `json:"folders"`
	Collections      []models.CollectionData `json:"collections"`
	Items            []models.CipherData     `json:"items"`
}

// EncryptedJSONImporter parses the system's encrypted JSON export. Before
// touching any item it decrypts the document's validation marker, so a
// wrong key fails once instead of hundreds of times.
type EncryptedJSONImporter struct {
	baseImporter
	crypto crypto.CryptoService
}

// NewEncryptedJSONImporter constructs the importer. The crypto service must
// hold the key the document was exported under (the account key, or the
// organization key for an organization export).
func NewEncryptedJSONImporter(cs crypto.CryptoService, organization bool) *EncryptedJSONImporter {
	return &EncryptedJSONImporter{baseImporter: baseImporter{organization: organization}, crypto: cs}
}

func (imp *EncryptedJSONImporter) Parse(ctx context.Context, data string) (*ImportResult, error) {
	result := &ImportResult{}

	var doc encryptedJSONDocument
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return result, fmt.Errorf("parse encrypted json document: %w", err)
	}

	if err := imp.checkValidationMarker(ctx, doc); err != nil {
		return result, err
	}

	folders := make([]*view.Folder, len(doc.Folders))
	collections := make([]*view.Collection, len(doc.Collections))
	ciphers := make([]*view.Cipher, len(doc.Items))

	g, gctx := errgroup.WithContext(ctx)
	for i, fd := range doc.Folders {
		i, fd := i, fd
		g.Go(func() error {
			f, err := domain.NewFolder(fd)
			if err != nil {
				return err
			}
			v, err := f.Decrypt(gctx, imp.crypto, nil)
			if err != nil {
				return err
			}
			folders[i] = v
			return nil
		})
	}
	for i, cd := range doc.Collections {
		i, cd := i, cd
		g.Go(func() error {
			col, err := domain.NewCollection(cd)
			if err != nil {
				return err
			}
			v, err := col.Decrypt(gctx, imp.crypto, nil)
			if err != nil {
				return err
			}
			collections[i] = v
			return nil
		})
	}
	for i, cd := range doc.Items {
		i, cd := i, cd
		g.Go(func() error {
			c, err := domain.NewCipher(cd)
			if err != nil {
				return err
			}
			v, err := c.Decrypt(gctx, imp.crypto, nil)
			if err != nil {
				return err
			}
			ciphers[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, fmt.Errorf("decrypt import document: %w", err)
	}

	folderIndex := make(map[string]int, len(folders))
	for i, f := range folders {
		folderIndex[f.ID] = i
		result.Folders = append(result.Folders, &view.Folder{Name: f.Name})
	}
	collectionIndex := make(map[string]int, len(collections))
	for i, col := range collections {
		collectionIndex[col.ID] = i
		result.Collections = append(result.Collections, &view.Collection{
			OrganizationID: col.OrganizationID,
			Name:           col.Name,
			ExternalID:     col.ExternalID,
		})
	}

	for _, v := range ciphers {
		if v.Type == models.MasterPassword || v.IsDeleted() {
			continue
		}

		cipherIndex := len(result.Ciphers)
		if v.FolderID != "" {
			if i, ok := folderIndex[v.FolderID]; ok {
				result.FolderRelationships = append(result.FolderRelationships, Relationship{cipherIndex, i})
			}
		}
		for _, id := range v.CollectionIDs {
			if i, ok := collectionIndex[id]; ok {
				result.CollectionRelationships = append(result.CollectionRelationships, Relationship{cipherIndex, i})
			}
		}

		// Imported items get fresh identities and placement on upsert.
		v.ID = ""
		v.FolderID = ""
		v.CollectionIDs = nil
		imp.cleanupCipher(v)
		result.Ciphers = append(result.Ciphers, v)
	}

	result.Success = true
	return result, nil
}

// checkValidationMarker decrypts the document's random-GUID marker. It
// tries the account key first, then the organization key of the first
// collection for organization-scoped documents.
func (imp *EncryptedJSONImporter) checkValidationMarker(ctx context.Context, doc encryptedJSONDocument) error {
	if doc.EncKeyValidation == "" {
		return nil
	}

	marker, err := crypto.ParseEncryptedString(doc.EncKeyValidation)
	if err != nil {
		return fmt.Errorf("parse validation marker: %w", err)
	}

	if _, err = imp.crypto.DecryptToString(ctx, marker, nil); err == nil {
		return nil
	}

	if len(doc.Collections) > 0 {
		orgKey, keyErr := imp.crypto.GetOrgKey(doc.Collections[0].OrganizationID)
		if keyErr == nil {
			if _, err = imp.crypto.DecryptToString(ctx, marker, orgKey); err == nil {
				return nil
			}
		}
	}

	return ErrWrongImportKey
}
