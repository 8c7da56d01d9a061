// Package importers normalizes external vault-export documents into
// canonical plaintext views ready for encryption and storage. Importers are
// tolerant by construction: a column they do not recognize becomes a custom
// field instead of being dropped, and only a whole-document parse failure
// aborts an import.
package importers

import (
	"context"

	"github.com/vaultkit/go-vault-client/internal/view"
)

// Importer parses one exported document into an [ImportResult].
type Importer interface {
	// Parse normalizes data. A whole-document parse failure yields a
	// result with Success false and zero ciphers alongside the error; a
	// failure to interpret an individual field never aborts its row.
	// The context is consumed only by importers that decrypt.
	Parse(ctx context.Context, data string) (*ImportResult, error)
}

// Relationship links a cipher to a folder or collection by position in the
// result lists. Keeping indices instead of embedding the target avoids
// creating a duplicate folder per row when thousands of rows share one
// folder name.
type Relationship struct {
	CipherIndex int
	TargetIndex int
}

// ImportResult is the outcome of parsing one document. Either Folders or
// Collections is populated, never both, matching the importer's scope.
type ImportResult struct {
	Success bool

	Ciphers     []*view.Cipher
	Folders     []*view.Folder
	Collections []*view.Collection

	FolderRelationships     []Relationship
	CollectionRelationships []Relationship
}
