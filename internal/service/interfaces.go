// Package service holds the vault state services: per-entity stores that
// persist encrypted records through the storage layer, memoize decrypted
// views, and invalidate those views on every mutation.
//
// Each service partitions its records per user. Records are kept as a JSON
// map of id to encrypted data under a single storage key per user, so a
// sync replace is one write and a lookup is one read plus a map access.
package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mocks.go -package=mock

import (
	"context"

	"github.com/vaultkit/go-vault-client/internal/domain"
	"github.com/vaultkit/go-vault-client/internal/view"
	"github.com/vaultkit/go-vault-client/models"
)

// UserService tracks the active account. Entity services derive their
// storage keys from it, which keeps each user's records partitioned.
type UserService interface {
	// GetUserId returns the id of the active account. Returns
	// [ErrNoActiveUser] when no vault has been unlocked.
	GetUserId(ctx context.Context) (string, error)

	// SetActiveUser records the account id after a successful unlock.
	SetActiveUser(userID string)

	// ClearActiveUser forgets the account id (vault lock / logout).
	ClearActiveUser()
}

// CipherService manages the vault items of the active user.
type CipherService interface {
	// Get returns the item with the given id. Returns [ErrNotFound] when
	// the id is unknown.
	Get(ctx context.Context, id string) (*domain.Cipher, error)

	// GetAll returns every stored item, in unspecified order.
	GetAll(ctx context.Context) ([]*domain.Cipher, error)

	// GetAllDecrypted returns decrypted views of every item, sorted by
	// name then id. The result is memoized until the next mutation; any
	// single decryption failure fails the whole call.
	GetAllDecrypted(ctx context.Context) ([]*view.Cipher, error)

	// Encrypt encrypts a plaintext view into storable item data. It does
	// not persist; pair it with Upsert.
	Encrypt(ctx context.Context, v *view.Cipher) (models.CipherData, error)

	// Upsert inserts or replaces one item. A missing id is assigned.
	Upsert(ctx context.Context, data models.CipherData) error

	// Replace swaps the full item set for the active user, as after a
	// server sync.
	Replace(ctx context.Context, records map[string]models.CipherData) error

	// SoftDelete moves the item to trash by stamping its deletion date.
	SoftDelete(ctx context.Context, id string) error

	// Restore clears the deletion date of a trashed item.
	Restore(ctx context.Context, id string) error

	// Delete permanently removes the item. Deleting an absent id is a
	// no-op.
	Delete(ctx context.Context, id string) error

	// Clear drops all items stored for the given user.
	Clear(ctx context.Context, userID string) error

	// ClearCache discards the memoized decrypted views (vault lock).
	ClearCache()
}

// FolderService manages the folders of the active user.
type FolderService interface {
	Get(ctx context.Context, id string) (*domain.Folder, error)
	GetAll(ctx context.Context) ([]*domain.Folder, error)

	// GetAllDecrypted returns decrypted folder views sorted by name then
	// id, memoized until the next mutation.
	GetAllDecrypted(ctx context.Context) ([]*view.Folder, error)

	Upsert(ctx context.Context, data models.FolderData) error
	Replace(ctx context.Context, records map[string]models.FolderData) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context, userID string) error
	ClearCache()
}

// CollectionService manages the organization collections visible to the
// active user.
type CollectionService interface {
	Get(ctx context.Context, id string) (*domain.Collection, error)
	GetAll(ctx context.Context) ([]*domain.Collection, error)

	// GetAllDecrypted returns decrypted collection views sorted by name
	// then id, memoized until the next mutation. Decryption uses each
	// collection's organization key.
	GetAllDecrypted(ctx context.Context) ([]*view.Collection, error)

	Upsert(ctx context.Context, data models.CollectionData) error
	Replace(ctx context.Context, records map[string]models.CollectionData) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context, userID string) error
	ClearCache()
}

// SendService manages the sends of the active user.
type SendService interface {
	Get(ctx context.Context, id string) (*domain.Send, error)
	GetAll(ctx context.Context) ([]*domain.Send, error)

	// GetAllDecrypted returns decrypted send views sorted by name then
	// id, memoized until the next mutation. Each send decrypts in two
	// stages: the key seed under the account key, then the content under
	// the derived send key.
	GetAllDecrypted(ctx context.Context) ([]*view.Send, error)

	// Encrypt encrypts a plaintext send view into storable data. A
	// non-empty password is hashed into the send's password digest.
	Encrypt(ctx context.Context, v *view.Send, password string) (models.SendData, error)

	Upsert(ctx context.Context, data models.SendData) error
	Replace(ctx context.Context, records map[string]models.SendData) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context, userID string) error
	ClearCache()
}

// ExportFormat selects the serialization an export produces.
type ExportFormat string

const (
	ExportFormatCSV           ExportFormat = "csv"
	ExportFormatJSON          ExportFormat = "json"
	ExportFormatEncryptedJSON ExportFormat = "encrypted_json"
)

// ExportService serializes the active user's vault for download.
type ExportService interface {
	// GetExport renders the personal vault in the given format.
	// Organization-owned copies of items are stripped of their
	// organization linkage; trashed items are skipped.
	GetExport(ctx context.Context, format ExportFormat) (string, error)

	// GetOrganizationExport renders the items and collections of one
	// organization in the given format.
	GetOrganizationExport(ctx context.Context, organizationID string, format ExportFormat) (string, error)
}
