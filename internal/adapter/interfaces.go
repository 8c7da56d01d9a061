// Package adapter implements the HTTP client for the vault server. The core
// uses it read-only: organization exports fetch collections and items that
// are not in the local store, and the sync worker pulls full vault
// snapshots. All payloads stay encrypted in transit; the adapter never sees
// a key.
package adapter

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

import (
	"context"

	"github.com/vaultkit/go-vault-client/models"
)

// ServerAdapter is the contract for talking to the vault server.
type ServerAdapter interface {
	// SetToken installs the bearer token used on subsequent requests.
	SetToken(token string)

	// GetCollections fetches the collections of one organization.
	GetCollections(ctx context.Context, organizationID string) ([]models.CollectionData, error)

	// GetOrganizationCiphers fetches the still-encrypted items of one
	// organization.
	GetOrganizationCiphers(ctx context.Context, organizationID string) ([]models.CipherData, error)

	// Sync fetches the full encrypted vault snapshot of the
	// authenticated user.
	Sync(ctx context.Context) (models.SyncResponse, error)
}
