package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vaultkit/go-vault-client/internal/store"
)

// Storage key prefixes. Each service keeps one JSON map per user under
// <prefix><userId>.
const (
	cipherKeyPrefix     = "ciphers_"
	folderKeyPrefix     = "folders_"
	collectionKeyPrefix = "collections_"
	sendKeyPrefix       = "sends_"
)

// loadRecords reads the id-to-record map stored under key. An absent key
// yields an empty map, not an error.
func loadRecords[T any](ctx context.Context, storage store.StorageService, key string) (map[string]T, error) {
	raw, ok, err := storage.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load records %q: %w", key, err)
	}

	records := make(map[string]T)
	if !ok {
		return records, nil
	}
	if err = json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode records %q: %w", key, err)
	}
	return records, nil
}

// saveRecords writes the id-to-record map under key, replacing whatever was
// there.
func saveRecords[T any](ctx context.Context, storage store.StorageService, key string, records map[string]T) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records %q: %w", key, err)
	}
	if err = storage.Save(ctx, key, raw); err != nil {
		return fmt.Errorf("save records %q: %w", key, err)
	}
	return nil
}
