package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/vaultkit/go-vault-client/internal/adapter"
	"github.com/vaultkit/go-vault-client/internal/logger"
	"github.com/vaultkit/go-vault-client/internal/service"
	"github.com/vaultkit/go-vault-client/models"
)

// SyncWorker periodically pulls the server state and replaces the local
// records with it. The server copy wins wholesale; the services drop their
// decrypted caches on Replace.
type SyncWorker struct {
	adapter     adapter.ServerAdapter
	ciphers     service.CipherService
	folders     service.FolderService
	collections service.CollectionService
	sends       service.SendService
	interval    time.Duration
	logger      *logger.Logger
}

// NewSyncWorker constructs the worker. A non-positive interval falls back
// to five minutes.
func NewSyncWorker(
	srv adapter.ServerAdapter,
	ciphers service.CipherService,
	folders service.FolderService,
	collections service.CollectionService,
	sends service.SendService,
	interval time.Duration,
	log *logger.Logger,
) *SyncWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SyncWorker{
		adapter:     srv,
		ciphers:     ciphers,
		folders:     folders,
		collections: collections,
		sends:       sends,
		interval:    interval,
		logger:      log,
	}
}

// Run refreshes once immediately, then on every tick until ctx is
// cancelled. A failed refresh is logged and retried on the next tick.
func (w *SyncWorker) Run(ctx context.Context) {
	if err := w.Refresh(ctx); err != nil {
		w.logger.Err(err).Str("func", "SyncWorker.Run").Msg("initial sync failed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Refresh(ctx); err != nil {
				w.logger.Err(err).Str("func", "SyncWorker.Run").Msg("sync failed")
			}
		}
	}
}

// Refresh fetches the full server state and replaces the local records.
func (w *SyncWorker) Refresh(ctx context.Context) error {
	sr, err := w.adapter.Sync(ctx)
	if err != nil {
		return fmt.Errorf("fetch sync response: %w", err)
	}

	ciphers := make(map[string]models.CipherData, len(sr.Ciphers))
	for _, data := range sr.Ciphers {
		ciphers[data.ID] = data
	}
	if err = w.ciphers.Replace(ctx, ciphers); err != nil {
		return fmt.Errorf("replace ciphers: %w", err)
	}

	folders := make(map[string]models.FolderData, len(sr.Folders))
	for _, data := range sr.Folders {
		folders[data.ID] = data
	}
	if err = w.folders.Replace(ctx, folders); err != nil {
		return fmt.Errorf("replace folders: %w", err)
	}

	collections := make(map[string]models.CollectionData, len(sr.Collections))
	for _, data := range sr.Collections {
		collections[data.ID] = data
	}
	if err = w.collections.Replace(ctx, collections); err != nil {
		return fmt.Errorf("replace collections: %w", err)
	}

	sends := make(map[string]models.SendData, len(sr.Sends))
	for _, data := range sr.Sends {
		sends[data.ID] = data
	}
	if err = w.sends.Replace(ctx, sends); err != nil {
		return fmt.Errorf("replace sends: %w", err)
	}

	w.logger.Info().
		Str("func", "SyncWorker.Refresh").
		Int("ciphers", len(ciphers)).
		Int("folders", len(folders)).
		Int("collections", len(collections)).
		Int("sends", len(sends)).
		Msg("local records replaced from server")
	return nil
}
