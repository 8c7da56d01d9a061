package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vaultkit/go-vault-client/internal/crypto"
	"github.com/vaultkit/go-vault-client/internal/domain"
	"github.com/vaultkit/go-vault-client/internal/logger"
	"github.com/vaultkit/go-vault-client/internal/store"
	"github.com/vaultkit/go-vault-client/internal/utils"
	"github.com/vaultkit/go-vault-client/internal/view"
	"github.com/vaultkit/go-vault-client/models"
)

type folderService struct {
	storage store.StorageService
	crypto  crypto.CryptoService
	users   UserService
	logger  *logger.Logger

	mu        sync.Mutex
	gen       uint64
	decrypted []*view.Folder
}

// NewFolderService constructs the [FolderService].
func NewFolderService(storage store.StorageService, cs crypto.CryptoService, users UserService, log *logger.Logger) FolderService {
	return &folderService{storage: storage, crypto: cs, users: users, logger: log}
}

func (s *folderService) storageKey(ctx context.Context) (string, error) {
	userID, err := s.users.GetUserId(ctx)
	if err != nil {
		return "", err
	}
	return folderKeyPrefix + userID, nil
}

func (s *folderService) invalidate() {
	s.mu.Lock()
	s.gen++
	s.decrypted = nil
	s.mu.Unlock()
}

func (s *folderService) Get(ctx context.Context, id string) (*domain.Folder, error) {
	key, err := s.storageKey(ctx)
	if err != nil {
		return nil, err
	}

	records, err := loadRecords[models.FolderData](ctx, s.storage, key)
	if err != nil {
		return nil, err
	}

	data, ok := records[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}
	return domain.NewFolder(data)
}

func (s *folderService) GetAll(ctx context.Context) ([]*domain.Folder, error) {
	key, err := s.storageKey(ctx)
	if err != nil {
		return nil, err
	}

	records, err := loadRecords[models.FolderData](ctx, s.storage, key)
	if err != nil {
		return nil, err
	}

	folders := make([]*domain.Folder, 0, len(records))
	for id, data := range records {
		f, err := domain.NewFolder(data)
		if err != nil {
			return nil, fmt.Errorf("folder %s: %w", id, err)
		}
		folders = append(folders, f)
	}
	return folders, nil
}

func (s *folderService) GetAllDecrypted(ctx context.Context) ([]*view.Folder, error) {
	s.mu.Lock()
	if s.decrypted != nil {
		views := s.decrypted
		s.mu.Unlock()
		return views, nil
	}
	gen := s.gen
	s.mu.Unlock()

	folders, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*view.Folder, len(folders))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range folders {
		i, f := i, f
		g.Go(func() error {
			v, decErr := f.Decrypt(gctx, s.crypto, nil)
			if decErr != nil {
				return decErr
			}
			views[i] = v
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		s.logger.Err(err).Str("func", "folderService.GetAllDecrypted").Msg("failed to decrypt folders")
		return nil, err
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].Name != views[j].Name {
			return views[i].Name < views[j].Name
		}
		return views[i].ID < views[j].ID
	})

	// Cache only if no mutation landed while decrypting.
	s.mu.Lock()
	if s.gen == gen {
		s.decrypted = views
	}
	s.mu.Unlock()
	return views, nil
}

func (s *folderService) Upsert(ctx context.Context, data models.FolderData) error {
	s.invalidate()

	key, err := s.storageKey(ctx)
	if err != nil {
		return err
	}

	if data.ID == "" {
		data.ID = utils.GenerateUUID()
	}
	if data.RevisionDate == "" {
		data.RevisionDate = time.Now().UTC().Format(time.RFC3339)
	}

	records, err := loadRecords[models.FolderData](ctx, s.storage, key)
	if err != nil {
		return err
	}
	records[data.ID] = data
	return saveRecords(ctx, s.storage, key, records)
}

func (s *folderService) Replace(ctx context.Context, records map[string]models.FolderData) error {
	s.invalidate()

	key, err := s.storageKey(ctx)
	if err != nil {
		return err
	}
	return saveRecords(ctx, s.storage, key, records)
}

func (s *folderService) Delete(ctx context.Context, id string) error {
	s.invalidate()

	key, err := s.storageKey(ctx)
	if err != nil {
		return err
	}

	records, err := loadRecords[models.FolderData](ctx, s.storage, key)
	if err != nil {
		return err
	}
	if _, ok := records[id]; !ok {
		return nil
	}
	delete(records, id)
	return saveRecords(ctx, s.storage, key, records)
}

func (s *folderService) Clear(ctx context.Context, userID string) error {
	s.invalidate()
	return s.storage.Remove(ctx, folderKeyPrefix+userID)
}

func (s *folderService) ClearCache() {
	s.invalidate()
}
