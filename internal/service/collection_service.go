package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vaultkit/go-vault-client/internal/crypto"
	"github.com/vaultkit/go-vault-client/internal/domain"
	"github.com/vaultkit/go-vault-client/internal/logger"
	"github.com/vaultkit/go-vault-client/internal/store"
	"github.com/vaultkit/go-vault-client/internal/utils"
	"github.com/vaultkit/go-vault-client/internal/view"
	"github.com/vaultkit/go-vault-client/models"
)

type collectionService struct {
	storage store.StorageService
	crypto  crypto.CryptoService
	users   UserService
	logger  *logger.Logger

	mu        sync.Mutex
	gen       uint64
	decrypted []*view.Collection
}

// NewCollectionService constructs the [CollectionService]. Collection names
// are encrypted under organization keys, so the crypto service must have the
// relevant org keys registered before GetAllDecrypted is called.
func NewCollectionService(storage store.StorageService, cs crypto.CryptoService, users UserService, log *logger.Logger) CollectionService {
	return &collectionService{storage: storage, crypto: cs, users: users, logger: log}
}

func (s *collectionService) storageKey(ctx context.Context) (string, error) {
	userID, err := s.users.GetUserId(ctx)
	if err != nil {
		return "", err
	}
	return collectionKeyPrefix + userID, nil
}

func (s *collectionService) invalidate() {
	s.mu.Lock()
	s.gen++
	s.decrypted = nil
	s.mu.Unlock()
}

func (s *collectionService) Get(ctx context.Context, id string) (*domain.Collection, error) {
	key, err := s.storageKey(ctx)
	if err != nil {
		return nil, err
	}

	records, err := loadRecords[models.CollectionData](ctx, s.storage, key)
	if err != nil {
		return nil, err
	}

	data, ok := records[id]
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", id, ErrNotFound)
	}
	return domain.NewCollection(data)
}

func (s *collectionService) GetAll(ctx context.Context) ([]*domain.Collection, error) {
	key, err := s.storageKey(ctx)
	if err != nil {
		return nil, err
	}

	records, err := loadRecords[models.CollectionData](ctx, s.storage, key)
	if err != nil {
		return nil, err
	}

	collections := make([]*domain.Collection, 0, len(records))
	for id, data := range records {
		c, err := domain.NewCollection(data)
		if err != nil {
			return nil, fmt.Errorf("collection %s: %w", id, err)
		}
		collections = append(collections, c)
	}
	return collections, nil
}

func (s *collectionService) GetAllDecrypted(ctx context.Context) ([]*view.Collection, error) {
	s.mu.Lock()
	if s.decrypted != nil {
		views := s.decrypted
		s.mu.Unlock()
		return views, nil
	}
	gen := s.gen
	s.mu.Unlock()

	collections, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*view.Collection, len(collections))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range collections {
		i, c := i, c
		g.Go(func() error {
			v, decErr := c.Decrypt(gctx, s.crypto, nil)
			if decErr != nil {
				return decErr
			}
			views[i] = v
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		s.logger.Err(err).Str("func", "collectionService.GetAllDecrypted").Msg("failed to decrypt collections")
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

func (s *collectionService) Upsert(ctx context.Context, data models.CollectionData) error {
	s.invalidate()

	key, err := s.storageKey(ctx)
	if err != nil {
		return err
	}

	if data.ID == "" {
		data.ID = utils.GenerateUUID()
	}

	records, err := loadRecords[models.CollectionData](ctx, s.storage, key)
	if err != nil {
		return err
	}
	records[data.ID] = data
	return saveRecords(ctx, s.storage, key, records)
}

func (s *collectionService) Replace(ctx context.Context, records map[string]models.CollectionData) error {
	s.invalidate()

	key, err := s.storageKey(ctx)
	if err != nil {
		return err
	}
	return saveRecords(ctx, s.storage, key, records)
}

func (s *collectionService) Delete(ctx context.Context, id string) error {
	s.invalidate()

	key, err := s.storageKey(ctx)
	if err != nil {
		return err
	}

	records, err := loadRecords[models.CollectionData](ctx, s.storage, key)
	if err != nil {
		return err
	}
	if _, ok := records[id]; !ok {
		return nil
	}
	delete(records, id)
	return saveRecords(ctx, s.storage, key, records)
}

func (s *collectionService) Clear(ctx context.Context, userID string) error {
	s.invalidate()
	return s.storage.Remove(ctx, collectionKeyPrefix+userID)
}

func (s *collectionService) ClearCache() {
	s.invalidate()
}
