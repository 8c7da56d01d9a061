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

type cipherService struct {
	storage store.StorageService
	crypto  crypto.CryptoService
	users   UserService
	logger  *logger.Logger

	mu        sync.Mutex
	gen       uint64         // bumped on every invalidation
	decrypted []*view.Cipher // memoized views, nil when stale
}

// NewCipherService constructs the [CipherService] over the given storage and
// crypto services.
func NewCipherService(storage store.StorageService, cs crypto.CryptoService, users UserService, log *logger.Logger) CipherService {
	return &cipherService{storage: storage, crypto: cs, users: users, logger: log}
}

func (s *cipherService) storageKey(ctx context.Context) (string, error) {
	userID, err := s.users.GetUserId(ctx)
	if err != nil {
		return "", err
	}
	return cipherKeyPrefix + userID, nil
}

// invalidate drops the memoized views and bumps the generation so an
// in-flight GetAllDecrypted cannot cache a snapshot taken before the
// mutation. Called at the top of every mutation so no caller can observe
// stale plaintext after the mutation returns.
func (s *cipherService) invalidate() {
	s.mu.Lock()
	s.gen++
	s.decrypted = nil
	s.mu.Unlock()
}

func (s *cipherService) Get(ctx context.Context, id string) (*domain.Cipher, error) {
	key, err := s.storageKey(ctx)
	if err != nil {
		return nil, err
	}

	records, err := loadRecords[models.CipherData](ctx, s.storage, key)
	if err != nil {
		return nil, err
	}

	data, ok := records[id]
	if !ok {
		return nil, fmt.Errorf("cipher %s: %w", id, ErrNotFound)
	}
	return domain.NewCipher(data)
}

func (s *cipherService) GetAll(ctx context.Context) ([]*domain.Cipher, error) {
	key, err := s.storageKey(ctx)
	if err != nil {
		return nil, err
	}

	records, err := loadRecords[models.CipherData](ctx, s.storage, key)
	if err != nil {
		return nil, err
	}

	ciphers := make([]*domain.Cipher, 0, len(records))
	for id, data := range records {
		c, err := domain.NewCipher(data)
		if err != nil {
			return nil, fmt.Errorf("cipher %s: %w", id, err)
		}
		ciphers = append(ciphers, c)
	}
	return ciphers, nil
}

func (s *cipherService) GetAllDecrypted(ctx context.Context) ([]*view.Cipher, error) {
	s.mu.Lock()
	if s.decrypted != nil {
		views := s.decrypted
		s.mu.Unlock()
		return views, nil
	}
	gen := s.gen
	s.mu.Unlock()

	ciphers, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	// Decrypt concurrently into pre-sized slots so the result order does
	// not depend on goroutine scheduling.
	views := make([]*view.Cipher, len(ciphers))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range ciphers {
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
		s.logger.Err(err).Str("func", "cipherService.GetAllDecrypted").Msg("failed to decrypt vault items")
		return nil, err
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].Name != views[j].Name {
			return views[i].Name < views[j].Name
		}
		return views[i].ID < views[j].ID
	})

	// Cache only if no mutation landed while decrypting; the snapshot is
	// still returned to the caller either way.
	s.mu.Lock()
	if s.gen == gen {
		s.decrypted = views
	}
	s.mu.Unlock()
	return views, nil
}

func (s *cipherService) Encrypt(ctx context.Context, v *view.Cipher) (models.CipherData, error) {
	c, err := domain.EncryptCipher(ctx, s.crypto, v, nil)
	if err != nil {
		return models.CipherData{}, err
	}
	return c.ToData(), nil
}

func (s *cipherService) Upsert(ctx context.Context, data models.CipherData) error {
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

	records, err := loadRecords[models.CipherData](ctx, s.storage, key)
	if err != nil {
		return err
	}
	records[data.ID] = data
	return saveRecords(ctx, s.storage, key, records)
}

func (s *cipherService) Replace(ctx context.Context, records map[string]models.CipherData) error {
	s.invalidate()

	key, err := s.storageKey(ctx)
	if err != nil {
		return err
	}
	return saveRecords(ctx, s.storage, key, records)
}

func (s *cipherService) SoftDelete(ctx context.Context, id string) error {
	return s.stampDeleted(ctx, id, time.Now().UTC().Format(time.RFC3339))
}

func (s *cipherService) Restore(ctx context.Context, id string) error {
	return s.stampDeleted(ctx, id, "")
}

func (s *cipherService) stampDeleted(ctx context.Context, id, deletedDate string) error {
	s.invalidate()

	key, err := s.storageKey(ctx)
	if err != nil {
		return err
	}

	records, err := loadRecords[models.CipherData](ctx, s.storage, key)
	if err != nil {
		return err
	}

	data, ok := records[id]
	if !ok {
		return fmt.Errorf("cipher %s: %w", id, ErrNotFound)
	}
	data.DeletedDate = deletedDate
	data.RevisionDate = time.Now().UTC().Format(time.RFC3339)
	records[id] = data
	return saveRecords(ctx, s.storage, key, records)
}

func (s *cipherService) Delete(ctx context.Context, id string) error {
	s.invalidate()

	key, err := s.storageKey(ctx)
	if err != nil {
		return err
	}

	records, err := loadRecords[models.CipherData](ctx, s.storage, key)
	if err != nil {
		return err
	}
	if _, ok := records[id]; !ok {
		return nil
	}
	delete(records, id)
	return saveRecords(ctx, s.storage, key, records)
}

func (s *cipherService) Clear(ctx context.Context, userID string) error {
	s.invalidate()
	return s.storage.Remove(ctx, cipherKeyPrefix+userID)
}

func (s *cipherService) ClearCache() {
	s.invalidate()
}
