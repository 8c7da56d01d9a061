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

type sendService struct {
	storage store.StorageService
	crypto  crypto.CryptoService
	users   UserService
	logger  *logger.Logger

	mu        sync.Mutex
	gen       uint64
	decrypted []*view.Send
}

// NewSendService constructs the [SendService].
func NewSendService(storage store.StorageService, cs crypto.CryptoService, users UserService, log *logger.Logger) SendService {
	return &sendService{storage: storage, crypto: cs, users: users, logger: log}
}

func (s *sendService) storageKey(ctx context.Context) (string, error) {
	userID, err := s.users.GetUserId(ctx)
	if err != nil {
		return "", err
	}
	return sendKeyPrefix + userID, nil
}

func (s *sendService) invalidate() {
	s.mu.Lock()
	s.gen++
	s.decrypted = nil
	s.mu.Unlock()
}

func (s *sendService) Get(ctx context.Context, id string) (*domain.Send, error) {
	key, err := s.storageKey(ctx)
	if err != nil {
		return nil, err
	}

	records, err := loadRecords[models.SendData](ctx, s.storage, key)
	if err != nil {
		return nil, err
	}

	data, ok := records[id]
	if !ok {
		return nil, fmt.Errorf("send %s: %w", id, ErrNotFound)
	}
	return domain.NewSend(data)
}

func (s *sendService) GetAll(ctx context.Context) ([]*domain.Send, error) {
	key, err := s.storageKey(ctx)
	if err != nil {
		return nil, err
	}

	records, err := loadRecords[models.SendData](ctx, s.storage, key)
	if err != nil {
		return nil, err
	}

	sends := make([]*domain.Send, 0, len(records))
	for id, data := range records {
		sd, err := domain.NewSend(data)
		if err != nil {
			return nil, fmt.Errorf("send %s: %w", id, err)
		}
		sends = append(sends, sd)
	}
	return sends, nil
}

func (s *sendService) GetAllDecrypted(ctx context.Context) ([]*view.Send, error) {
	s.mu.Lock()
	if s.decrypted != nil {
		views := s.decrypted
		s.mu.Unlock()
		return views, nil
	}
	gen := s.gen
	s.mu.Unlock()

	sends, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*view.Send, len(sends))
	g, gctx := errgroup.WithContext(ctx)
	for i, sd := range sends {
		i, sd := i, sd
		g.Go(func() error {
			v, decErr := sd.Decrypt(gctx, s.crypto)
			if decErr != nil {
				return decErr
			}
			views[i] = v
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		s.logger.Err(err).Str("func", "sendService.GetAllDecrypted").Msg("failed to decrypt sends")
		return nil, err
	}

	// A send's display name lives on its wrapped cipher.
	sort.Slice(views, func(i, j int) bool {
		ni, nj := "", ""
		if views[i].Cipher != nil {
			ni = views[i].Cipher.Name
		}
		if views[j].Cipher != nil {
			nj = views[j].Cipher.Name
		}
		if ni != nj {
			return ni < nj
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

func (s *sendService) Encrypt(ctx context.Context, v *view.Send, password string) (models.SendData, error) {
	sd, err := domain.EncryptSend(ctx, s.crypto, v, password, nil)
	if err != nil {
		return models.SendData{}, err
	}
	return sd.ToData(), nil
}

func (s *sendService) Upsert(ctx context.Context, data models.SendData) error {
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

	records, err := loadRecords[models.SendData](ctx, s.storage, key)
	if err != nil {
		return err
	}
	records[data.ID] = data
	return saveRecords(ctx, s.storage, key, records)
}

func (s *sendService) Replace(ctx context.Context, records map[string]models.SendData) error {
	s.invalidate()

	key, err := s.storageKey(ctx)
	if err != nil {
		return err
	}
	return saveRecords(ctx, s.storage, key, records)
}

func (s *sendService) Delete(ctx context.Context, id string) error {
	s.invalidate()

	key, err := s.storageKey(ctx)
	if err != nil {
		return err
	}

	records, err := loadRecords[models.SendData](ctx, s.storage, key)
	if err != nil {
		return err
	}
	if _, ok := records[id]; !ok {
		return nil
	}
	delete(records, id)
	return saveRecords(ctx, s.storage, key, records)
}

func (s *sendService) Clear(ctx context.Context, userID string) error {
	s.invalidate()
	return s.storage.Remove(ctx, sendKeyPrefix+userID)
}

func (s *sendService) ClearCache() {
	s.invalidate()
}
