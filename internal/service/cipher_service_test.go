package service_test

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vaultkit/go-vault-client/internal/crypto"
	"github.com/vaultkit/go-vault-client/internal/logger"
	"github.com/vaultkit/go-vault-client/internal/mock"
	"github.com/vaultkit/go-vault-client/internal/service"
	"github.com/vaultkit/go-vault-client/internal/store"
	"github.com/vaultkit/go-vault-client/internal/view"
	"github.com/vaultkit/go-vault-client/models"
)

const testUserID = "user-1"

func newUnlockedCrypto(t *testing.T) crypto.CryptoService {
	t.Helper()

	key, err := crypto.DeriveMasterKey("master password", "user@example.com")
	require.NoError(t, err)

	cs := crypto.NewCryptoService()
	cs.SetKey(key)
	return cs
}

func newActiveUsers() service.UserService {
	users := service.NewUserService()
	users.SetActiveUser(testUserID)
	return users
}

func loginView(name, username string) *view.Cipher {
	return &view.Cipher{
		Type: models.Login,
		Name: name,
		Login: &view.Login{
			Username: username,
			Password: "p@ss",
		},
	}
}

func TestCipherService_EncryptUpsertDecryptRoundTrip(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)
	svc := service.NewCipherService(store.NewMemoryStorage(), cs, newActiveUsers(), logger.Nop())

	data, err := svc.Encrypt(ctx, loginView("Example", "a@b.com"))
	require.NoError(t, err)
	require.NoError(t, svc.Upsert(ctx, data))

	views, err := svc.GetAllDecrypted(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Example", views[0].Name)
	require.NotNil(t, views[0].Login)
	assert.Equal(t, "a@b.com", views[0].Login.Username)
	assert.Equal(t, "p@ss", views[0].Login.Password)
	assert.NotEmpty(t, views[0].ID, "upsert assigns an id when the item has none")
}

func TestCipherService_GetAllDecrypted_SortedByName(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)
	svc := service.NewCipherService(store.NewMemoryStorage(), cs, newActiveUsers(), logger.Nop())

	for _, name := range []string{"zebra", "alpha", "middle"} {
		data, err := svc.Encrypt(ctx, loginView(name, "u"))
		require.NoError(t, err)
		require.NoError(t, svc.Upsert(ctx, data))
	}

	views, err := svc.GetAllDecrypted(ctx)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "alpha", views[0].Name)
	assert.Equal(t, "middle", views[1].Name)
	assert.Equal(t, "zebra", views[2].Name)
}

func TestCipherService_GetAllDecrypted_Memoized(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	cs := newUnlockedCrypto(t)

	data, err := service.NewCipherService(store.NewMemoryStorage(), cs, newActiveUsers(), logger.Nop()).
		Encrypt(ctx, loginView("Example", "a@b.com"))
	require.NoError(t, err)
	data.ID = "c-1"
	raw, err := json.Marshal(map[string]models.CipherData{data.ID: data})
	require.NoError(t, err)

	storage := mock.NewMockStorageService(ctrl)
	storage.EXPECT().Get(gomock.Any(), "ciphers_"+testUserID).Return(raw, true, nil).Times(1)

	svc := service.NewCipherService(storage, cs, newActiveUsers(), logger.Nop())

	first, err := svc.GetAllDecrypted(ctx)
	require.NoError(t, err)
	second, err := svc.GetAllDecrypted(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second, "second call must come from the cache, not storage")
}

// gatedStorage blocks the caller after one armed Get has read its value,
// leaving a window for another goroutine to mutate storage underneath an
// in-flight decryption pass.
type gatedStorage struct {
	store.StorageService

	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok, err := g.StorageService.Get(ctx, key)
	if g.armed.CompareAndSwap(true, false) {
		close(g.entered)
		<-g.release
	}
	return v, ok, err
}

func TestCipherService_ConcurrentReplaceNotOvercached(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)
	gated := &gatedStorage{
		StorageService: store.NewMemoryStorage(),
		entered:        make(chan struct{}),
		release:        make(chan struct{}),
	}
	svc := service.NewCipherService(gated, cs, newActiveUsers(), logger.Nop())

	data, err := svc.Encrypt(ctx, loginView("old-name", "u"))
	require.NoError(t, err)
	data.ID = "c-1"
	require.NoError(t, svc.Upsert(ctx, data))

	replacement, err := svc.Encrypt(ctx, loginView("new-name", "u"))
	require.NoError(t, err)
	replacement.ID = "c-1"

	gated.armed.Store(true)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.GetAllDecrypted(ctx)
	}()

	// The reader has its pre-replace snapshot; swap the records while its
	// decryption pass is still running.
	<-gated.entered
	require.NoError(t, svc.Replace(ctx, map[string]models.CipherData{replacement.ID: replacement}))
	close(gated.release)
	<-done

	views, err := svc.GetAllDecrypted(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "new-name", views[0].Name, "the pre-replace snapshot must not stick in the cache")
}

func TestCipherService_MutationInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)
	svc := service.NewCipherService(store.NewMemoryStorage(), cs, newActiveUsers(), logger.Nop())

	data, err := svc.Encrypt(ctx, loginView("First", "u1"))
	require.NoError(t, err)
	require.NoError(t, svc.Upsert(ctx, data))

	views, err := svc.GetAllDecrypted(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)

	more, err := svc.Encrypt(ctx, loginView("Second", "u2"))
	require.NoError(t, err)
	require.NoError(t, svc.Upsert(ctx, more))

	views, err = svc.GetAllDecrypted(ctx)
	require.NoError(t, err)
	assert.Len(t, views, 2, "the cache must not survive an upsert")
}

func TestCipherService_SoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)
	svc := service.NewCipherService(store.NewMemoryStorage(), cs, newActiveUsers(), logger.Nop())

	data, err := svc.Encrypt(ctx, loginView("Example", "u"))
	require.NoError(t, err)
	data.ID = "c-1"
	require.NoError(t, svc.Upsert(ctx, data))

	require.NoError(t, svc.SoftDelete(ctx, "c-1"))
	views, err := svc.GetAllDecrypted(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].IsDeleted())

	require.NoError(t, svc.Restore(ctx, "c-1"))
	views, err = svc.GetAllDecrypted(ctx)
	require.NoError(t, err)
	assert.False(t, views[0].IsDeleted())

	assert.ErrorIs(t, svc.SoftDelete(ctx, "missing"), service.ErrNotFound)
}

func TestCipherService_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)
	storage := store.NewMemoryStorage()
	svc := service.NewCipherService(storage, cs, newActiveUsers(), logger.Nop())

	data, err := svc.Encrypt(ctx, loginView("Example", "u"))
	require.NoError(t, err)
	data.ID = "c-1"
	require.NoError(t, svc.Upsert(ctx, data))

	require.NoError(t, svc.Delete(ctx, "c-1"))
	_, err = svc.Get(ctx, "c-1")
	assert.ErrorIs(t, err, service.ErrNotFound)

	// deleting an absent id is a no-op
	require.NoError(t, svc.Delete(ctx, "c-1"))

	require.NoError(t, svc.Upsert(ctx, data))
	require.NoError(t, svc.Clear(ctx, testUserID))
	has, err := storage.Has(ctx, "ciphers_"+testUserID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCipherService_NoActiveUser(t *testing.T) {
	ctx := context.Background()
	svc := service.NewCipherService(store.NewMemoryStorage(), newUnlockedCrypto(t), service.NewUserService(), logger.Nop())

	_, err := svc.GetAll(ctx)
	assert.ErrorIs(t, err, service.ErrNoActiveUser)
}

func TestCipherService_PerUserPartitioning(t *testing.T) {
	ctx := context.Background()
	cs := newUnlockedCrypto(t)
	storage := store.NewMemoryStorage()
	users := service.NewUserService()
	svc := service.NewCipherService(storage, cs, users, logger.Nop())

	users.SetActiveUser("user-a")
	data, err := svc.Encrypt(ctx, loginView("A's item", "u"))
	require.NoError(t, err)
	require.NoError(t, svc.Upsert(ctx, data))

	users.SetActiveUser("user-b")
	svc.ClearCache()
	views, err := svc.GetAllDecrypted(ctx)
	require.NoError(t, err)
	assert.Empty(t, views, "another user's records must not leak across partitions")
}
