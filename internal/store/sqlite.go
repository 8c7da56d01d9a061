package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vaultkit/go-vault-client/internal/logger"
	"github.com/vaultkit/go-vault-client/migrations"
)

// sqliteStorage is the sqlite-backed [StorageService]. All values live in a
// single kv_entries table managed by the embedded goose migrations; sqlite
// serializes writes per connection, which supplies the last-write-wins
// guarantee the contract requires.
type sqliteStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewSQLiteStorage opens (creating if necessary) the local database at dsn,
// runs pending migrations, and returns the [StorageService] over it.
func NewSQLiteStorage(ctx context.Context, dsn string, log *logger.Logger) (StorageService, error) {
	if err := createLocalDBFileIfNotExists(dsn); err != nil {
		log.Err(err).Str("func", "NewSQLiteStorage").Msg("error creating database file")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Err(err).Str("func", "NewSQLiteStorage").Msg("error opening database")
		return nil, fmt.Errorf("open local database: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewSQLiteStorage").Msg("error connecting database (ping)")
		return nil, fmt.Errorf("ping local database: %w", err)
	}

	if err = migrations.Migrate(db); err != nil {
		log.Err(err).Str("func", "NewSQLiteStorage").Msg("error migrating database")
		return nil, err
	}
	log.Debug().Str("func", "NewSQLiteStorage").Msg("connected to local database")

	return NewSQLiteStorageFromDB(db, log), nil
}

// NewSQLiteStorageFromDB wraps an already-open database handle. Used by
// tests that inject a stub connection.
func NewSQLiteStorageFromDB(db *sql.DB, log *logger.Logger) StorageService {
	return &sqliteStorage{db: db, logger: log}
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if dbFile == ":memory:" {
		return nil
	}
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, createErr := os.Create(dbFile)
		if createErr != nil {
			return fmt.Errorf("error creating DB file: %w", createErr)
		}
		f.Close()
	}
	return nil
}

func (s *sqliteStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := sq.Select("value").
		From("kv_entries").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteStorage.Get").Str("key", key).Msg("failed to query kv entry")
		return nil, false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return value, true, nil
}

func (s *sqliteStorage) Save(ctx context.Context, key string, value []byte) error {
	query, args, err := sq.Insert("kv_entries").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "sqliteStorage.Save").Str("key", key).Msg("failed to upsert kv entry")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func (s *sqliteStorage) Remove(ctx context.Context, key string) error {
	query, args, err := sq.Delete("kv_entries").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "sqliteStorage.Remove").Str("key", key).Msg("failed to delete kv entry")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func (s *sqliteStorage) Has(ctx context.Context, key string) (bool, error) {
	query, args, err := sq.Select("1").
		From("kv_entries").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return true, nil
}
