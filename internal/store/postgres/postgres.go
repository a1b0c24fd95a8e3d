// Package postgres implements store.Backend backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/reelcast/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore keeps one row per key in the records table.
type PostgresStore struct {
	db    *sql.DB
	quota int64
}

// Compile-time check that PostgresStore implements store.Backend.
var _ store.Backend = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
// quota <= 0 disables the size limit.
func New(databaseURL string, quota int64) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db, quota: quota}, nil
}

// NewWithDB wraps an already-migrated database handle.
func NewWithDB(db *sql.DB, quota int64) *PostgresStore {
	return &PostgresStore{db: db, quota: quota}
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := queryGet(ctx, s.db, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return data, true, nil
}

// Put upserts key. With a quota the size check and the write share one
// transaction.
func (s *PostgresStore) Put(ctx context.Context, key string, data []byte) error {
	if s.quota <= 0 {
		if err := queryPut(ctx, s.db, key, data); err != nil {
			return fmt.Errorf("put %s: %w", key, err)
		}
		return nil
	}
	return s.runInTransaction(ctx, func(tx executor) error {
		used, err := queryUsedExcept(ctx, tx, key)
		if err != nil {
			return fmt.Errorf("measure usage: %w", err)
		}
		if used+int64(len(data)) > s.quota {
			return store.ErrQuotaExceeded
		}
		if err := queryPut(ctx, tx, key, data); err != nil {
			return fmt.Errorf("put %s: %w", key, err)
		}
		return nil
	})
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if err := queryDelete(ctx, s.db, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := queryKeys(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

// runInTransaction begins a transaction, calls fn, and commits on success or
// rolls back on error.
func (s *PostgresStore) runInTransaction(ctx context.Context, fn func(tx executor) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
