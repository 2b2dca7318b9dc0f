package blobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/schoolkit/planner-api/pkg/config"
)

// PostgresStore keeps blobs in a single documents table, one row per name.
//
//	CREATE TABLE IF NOT EXISTS documents (
//	    name       text PRIMARY KEY,
//	    content    bytea NOT NULL,
//	    updated_at timestamptz NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore opens a connection pool and verifies connectivity.
func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromDB wraps an existing connection (used by tests).
func NewPostgresStoreFromDB(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load fetches the named blob; a missing row is reported as absent.
func (s *PostgresStore) Load(ctx context.Context, name string) ([]byte, bool, error) {
	var content []byte
	err := s.db.QueryRowxContext(ctx, `SELECT content FROM documents WHERE name = $1`, name).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select blob %s: %w", name, err)
	}
	return content, true, nil
}

// Save upserts the named blob, overwriting any previous content.
func (s *PostgresStore) Save(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (name, content, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET content = EXCLUDED.content, updated_at = now()`,
		name, data)
	if err != nil {
		return fmt.Errorf("upsert blob %s: %w", name, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
