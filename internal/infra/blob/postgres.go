package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the snapshot in the snapshots table, one row per
// namespace. Used when several operator machines share a database.
type PostgresStore struct {
	db        *pgxpool.Pool
	namespace string
}

func NewPostgresStore(ctx context.Context, dsn, namespace string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("blob: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("blob: ping: %w", err)
	}
	return &PostgresStore{db: pool, namespace: namespace}, nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	const q = `SELECT doc FROM snapshots WHERE namespace=$1`
	var doc []byte
	err := s.db.QueryRow(ctx, q, s.namespace).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("blob: load: %w", err)
	}
	return doc, nil
}

func (s *PostgresStore) Save(ctx context.Context, doc []byte) error {
	const q = `
INSERT INTO snapshots (namespace, doc, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (namespace)
DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()`
	if _, err := s.db.Exec(ctx, q, s.namespace, doc); err != nil {
		return fmt.Errorf("blob: save: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() { s.db.Close() }
