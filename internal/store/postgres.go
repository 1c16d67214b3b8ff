package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgSchema = `CREATE TABLE IF NOT EXISTS economy_state (
	state_key TEXT PRIMARY KEY,
	doc JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	pgSelectState = `SELECT doc FROM economy_state WHERE state_key = $1`
	pgUpsertState = `INSERT INTO economy_state (state_key, doc, updated_at) VALUES ($1, $2, now())
ON CONFLICT (state_key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`
)

// Postgres stores blobs in a JSONB column.
type Postgres struct {
	Pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	p := &Postgres{Pool: pool}
	if err := p.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.Pool.Exec(ctx, pgSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (p *Postgres) Load(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := p.Pool.QueryRow(ctx, pgSelectState, key).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return blob, nil
}

func (p *Postgres) Save(ctx context.Context, key string, blob []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	if _, err := p.Pool.Exec(ctx, pgUpsertState, key, blob); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.Pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	if p.Pool != nil {
		p.Pool.Close()
	}
	return nil
}
