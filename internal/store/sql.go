package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	sqliteSchema = `CREATE TABLE IF NOT EXISTS economy_state (
	state_key TEXT PRIMARY KEY,
	doc BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`
	sqlSelectState = `SELECT doc FROM economy_state WHERE state_key = ?`
	sqlUpsertState = `INSERT INTO economy_state (state_key, doc, updated_at) VALUES (?, ?, ?)
ON CONFLICT(state_key) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`
)

// SQL stores blobs in a database/sql handle using SQLite syntax.
type SQL struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQL wraps an open handle. The schema must already exist.
func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db, now: time.Now}
}

// OpenSQLite opens path in WAL mode and creates the schema.
func OpenSQLite(path string) (*SQL, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return NewSQL(db), nil
}

func (s *SQL) Load(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, sqlSelectState, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return blob, nil
}

func (s *SQL) Save(ctx context.Context, key string, blob []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, sqlUpsertState, key, blob, s.now().UTC().UnixMilli()); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (s *SQL) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *SQL) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
