// Package sqlite persists the folio state record as a row of a SQLite
// key/value table (pure-Go driver, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	_ "modernc.org/sqlite"

	"github.com/aretw0/folio/pkg/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  version    INTEGER NOT NULL DEFAULT 0,
  updated_at TEXT NOT NULL
);`

// Persister implements core.Persister with one row keyed by core.StorageKey.
type Persister struct {
	db     *sql.DB
	dsn    string
	key    string
	logger *slog.Logger

	mu       sync.Mutex
	saves    int
	lastSave *time.Time
}

// Option configures a Persister.
type Option func(*Persister)

// WithLogger sets the persister logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Persister) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithKey overrides the row key. Defaults to core.StorageKey.
func WithKey(key string) Option {
	return func(p *Persister) {
		if key != "" {
			p.key = key
		}
	}
}

// Open opens (creating if needed) the database at dsn, e.g. a file path or
// ":memory:", and ensures the schema exists.
func Open(ctx context.Context, dsn string, opts ...Option) (*Persister, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	p := &Persister{
		db:     db,
		dsn:    dsn,
		key:    core.StorageKey,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	p.logger.Debug("sqlite persister ready", "dsn", dsn)
	return p, nil
}

// Close releases the database.
func (p *Persister) Close() error {
	return p.db.Close()
}

// Save upserts the envelope row.
func (p *Persister) Save(ctx context.Context, env core.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	now := time.Now().UTC()
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, version, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
		  value = excluded.value,
		  version = excluded.version,
		  updated_at = excluded.updated_at
	`, p.key, string(data), env.Version, now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", p.key, err)
	}

	p.mu.Lock()
	p.saves++
	p.lastSave = &now
	p.mu.Unlock()
	return nil
}

// Load reads the envelope row. A missing row is the empty state.
func (p *Persister) Load(ctx context.Context) (core.Envelope, error) {
	var value string
	err := p.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, p.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Envelope{State: core.EmptyState()}, nil
	}
	if err != nil {
		return core.Envelope{}, fmt.Errorf("failed to load %s: %w", p.key, err)
	}

	var env core.Envelope
	if err := json.Unmarshal([]byte(value), &env); err != nil {
		return core.Envelope{}, err
	}
	return env, nil
}

// PersisterState exposes internal state for observability.
type PersisterState struct {
	DSN      string     `json:"dsn"`
	Key      string     `json:"key"`
	Saves    int        `json:"saves"`
	LastSave *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (p *Persister) State() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PersisterState{DSN: p.dsn, Key: p.key, Saves: p.saves, LastSave: p.lastSave}
}

// ComponentType implements introspection.Component.
func (p *Persister) ComponentType() string {
	return "sqlite"
}

var (
	_ core.Persister               = (*Persister)(nil)
	_ introspection.Introspectable = (*Persister)(nil)
	_ introspection.Component      = (*Persister)(nil)
)
