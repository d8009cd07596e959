/*
Package sqlite provides a SQLite-backed Persister.

PURPOSE:
  The ledger persists two whole-collection records (customers, transactions)
  through a key-value interface. This implementation keeps them in a single
  kv table, which preserves the original storage layout - two independent
  serialized records - while giving the data a durable, crash-safe home.

WAL MODE:
  The database is opened with WAL (Write-Ahead Logging): readers don't block
  the single writer and crash recovery is clean.

CONCURRENCY:
  One writer at a time is all the ledger ever produces; the mutex is there so
  the store can be shared with an HTTP surface without ceremony.

USAGE:
  p, err := sqlite.New("./data/kirana.db")
  if err != nil {
      log.Fatal(err)
  }
  defer p.Close()
  st := ledger.NewStore(ctx, p)

SEE ALSO:
  - ledger/store.go: Persister contract and record keys
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Persister implements ledger.Persister on a SQLite database.
type Persister struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens (creating if needed) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Persister, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	p := &Persister{db: db}
	if err := p.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return p, nil
}

// Close closes the database connection.
func (p *Persister) Close() error {
	return p.db.Close()
}

func (p *Persister) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	);`
	_, err := p.db.Exec(schema)
	return err
}

// Get returns the record stored under key, or (nil, nil) when absent.
func (p *Persister) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", key, err)
	}
	return value, nil
}

// Put replaces the record stored under key.
func (p *Persister) Put(ctx context.Context, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := p.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("store %q: %w", key, err)
	}
	return nil
}
