package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	_ "modernc.org/sqlite"
)

// Cache stores successful response bodies by request key
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, body []byte) error
}

// SQLiteCache persists responses in a sqlite database with a TTL
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenSQLiteCache opens (creating if needed) the cache database at dbPath
func OpenSQLiteCache(dbPath string, ttl time.Duration) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	c := &SQLiteCache{db: db, ttl: ttl, now: time.Now}
	if err := c.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

func (c *SQLiteCache) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS http_cache (
  cache_key TEXT PRIMARY KEY,
  body BLOB NOT NULL,
  stored_at INTEGER NOT NULL
);
`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create http_cache table: %w", err)
	}
	return nil
}

// Get returns a fresh cached body
func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, bool) {
	var (
		body     []byte
		storedAt int64
	)
	err := c.db.QueryRowContext(ctx, `SELECT body, stored_at FROM http_cache WHERE cache_key = ?;`, key).
		Scan(&body, &storedAt)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(time.Unix(0, storedAt)) > c.ttl {
		_, _ = c.db.ExecContext(ctx, `DELETE FROM http_cache WHERE cache_key = ?;`, key)
		return nil, false
	}
	return body, true
}

// Put stores body under key
func (c *SQLiteCache) Put(ctx context.Context, key string, body []byte) error {
	const stmt = `
INSERT INTO http_cache (cache_key, body, stored_at)
VALUES (?, ?, ?)
ON CONFLICT(cache_key) DO UPDATE SET
  body = excluded.body,
  stored_at = excluded.stored_at;
`
	if _, err := c.db.ExecContext(ctx, stmt, key, body, c.now().UnixNano()); err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

// Close closes the database
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// MemoryCache is an in-process expirable LRU
type MemoryCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryCache returns a cache holding up to size entries for ttl
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	return m.lru.Get(key)
}

func (m *MemoryCache) Put(_ context.Context, key string, body []byte) error {
	m.lru.Add(key, body)
	return nil
}

// Layered reads through each cache in order and writes to all of them
type Layered []Cache

func (l Layered) Get(ctx context.Context, key string) ([]byte, bool) {
	for i, c := range l {
		if body, ok := c.Get(ctx, key); ok {
			// Warm the faster layers
			for _, front := range l[:i] {
				_ = front.Put(ctx, key, body)
			}
			return body, true
		}
	}
	return nil, false
}

func (l Layered) Put(ctx context.Context, key string, body []byte) error {
	for _, c := range l {
		if err := c.Put(ctx, key, body); err != nil {
			return err
		}
	}
	return nil
}
