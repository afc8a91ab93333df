// Package rendercache is the sqlite-backed PNG cache behind the card
// server. Entries are keyed by the canonical share query string, so the
// same portrait state always maps to the same row.
package rendercache

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// ErrMiss reports a key with no cached render.
var ErrMiss = errors.New("rendercache: miss")

// Cache stores rendered card PNGs keyed by canonical share query.
type Cache struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens a cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS renders (
			key TEXT PRIMARY KEY,
			png BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Get returns the cached PNG for a key, or ErrMiss.
func (c *Cache) Get(key string) ([]byte, error) {
	var png []byte
	err := c.db.QueryRow("SELECT png FROM renders WHERE key = ?", key).Scan(&png)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return png, nil
}

// Put stores a PNG under a key, replacing any existing entry.
func (c *Cache) Put(key string, png []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO renders (key, png, created_at) VALUES (?, ?, ?)",
		key, png, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Len reports the number of cached renders.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM renders").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
