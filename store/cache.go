package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Keys of the local cache.
const (
	KeyTasks               = "tasks"
	KeyAutoSave            = "autoSave"
	KeyAutoReload          = "autoReload"
	KeyAutoReloadMs        = "autoReloadMs"
	KeyReopen              = "reopen"
	KeyLastFileName        = "lastFileName"
	KeyLastFilePath        = "lastFilePath"
	KeyLastKnownModifiedMs = "lastKnownModifiedMs"
	KeyPendingWrite        = "pendingWrite"
	KeyTheme               = "theme"
	KeyFilterPresets       = "filterPresets"
	KeyActiveFilters       = "activeFilters"
)

// Cache is the synchronous local key-value store the task collection and
// user preferences are persisted to.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	Close() error
}

// SQLiteCache implements Cache on a single SQLite table.
type SQLiteCache struct {
	db *sql.DB
}

// OpenSQLiteCache opens (creating if needed) the cache database at path.
// Pass ":memory:" for a throwaway database.
func OpenSQLiteCache(path string) (*SQLiteCache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	// One connection: an in-memory database is private to its connection, and
	// the CLI never needs more.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 2000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure cache database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

func (c *SQLiteCache) Get(key string) (string, bool, error) {
	var value string
	err := c.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cache key %s: %w", key, err)
	}
	return value, true, nil
}

func (c *SQLiteCache) Set(key, value string) error {
	_, err := c.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write cache key %s: %w", key, err)
	}
	return nil
}

func (c *SQLiteCache) Delete(key string) error {
	if _, err := c.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete cache key %s: %w", key, err)
	}
	return nil
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// MemoryCache is a process-local Cache. The CLI falls back to it when the
// SQLite database cannot be opened, which keeps the session usable in memory.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]string)}
}

func (c *MemoryCache) Get(key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *MemoryCache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *MemoryCache) Close() error { return nil }
