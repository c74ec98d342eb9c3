// Package cache provides a durable, SQLite-backed implementation of
// core.Cache, an alternative to core.MemoryCache for callers that want
// fingerprint results to survive a process restart.
//
// Grounded on storage.SqliteStorage's connection-management shape (open
// with parent-directory creation, create-schema-on-open, sql.DB handles
// pooling) but with one table keyed by fingerprint instead of the
// teacher's conversation/memory/result schema.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/frcscout/picklist/core"
	"github.com/frcscout/picklist/team"
)

// SQLiteCache implements core.Cache over a SQLite database file.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Open opens or creates a SQLite-backed cache at path, creating parent
// directories if needed. A non-positive ttl disables expiry.
func Open(path string, ttl time.Duration) (*SQLiteCache, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("cache: create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open sqlite database: %w", err)
	}

	c := &SQLiteCache{db: db, ttl: ttl, now: time.Now}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: initialize schema: %w", err)
	}
	return c, nil
}

func (c *SQLiteCache) createSchema() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS cache_entries (
			fingerprint TEXT PRIMARY KEY,
			status      TEXT NOT NULL,
			stored_at   INTEGER NOT NULL,
			payload     TEXT NOT NULL
		);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Close closes the underlying database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

func (c *SQLiteCache) Lookup(key string) (team.CacheEntry, bool) {
	var status string
	var storedAtUnix int64
	var payload string

	err := c.db.QueryRow(
		"SELECT status, stored_at, payload FROM cache_entries WHERE fingerprint = ?", key,
	).Scan(&status, &storedAtUnix, &payload)
	if err == sql.ErrNoRows {
		return team.CacheEntry{}, false
	}
	if err != nil {
		return team.CacheEntry{}, false
	}

	storedAt := time.Unix(storedAtUnix, 0)
	if c.expired(storedAt) {
		_, _ = c.db.Exec("DELETE FROM cache_entries WHERE fingerprint = ?", key)
		return team.CacheEntry{}, false
	}

	var entry team.CacheEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return team.CacheEntry{}, false
	}
	entry.StoredAt = storedAt
	return entry, true
}

func (c *SQLiteCache) Reserve(key string) bool {
	now := c.now()

	var status string
	var storedAtUnix int64
	err := c.db.QueryRow(
		"SELECT status, stored_at FROM cache_entries WHERE fingerprint = ?", key,
	).Scan(&status, &storedAtUnix)

	if err == nil && !c.expired(time.Unix(storedAtUnix, 0)) {
		return false
	}

	entry := team.CacheEntry{Status: team.CacheInFlight, Reserved: now, StoredAt: now}
	payload, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		return false
	}

	_, execErr := c.db.Exec(
		"INSERT OR REPLACE INTO cache_entries (fingerprint, status, stored_at, payload) VALUES (?, ?, ?, ?)",
		key, string(team.CacheInFlight), now.Unix(), string(payload),
	)
	return execErr == nil
}

func (c *SQLiteCache) Publish(key string, entry team.CacheEntry) {
	now := c.now()
	entry.StoredAt = now

	payload, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = c.db.Exec(
		"INSERT OR REPLACE INTO cache_entries (fingerprint, status, stored_at, payload) VALUES (?, ?, ?, ?)",
		key, string(entry.Status), now.Unix(), string(payload),
	)
}

func (c *SQLiteCache) Delete(key string) {
	_, _ = c.db.Exec("DELETE FROM cache_entries WHERE fingerprint = ?", key)
}

func (c *SQLiteCache) expired(storedAt time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.now().Sub(storedAt) > c.ttl
}

var _ core.Cache = (*SQLiteCache)(nil)
