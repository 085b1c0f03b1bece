package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DefaultMaxSize is the default size bound for the on-disk cache.
const DefaultMaxSize int64 = 100 << 20 // 100 MiB

// SQLiteCache is a durable, size-bounded translation cache backed by a local
// SQLite database. Entries expire after a TTL and the oldest entries are
// evicted first when an insert would exceed the size bound. A Get does not
// refresh an entry's eviction position: recency is insert/update time only,
// an approximation of LRU kept deliberately cheap.
//
// Writes are serialized by SQLite's own locking; the cache offers no
// cross-process coordination beyond that.
type SQLiteCache struct {
	db      *sql.DB
	maxSize int64
	ttl     time.Duration
	enabled atomic.Bool
}

// SQLiteConfig holds configuration for the SQLite cache.
type SQLiteConfig struct {
	Path    string        // Database file path
	MaxSize int64         // Size bound in bytes (default DefaultMaxSize)
	TTL     time.Duration // Entry lifetime (0 = entries never expire)
}

// NewSQLiteCache opens (creating if necessary) the cache database.
func NewSQLiteCache(cfg SQLiteConfig) (*SQLiteCache, error) {
	if cfg.Path == "" {
		return nil, errors.New("cache: database path required")
	}

	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	db, err := sql.Open("sqlite3", "file:"+cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cache: opening database: %w", err)
	}
	// A single connection keeps writers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	c := &SQLiteCache{
		db:      db,
		maxSize: maxSize,
		ttl:     cfg.TTL,
	}
	c.enabled.Store(true)

	if err := c.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return c, nil
}

// migrate creates the cache table if it doesn't exist.
func (c *SQLiteCache) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS translations (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			size INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_translations_created_at ON translations(created_at);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("cache: migrating schema: %w", err)
	}
	return nil
}

// Get retrieves a value from the cache. Expired entries are swept first;
// an entry whose stored form is unreadable is removed and reported absent.
func (c *SQLiteCache) Get(key string) (json.RawMessage, bool) {
	if !c.enabled.Load() {
		return nil, false
	}

	c.sweep()

	var value string
	err := c.db.QueryRow("SELECT value FROM translations WHERE key = ?", key).Scan(&value)
	if err != nil {
		return nil, false
	}

	raw, ok := decode(value)
	if !ok {
		_, _ = c.db.Exec("DELETE FROM translations WHERE key = ?", key)
		return nil, false
	}

	return raw, true
}

// Set stores a JSON-serializable value under key, evicting the oldest
// entries first if the write would push the total past the size bound.
// Immediately after Set the total stored size is within the bound as long
// as the entry itself fits.
func (c *SQLiteCache) Set(key string, value any) error {
	if !c.enabled.Load() {
		return nil
	}

	data, err := encode(value)
	if err != nil {
		return fmt.Errorf("cache: serializing value: %w", err)
	}
	size := int64(len(data))

	c.sweep()

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("cache: starting write: %w", err)
	}
	defer tx.Rollback()

	var replaced int64
	err = tx.QueryRow("SELECT size FROM translations WHERE key = ?", key).Scan(&replaced)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var total int64
	if err := tx.QueryRow("SELECT COALESCE(SUM(size), 0) FROM translations").Scan(&total); err != nil {
		return err
	}

	if total+size-replaced > c.maxSize {
		if err := c.evict(tx, total+size-c.maxSize+1); err != nil {
			return err
		}
	}

	_, err = tx.Exec(`
		INSERT INTO translations (key, value, created_at, size)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			created_at = excluded.created_at,
			size = excluded.size`,
		key, data, time.Now().UnixNano(), size,
	)
	if err != nil {
		return fmt.Errorf("cache: writing entry: %w", err)
	}

	return tx.Commit()
}

// evict deletes entries oldest-first until at least need bytes are freed.
func (c *SQLiteCache) evict(tx *sql.Tx, need int64) error {
	rows, err := tx.Query("SELECT key, size FROM translations ORDER BY created_at ASC")
	if err != nil {
		return err
	}
	defer rows.Close()

	var victims []any
	var freed int64
	for freed < need && rows.Next() {
		var key string
		var size int64
		if err := rows.Scan(&key, &size); err != nil {
			return err
		}
		victims = append(victims, key)
		freed += size
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if err := rows.Close(); err != nil {
		return err
	}

	if len(victims) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(victims))
	placeholders = placeholders[:len(placeholders)-1]
	_, err = tx.Exec("DELETE FROM translations WHERE key IN ("+placeholders+")", victims...)
	return err
}

// sweep deletes all expired entries. A TTL of zero disables expiry.
func (c *SQLiteCache) sweep() {
	if c.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-c.ttl).UnixNano()
	_, _ = c.db.Exec("DELETE FROM translations WHERE created_at <= ?", cutoff)
}

// Stats reports entry count, stored bytes and configuration.
func (c *SQLiteCache) Stats() (Stats, error) {
	stats := Stats{
		MaxSize: c.maxSize,
		Enabled: c.enabled.Load(),
	}

	err := c.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(size), 0) FROM translations").
		Scan(&stats.Entries, &stats.TotalSize)
	if err != nil {
		return Stats{}, fmt.Errorf("cache: reading stats: %w", err)
	}

	return stats, nil
}

// Clear removes all entries.
func (c *SQLiteCache) Clear() error {
	_, err := c.db.Exec("DELETE FROM translations")
	return err
}

// Enable turns the cache back on after a Disable.
func (c *SQLiteCache) Enable() {
	c.enabled.Store(true)
}

// Disable makes Get and Set no-ops without touching stored data.
func (c *SQLiteCache) Disable() {
	c.enabled.Store(false)
}

// Close releases the database handle.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
