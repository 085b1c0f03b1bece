package cache

// Test hooks that need to reach the storage layer directly.

// CorruptEntry overwrites an entry's stored form with invalid JSON,
// simulating on-disk corruption.
func (c *SQLiteCache) CorruptEntry(key string) error {
	_, err := c.db.Exec("UPDATE translations SET value = ? WHERE key = ?", "{not json", key)
	return err
}

// BackdateEntry rewinds an entry's timestamp by the given nanoseconds.
func (c *SQLiteCache) BackdateEntry(key string, nanos int64) error {
	_, err := c.db.Exec("UPDATE translations SET created_at = created_at - ? WHERE key = ?", nanos, key)
	return err
}
