// Package cache provides translation cache backends.
//
// All backends store JSON-serialized values keyed by request fingerprint.
// SQLiteCache is the durable, size-bounded default; InMemoryCache backs
// tests and single-run sessions; RedisCache shares a cache between hosts.
package cache

import "encoding/json"

// noValue is a reserved sentinel stored in place of a nil value, which
// generic JSON serialization cannot round-trip distinguishably.
const noValue = "\x00polyglot:novalue"

// Stats describes the state of a cache backend.
type Stats struct {
	Entries   int   `json:"entries"`
	TotalSize int64 `json:"total_size"`
	MaxSize   int64 `json:"max_size"`
	Enabled   bool  `json:"enabled"`
}

// encode serializes a value for storage. nil becomes the no-value sentinel.
func encode(value any) (string, error) {
	if value == nil {
		return noValue, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decode validates a stored form and maps the sentinel back to nil. The
// second return is false when the stored form is unreadable and the entry
// should be dropped.
func decode(data string) (json.RawMessage, bool) {
	if data == noValue {
		return nil, true
	}
	if !json.Valid([]byte(data)) {
		return nil, false
	}
	return json.RawMessage(data), true
}
