package cache

import (
	"encoding/json"
	"time"
)

// Entry is one cached response body with its expiry.
type Entry struct {
	Key        string          `json:"key"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
	TTLSeconds int             `json:"ttl_seconds"`
}

// NewEntry stamps data with now and an expiry ttlSeconds later.
func NewEntry(key string, data json.RawMessage, ttlSeconds int, now time.Time) *Entry {
	now = now.UTC().Truncate(time.Second)
	return &Entry{
		Key:        key,
		Data:       data,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Duration(ttlSeconds) * time.Second),
		TTLSeconds: ttlSeconds,
	}
}

// ExpiredAt reports whether the entry is past its expiry at t.
func (e *Entry) ExpiredAt(t time.Time) bool {
	return t.After(e.ExpiresAt)
}

// AgeAt returns how old the entry is at t.
func (e *Entry) AgeAt(t time.Time) time.Duration {
	return t.Sub(e.CreatedAt)
}

// Decode unmarshals the cached body into v.
func (e *Entry) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}
