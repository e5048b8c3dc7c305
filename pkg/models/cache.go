// Package models: cache entry record, generalized from the teacher's
// pkg/models/cache.go Entry type into the fingerprint-keyed shape spec §3
// requires (linter/format/content_hash/options_hash instead of an opaque
// string key), keeping the teacher's expiry-centric design.
package models

import "time"

// CacheStatus is the terminal status recorded for a finished run (§3).
type CacheStatus string

const (
	CacheSuccess CacheStatus = "success"
	CacheFailure CacheStatus = "error"
	CacheTimeout CacheStatus = "timeout"
)

// CacheEntry is the durable + hot-tier record owned exclusively by the
// cache service.
type CacheEntry struct {
	ID           string
	Linter       string
	Format       string
	ContentHash  string
	OptionsHash  string
	Result       []byte // serialized LinterResult
	Status       CacheStatus
	ErrorMessage string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Valid reports whether the entry has not yet expired (§3 invariant).
func (e *CacheEntry) Valid(now time.Time) bool {
	return e != nil && now.Before(e.ExpiresAt)
}

// Key is the logical cache key tuple (§3).
type Key struct {
	Linter      string
	Format      string
	ContentHash string
	OptionsHash string
}

// HotKey returns the string used to index the in-memory hot tier.
func (k Key) HotKey() string {
	return k.ContentHash + "|" + k.Linter + "|" + k.Format + "|" + k.OptionsHash
}
