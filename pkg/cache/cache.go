// Package cache provides the in-process TTL cache used for alert
// deduplication between scans.
package cache

import "time"

// Cache is a TTL key-value store. The scanner uses it as the fast dedup path
// in front of persistent storage.
type Cache interface {
	// Get retrieves a value. Returns (value, true) if found.
	Get(key string) (interface{}, bool)

	// Set stores a value with a TTL. Returns false if the entry was dropped.
	Set(key string, value interface{}, ttl time.Duration) bool

	// Delete removes a value.
	Delete(key string)

	// Close releases cache resources.
	Close()
}
