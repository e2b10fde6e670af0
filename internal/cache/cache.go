package cache

import "time"

// DefaultTTL is applied by SetDefault when a route does not choose its own TTL.
const DefaultTTL = 5 * time.Minute

// Cache defines a minimal key-value cache API with optional TTL per entry.
// Implementations may or may not be goroutine-safe depending on configuration.
type Cache[K comparable, V any] interface {
	// Get returns the value and whether it was present and not expired.
	// An expired entry is removed by the read.
	Get(key K) (V, bool)

	// Set stores the value with an optional TTL. If ttl <= 0, the entry does not expire.
	Set(key K, value V, ttl time.Duration)

	// Delete removes a key if present.
	Delete(key K)

	// Has reports whether a key is present and not expired.
	Has(key K) bool

	// Len returns the number of non-expired items currently stored.
	Len() int

	// Clear removes all entries.
	Clear()

	// PurgeExpired scans and removes expired entries, returning how many were removed.
	PurgeExpired() int
}

// Recorder receives cache events. The metrics package provides the
// Prometheus-backed implementation.
type Recorder interface {
	Hit()
	Miss()
	Stored()
	Invalidated(scope string, removed int)
}

type nopRecorder struct{}

func (nopRecorder) Hit()                     {}
func (nopRecorder) Miss()                    {}
func (nopRecorder) Stored()                  {}
func (nopRecorder) Invalidated(string, int) {}
