package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultPatterns are the substrings indexed at write time. Any key containing
// one of them can be invalidated by that substring without scanning the whole
// key space.
var DefaultPatterns = []string{
	"jobs_",
	"job_",
	"employers_",
	"employer_",
	"recruiters_",
	"/api/candidate/applications",
	"applications",
	"faqs_",
}

// StoreOptions controls construction of a Store.
type StoreOptions struct {
	// DefaultTTL is used by SetDefault. Zero means DefaultTTL (5 minutes).
	DefaultTTL time.Duration

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time

	// Patterns overrides DefaultPatterns when non-nil.
	Patterns []string

	// Recorder receives hit/miss/store/invalidation events. Optional.
	Recorder Recorder
}

// Stats is a point-in-time view of the store used by the admin endpoints.
type Stats struct {
	Entries int            `json:"entries"`
	Live    int            `json:"live"`
	Expired int            `json:"expired"`
	Tags    map[string]int `json:"tags,omitempty"`
}

// Store is a process-local, goroutine-safe TTL store of JSON-serializable
// values keyed by string. It keeps a secondary index from tag to keys so that
// invalidation touches only the keys it removes.
//
// A key is in index[t] iff it is stored and was tagged t when last written.
type Store struct {
	mu sync.Mutex

	items    *SimpleCache[string, any]
	index    map[string]map[string]struct{}
	keyTags  map[string][]string
	patterns []string

	defaultTTL time.Duration
	rec        Recorder
}

// NewStore builds an empty store.
func NewStore(opts StoreOptions) *Store {
	ttl := opts.DefaultTTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	patterns := opts.Patterns
	if patterns == nil {
		patterns = DefaultPatterns
	}
	rec := opts.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}

	s := &Store{
		// The store's own mutex guards both the items and the index.
		items:      NewSimpleCache[string, any](Options{ConcurrencySafe: false, Clock: opts.Clock}),
		index:      make(map[string]map[string]struct{}),
		keyTags:    make(map[string][]string),
		patterns:   append([]string(nil), patterns...),
		defaultTTL: ttl,
		rec:        rec,
	}
	s.items.onExpire = s.unindex
	return s
}

// DefaultTTLValue returns the TTL applied by SetDefault.
func (s *Store) DefaultTTLValue() time.Duration { return s.defaultTTL }

// Set stores value under key, replacing any previous value, TTL and tags.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.SetTagged(key, value, ttl)
}

// SetDefault stores value with the store's default TTL.
func (s *Store) SetDefault(key string, value any) {
	s.SetTagged(key, value, s.defaultTTL)
}

// SetTagged stores value and indexes it under tags plus every registered
// pattern the key contains.
func (s *Store) SetTagged(key string, value any, ttl time.Duration, tags ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unindex(key)
	s.items.Set(key, value, ttl)

	all := make([]string, 0, len(tags)+2)
	seen := make(map[string]struct{}, len(tags)+2)
	add := func(t string) {
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		all = append(all, t)
	}
	for _, t := range tags {
		add(t)
	}
	for _, p := range s.patterns {
		if strings.Contains(key, p) {
			add(p)
		}
	}
	for _, t := range all {
		keys, ok := s.index[t]
		if !ok {
			keys = make(map[string]struct{})
			s.index[t] = keys
		}
		keys[key] = struct{}{}
	}
	if len(all) > 0 {
		s.keyTags[key] = all
	}
	s.rec.Stored()
}

// Get returns the value for key if present and unexpired.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items.Get(key)
	if ok {
		s.rec.Hit()
	} else {
		s.rec.Miss()
	}
	return v, ok
}

// Has reports whether key is present and unexpired. Like Get, it removes an
// expired entry, but it does not count as a hit or a miss.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Has(key)
}

// Delete removes key. It is a no-op when the key is absent.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(key)
}

// Clear drops every entry and returns how many were stored.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.items.items)
	s.items.Clear()
	s.index = make(map[string]map[string]struct{})
	s.keyTags = make(map[string][]string)
	return n
}

// PurgeExpired removes expired entries that were never read again.
func (s *Store) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.PurgeExpired()
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Len()
}

// Keys returns a snapshot of live keys.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Keys()
}

// DeleteTag removes every key indexed under tag.
func (s *Store) DeleteTag(tag string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.index[tag]
	if len(keys) == 0 {
		return 0
	}
	victims := make([]string, 0, len(keys))
	for k := range keys {
		victims = append(victims, k)
	}
	for _, k := range victims {
		s.remove(k)
	}
	return len(victims)
}

// DeleteMatching removes every key containing substr. When substr contains a
// registered pattern, only the keys indexed under that pattern are examined;
// otherwise the whole key space is scanned. Matching nothing is not an error.
func (s *Store) DeleteMatching(substr string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var candidates []string
	if keys, ok := s.narrowest(substr); ok {
		candidates = make([]string, 0, len(keys))
		for k := range keys {
			candidates = append(candidates, k)
		}
	} else {
		candidates = make([]string, 0, len(s.items.items))
		for k := range s.items.items {
			candidates = append(candidates, k)
		}
	}

	removed := 0
	for _, k := range candidates {
		if strings.Contains(k, substr) {
			s.remove(k)
			removed++
		}
	}
	return removed
}

// Stats reports entry counts and the size of each non-empty tag.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, expired := s.items.Counts()
	st := Stats{
		Entries: live + expired,
		Live:    live,
		Expired: expired,
	}
	if len(s.index) > 0 {
		st.Tags = make(map[string]int, len(s.index))
		for t, keys := range s.index {
			st.Tags[t] = len(keys)
		}
	}
	return st
}

func (s *Store) recordInvalidation(scope string, removed int) {
	s.rec.Invalidated(scope, removed)
}

// narrowest returns the smallest index bucket whose pattern is contained in substr.
// Every key containing substr also contains that pattern, so it is in the bucket.
func (s *Store) narrowest(substr string) (map[string]struct{}, bool) {
	var best map[string]struct{}
	found := false
	for _, p := range s.patterns {
		if !strings.Contains(substr, p) {
			continue
		}
		keys := s.index[p]
		if !found || len(keys) < len(best) {
			best = keys
			found = true
		}
	}
	return best, found
}

// remove deletes key from items and index. Caller holds s.mu.
func (s *Store) remove(key string) {
	s.items.Delete(key)
	s.unindex(key)
}

// unindex drops key from every tag bucket. Caller holds s.mu.
func (s *Store) unindex(key string) {
	tags, ok := s.keyTags[key]
	if !ok {
		return
	}
	for _, t := range tags {
		if keys, ok := s.index[t]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(s.index, t)
			}
		}
	}
	delete(s.keyTags, key)
}
