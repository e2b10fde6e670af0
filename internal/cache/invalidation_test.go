package cache

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type capturedMessage struct {
	topic string
	event Event
}

type captureNotifier struct {
	mu   sync.Mutex
	msgs []capturedMessage
}

func (n *captureNotifier) Broadcast(topic string, message []byte) {
	var evt Event
	_ = json.Unmarshal(message, &evt)
	n.mu.Lock()
	n.msgs = append(n.msgs, capturedMessage{topic: topic, event: evt})
	n.mu.Unlock()
}

func newTestInvalidator(t *testing.T) (*Invalidator, *Store, *captureNotifier, *countingRecorder) {
	t.Helper()
	rec := newCountingRecorder()
	store := NewStore(StoreOptions{Recorder: rec})
	notifier := &captureNotifier{}
	return NewInvalidator(store, notifier, zerolog.Nop()), store, notifier, rec
}

func TestClearJobCaches_LeavesUnrelatedKeys(t *testing.T) {
	inv, store, _, _ := newTestInvalidator(t)

	store.Set("job_123", map[string]any{"title": "A"}, time.Minute)
	store.Set("faqs_all", []any{"q1", "q2"}, time.Minute)

	inv.ClearJobCaches()

	_, ok := store.Get("job_123")
	require.False(t, ok)
	_, ok = store.Get("faqs_all")
	require.True(t, ok)
}

func TestClearJobCaches_RemovesEveryJobPattern(t *testing.T) {
	inv, store, notifier, rec := newTestInvalidator(t)

	stale := []string{
		`jobs_{"location":"Pune","page":1}`,
		"job_9",
		`employers_{"page":1}`,
		"recruiters_all",
		"/api/candidate/applications#u-1",
		"placement_applications_2025",
	}
	for _, k := range stale {
		store.Set(k, k, time.Minute)
	}
	store.Set("faqs_all", "keep", time.Minute)
	store.Set("employer_e-1", "keep", time.Minute)

	require.Equal(t, len(stale), inv.ClearJobCaches())
	for _, k := range stale {
		require.False(t, store.Has(k), k)
	}
	require.True(t, store.Has("faqs_all"))
	require.True(t, store.Has("employer_e-1"))

	require.Len(t, notifier.msgs, 1)
	require.Equal(t, EventsTopic, notifier.msgs[0].topic)
	require.Equal(t, "cache_invalidated", notifier.msgs[0].event.Type)
	require.Equal(t, "jobs", notifier.msgs[0].event.Scope)
	require.Equal(t, len(stale), notifier.msgs[0].event.Removed)
	require.Equal(t, len(stale), rec.invalidated["jobs"])
}

func TestClearJobCache_SingleJob(t *testing.T) {
	inv, store, _, _ := newTestInvalidator(t)
	store.Set("job_a1", 1, time.Minute)
	store.Set("job_b2", 2, time.Minute)
	store.Set("jobs_{}", 3, time.Minute)

	require.Equal(t, 1, inv.ClearJobCache("a1"))
	require.False(t, store.Has("job_a1"))
	require.True(t, store.Has("job_b2"))
	require.True(t, store.Has("jobs_{}"))
}

func TestClearCandidateApplicationCaches(t *testing.T) {
	inv, store, _, _ := newTestInvalidator(t)
	store.Set("/api/candidate/applications#u-1", 1, time.Minute)
	store.Set("/api/candidate/applications?page=2#u-2", 2, time.Minute)
	store.Set("job_1", 3, time.Minute)

	require.Equal(t, 2, inv.ClearCandidateApplicationCaches())
	require.True(t, store.Has("job_1"))
}

func TestClearEmployerCaches(t *testing.T) {
	inv, store, notifier, _ := newTestInvalidator(t)
	store.Set("employer_e-1", 1, time.Minute)
	store.Set("employer_e-2", 2, time.Minute)
	store.Set(`employers_{"page":1}`, 3, time.Minute)

	require.Equal(t, 2, inv.ClearEmployerCaches("e-1"))
	require.True(t, store.Has("employer_e-2"))
	require.Equal(t, "e-1", notifier.msgs[0].event.Target)
}

func TestClearFAQCaches_KeyAndTag(t *testing.T) {
	inv, store, _, _ := newTestInvalidator(t)
	store.Set(FAQKey, 1, time.Minute)
	store.SetTagged("/api/faqs?lang=en", 2, time.Minute, TagFAQs)
	store.Set("job_1", 3, time.Minute)

	require.Equal(t, 2, inv.ClearFAQCaches())
	require.True(t, store.Has("job_1"))
}

func TestInvalidation_NoMatchIsSilent(t *testing.T) {
	inv, store, notifier, _ := newTestInvalidator(t)
	store.Set("faqs_all", 1, time.Minute)

	require.Equal(t, 0, inv.ClearJobCaches())
	require.Equal(t, 0, inv.ClearJobCache("missing"))
	require.Empty(t, notifier.msgs)
}

func TestClearAllCachesAndStats(t *testing.T) {
	inv, store, _, _ := newTestInvalidator(t)
	store.Set("job_1", 1, time.Minute)
	store.Set("faqs_all", 2, time.Minute)

	st := inv.Stats()
	require.Equal(t, 2, st.Entries)
	require.Equal(t, 2, st.Live)

	require.Equal(t, 2, inv.ClearAllCaches())
	require.Equal(t, 0, inv.Stats().Entries)
}

func TestInvalidator_NilNotifier(t *testing.T) {
	store := NewStore(StoreOptions{})
	inv := NewInvalidator(store, nil, zerolog.Nop())
	store.Set("job_1", 1, time.Minute)
	require.Equal(t, 1, inv.ClearJobCaches())
}
