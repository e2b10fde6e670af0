package cache

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Substrings whose keys go stale when a job is created, updated or deleted.
// Listings of employers embed their open jobs, and application listings embed
// job titles, so they are dropped with the jobs.
var JobPatterns = []string{
	"jobs_",
	"job_",
	"employers_",
	"recruiters_",
	"/api/candidate/applications",
	"applications",
}

// ApplicationPatterns cover candidate application listings.
var ApplicationPatterns = []string{
	"/api/candidate/applications",
	"applications",
}

// TagFAQs is attached to FAQ responses cached by the request middleware.
const TagFAQs = "faqs"

// EventsTopic is the realtime topic invalidation events are published on.
const EventsTopic = "admin"

// Notifier publishes a message to every subscriber of topic.
// realtime.Hub satisfies it.
type Notifier interface {
	Broadcast(topic string, message []byte)
}

// Event is published after an invalidation removed at least one key.
type Event struct {
	Type    string    `json:"type"`
	Scope   string    `json:"scope"`
	Target  string    `json:"target,omitempty"`
	Removed int       `json:"removed"`
	At      time.Time `json:"at"`
}

// Invalidator groups bulk deletions by domain so that mutating handlers do not
// need to know the key formats of the reads they make stale.
type Invalidator struct {
	store    *Store
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewInvalidator wraps store. notifier may be nil.
func NewInvalidator(store *Store, notifier Notifier, log zerolog.Logger) *Invalidator {
	return &Invalidator{
		store:    store,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// ClearJobCaches drops every cached read that a job mutation could have made stale.
func (inv *Invalidator) ClearJobCaches() int {
	n := inv.deletePatterns(JobPatterns)
	inv.done("jobs", "", n)
	return n
}

// ClearJobCache drops the keys of one job. Because matching is by substring,
// job_1 also matches job_12.
func (inv *Invalidator) ClearJobCache(jobID string) int {
	n := inv.store.DeleteMatching(JobKey(jobID))
	inv.done("job", jobID, n)
	return n
}

// ClearCandidateApplicationCaches drops candidate application listings.
func (inv *Invalidator) ClearCandidateApplicationCaches() int {
	n := inv.deletePatterns(ApplicationPatterns)
	inv.done("applications", "", n)
	return n
}

// ClearEmployerCaches drops the profile of one employer and every employer listing.
func (inv *Invalidator) ClearEmployerCaches(employerID string) int {
	n := inv.store.DeleteMatching(EmployerKey(employerID))
	n += inv.store.DeleteMatching("employers_")
	inv.done("employer", employerID, n)
	return n
}

// ClearFAQCaches drops FAQ listings, whether cached by key or by the request middleware.
func (inv *Invalidator) ClearFAQCaches() int {
	n := inv.store.DeleteMatching("faqs_")
	n += inv.store.DeleteTag(TagFAQs)
	inv.done("faqs", "", n)
	return n
}

// ClearAllCaches drops everything.
func (inv *Invalidator) ClearAllCaches() int {
	n := inv.store.Clear()
	inv.done("all", "", n)
	return n
}

// PurgeExpired removes expired entries nobody read again.
func (inv *Invalidator) PurgeExpired() int {
	n := inv.store.PurgeExpired()
	inv.done("expired", "", n)
	return n
}

// Stats returns the store's entry counts.
func (inv *Invalidator) Stats() Stats {
	return inv.store.Stats()
}

func (inv *Invalidator) deletePatterns(patterns []string) int {
	n := 0
	for _, p := range patterns {
		n += inv.store.DeleteMatching(p)
	}
	return n
}

func (inv *Invalidator) done(scope, target string, removed int) {
	inv.store.recordInvalidation(scope, removed)
	if removed == 0 {
		return
	}
	inv.log.Debug().
		Str("scope", scope).
		Str("target", target).
		Int("removed", removed).
		Msg("cache invalidated")

	if inv.notifier == nil {
		return
	}
	b, err := json.Marshal(Event{
		Type:    "cache_invalidated",
		Scope:   scope,
		Target:  target,
		Removed: removed,
		At:      inv.now(),
	})
	if err != nil {
		return
	}
	inv.notifier.Broadcast(EventsTopic, b)
}
