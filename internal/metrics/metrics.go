package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the Prometheus instruments of the service. It implements
// cache.Recorder.
type Recorder struct {
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	cacheSets        prometheus.Counter
	cacheInvalidated *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registers every instrument on reg. entries, when non-nil, backs the
// cache entry gauge.
func New(reg prometheus.Registerer, entries func() float64) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobportal_cache_hits_total",
			Help: "Cache reads that found a live entry",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobportal_cache_misses_total",
			Help: "Cache reads that found nothing or an expired entry",
		}),
		cacheSets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobportal_cache_sets_total",
			Help: "Cache writes",
		}),
		cacheInvalidated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobportal_cache_invalidated_keys_total",
			Help: "Keys removed by invalidation, by scope",
		}, []string{"scope"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobportal_http_requests_total",
			Help: "HTTP requests served",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jobportal_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	collectors := []prometheus.Collector{
		r.cacheHits, r.cacheMisses, r.cacheSets, r.cacheInvalidated,
		r.httpRequests, r.httpDuration,
	}
	if entries != nil {
		collectors = append(collectors, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "jobportal_cache_entries",
			Help: "Live cache entries",
		}, entries))
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Hit records a cache hit.
func (r *Recorder) Hit() { r.cacheHits.Inc() }

// Miss records a cache miss.
func (r *Recorder) Miss() { r.cacheMisses.Inc() }

// Stored records a cache write.
func (r *Recorder) Stored() { r.cacheSets.Inc() }

// Invalidated records keys removed by an invalidation scope.
func (r *Recorder) Invalidated(scope string, removed int) {
	r.cacheInvalidated.WithLabelValues(scope).Add(float64(removed))
}

// ObserveRequest records one served HTTP request.
func (r *Recorder) ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
