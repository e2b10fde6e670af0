package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorder_CacheCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := New(reg, func() float64 { return 3 })
	require.NoError(t, err)

	r.Hit()
	r.Hit()
	r.Miss()
	r.Stored()
	r.Invalidated("jobs", 4)
	r.Invalidated("jobs", 0)

	require.Equal(t, 2.0, testutil.ToFloat64(r.cacheHits))
	require.Equal(t, 1.0, testutil.ToFloat64(r.cacheMisses))
	require.Equal(t, 1.0, testutil.ToFloat64(r.cacheSets))
	require.Equal(t, 4.0, testutil.ToFloat64(r.cacheInvalidated.WithLabelValues("jobs")))

	families, err := reg.Gather()
	require.NoError(t, err)
	var sawGauge bool
	for _, f := range families {
		if f.GetName() == "jobportal_cache_entries" {
			sawGauge = true
			require.Equal(t, 3.0, f.GetMetric()[0].GetGauge().GetValue())
		}
	}
	require.True(t, sawGauge)
}

func TestRecorder_ObserveRequest(t *testing.T) {
	r, err := New(prometheus.NewRegistry(), nil)
	require.NoError(t, err)

	r.ObserveRequest("GET", "/api/jobs", 200, 10*time.Millisecond)
	r.ObserveRequest("GET", "", 404, time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "/api/jobs", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestNew_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, nil)
	require.NoError(t, err)
	_, err = New(reg, nil)
	require.Error(t, err)
}
