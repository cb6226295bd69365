package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncCacheHit("orders")
	r.ObserveUpstream("GET", 200, time.Second)
}

func scrape(t *testing.T, pr *PrometheusRecorder) string {
	t.Helper()
	rec := httptest.NewRecorder()
	pr.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPrometheusRecorder_Counts(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	var r Recorder = pr

	r.IncCacheHit("orders")
	r.IncCacheHit("orders")
	r.IncCacheMiss("orders")
	r.IncSharedHit("devices")
	r.IncFetchError("orders")
	r.IncPushResult(false)

	body := scrape(t, pr)
	assert.Contains(t, body, `kioskadmin_cache_lookups_total{endpoint="orders",result="hit"} 2`)
	assert.Contains(t, body, `kioskadmin_cache_lookups_total{endpoint="orders",result="miss"} 1`)
	assert.Contains(t, body, `kioskadmin_cache_lookups_total{endpoint="devices",result="shared_hit"} 1`)
	assert.Contains(t, body, `kioskadmin_cache_fetch_errors_total{endpoint="orders"} 1`)
	assert.Contains(t, body, `kioskadmin_push_results_total{result="failed"} 1`)
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.ObserveUpstream("GET", 200, 20*time.Millisecond)
	pr.SetLiveSessions(3)

	body := scrape(t, pr)
	assert.Contains(t, body, "kioskadmin_upstream_request_duration_seconds")
	assert.Contains(t, body, "kioskadmin_live_sessions 3")
}
