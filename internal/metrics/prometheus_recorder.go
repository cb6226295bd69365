package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg             *prom.Registry
	cacheLookups    *prom.CounterVec
	fetchErrors     *prom.CounterVec
	revalidations   *prom.CounterVec
	upstreamLatency *prom.HistogramVec
	liveSessions    prom.Gauge
	pushResults     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the console metrics on reg.
// A private registry is created when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.cacheLookups = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "kioskadmin",
		Name:      "cache_lookups_total",
		Help:      "List cache lookups by endpoint and result (hit, shared_hit, miss)",
	}, []string{"endpoint", "result"})
	pr.fetchErrors = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "kioskadmin",
		Name:      "cache_fetch_errors_total",
		Help:      "Failed upstream fetches behind the list cache",
	}, []string{"endpoint"})
	pr.revalidations = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "kioskadmin",
		Name:      "cache_revalidations_total",
		Help:      "Endpoint revalidations",
	}, []string{"endpoint"})
	pr.upstreamLatency = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "kioskadmin",
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of kiosk backend requests",
		Buckets:   prom.DefBuckets,
	}, []string{"method", "status"})
	pr.liveSessions = prom.NewGauge(prom.GaugeOpts{
		Namespace: "kioskadmin",
		Name:      "live_sessions",
		Help:      "Open live list sessions",
	})
	pr.pushResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "kioskadmin",
		Name:      "push_results_total",
		Help:      "Web push deliveries by result",
	}, []string{"result"})
	reg.MustRegister(pr.cacheLookups, pr.fetchErrors, pr.revalidations, pr.upstreamLatency, pr.liveSessions, pr.pushResults)
	return pr
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}

func (p *PrometheusRecorder) IncCacheHit(endpoint string) {
	p.cacheLookups.WithLabelValues(endpoint, "hit").Inc()
}

func (p *PrometheusRecorder) IncCacheMiss(endpoint string) {
	p.cacheLookups.WithLabelValues(endpoint, "miss").Inc()
}

func (p *PrometheusRecorder) IncSharedHit(endpoint string) {
	p.cacheLookups.WithLabelValues(endpoint, "shared_hit").Inc()
}

func (p *PrometheusRecorder) IncFetchError(endpoint string) {
	p.fetchErrors.WithLabelValues(endpoint).Inc()
}

func (p *PrometheusRecorder) IncRevalidation(endpoint string) {
	p.revalidations.WithLabelValues(endpoint).Inc()
}

func (p *PrometheusRecorder) ObserveUpstream(method string, status int, d time.Duration) {
	p.upstreamLatency.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetLiveSessions(n int) {
	p.liveSessions.Set(float64(n))
}

func (p *PrometheusRecorder) IncPushResult(success bool) {
	res := "failed"
	if success {
		res = "success"
	}
	p.pushResults.WithLabelValues(res).Inc()
}
