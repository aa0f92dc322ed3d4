package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orders"

// msBuckets covers sub-millisecond cache hits up to multi-second upstream calls.
var msBuckets = []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

type Prometheus struct {
	reg *prometheus.Registry

	lookup    *prometheus.HistogramVec
	httpDur   *prometheus.HistogramVec
	delivery  *prometheus.HistogramVec
	process   *prometheus.HistogramVec
	rateFetch *prometheus.HistogramVec
	cache     *prometheus.CounterVec
	rateCache *prometheus.CounterVec
}

func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		reg: reg,
		lookup: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "lookup_duration_ms",
			Help: "Order lookup latency by source.", Buckets: msBuckets,
		}, []string{"source"}),
		httpDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_ms",
			Help: "HTTP request latency.", Buckets: msBuckets,
		}, []string{"method", "route", "status"}),
		delivery: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "delivery_duration_ms",
			Help: "Consumed message handling latency by channel and verdict.", Buckets: msBuckets,
		}, []string{"channel", "verdict"}),
		process: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "process_duration_ms",
			Help: "Order processing latency by outcome.", Buckets: msBuckets,
		}, []string{"outcome"}),
		rateFetch: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "rate_fetch_duration_ms",
			Help: "Exchange rate upstream latency.", Buckets: msBuckets,
		}, []string{"ok"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "order_cache_total",
			Help: "Order read cache hits and misses.",
		}, []string{"result"}),
		rateCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "rate_cache_total",
			Help: "Exchange rate cache hits and misses.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		p.lookup, p.httpDur, p.delivery, p.process, p.rateFetch, p.cache, p.rateCache,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return p
}

// Handler serves the registry in the exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{Registry: p.reg})
}

func (p *Prometheus) Registry() *prometheus.Registry { return p.reg }

func (p *Prometheus) ObserveLookup(source string, cacheMs, dbMs float64) {
	p.lookup.WithLabelValues(source).Observe(cacheMs + dbMs)
}

func (p *Prometheus) ObserveHTTP(method, route string, status int, durMs float64) {
	p.httpDur.WithLabelValues(method, route, statusClass(status)).Observe(durMs)
}

func (p *Prometheus) ObserveDelivery(channel, verdict string, durMs float64) {
	p.delivery.WithLabelValues(channel, verdict).Observe(durMs)
}

func (p *Prometheus) ObserveProcess(outcome string, durMs float64) {
	p.process.WithLabelValues(outcome).Observe(durMs)
}

func (p *Prometheus) ObserveRateFetch(durMs float64, ok bool) {
	label := "false"
	if ok {
		label = "true"
	}
	p.rateFetch.WithLabelValues(label).Observe(durMs)
}

func (p *Prometheus) IncCacheHit()      { p.cache.WithLabelValues("hit").Inc() }
func (p *Prometheus) IncCacheMiss()     { p.cache.WithLabelValues("miss").Inc() }
func (p *Prometheus) IncRateCacheHit()  { p.rateCache.WithLabelValues("hit").Inc() }
func (p *Prometheus) IncRateCacheMiss() { p.rateCache.WithLabelValues("miss").Inc() }

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
