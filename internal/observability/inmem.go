package observability

import "sync"

type observe struct {
	Kind   string
	Source string
	Label  string
	Status int
	Dur    float64
	Extra  float64
	OK     bool
}

// Inmem keeps the last max observations and running counters. Used in tests
// and local runs without a Prometheus scraper.
type Inmem struct {
	mu     sync.Mutex
	last   []*observe
	max    int
	totals struct {
		cacheHits, cacheMiss         int
		rateCacheHits, rateCacheMiss int
	}
}

func NewInmem(max int) *Inmem {
	return &Inmem{
		max: max,
	}
}

func (m *Inmem) push(v *observe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last, v)
	if len(m.last) > m.max {
		m.last = m.last[1:]
	}
}

// Count returns how many retained observations have the given kind.
func (m *Inmem) Count(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.last {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// Labels returns the label of every retained observation of the given kind, oldest first.
func (m *Inmem) Labels(kind string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, o := range m.last {
		if o.Kind == kind {
			out = append(out, o.Label)
		}
	}
	return out
}

func (m *Inmem) ObserveLookup(source string, cacheMs, dbMs float64) {
	m.push(&observe{Kind: "lookup", Source: source, Dur: cacheMs, Extra: dbMs})
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.push(&observe{Kind: "http", Source: method, Label: route, Status: status, Dur: durMs})
}

func (m *Inmem) ObserveDelivery(channel, verdict string, durMs float64) {
	m.push(&observe{Kind: "delivery", Source: channel, Label: verdict, Dur: durMs})
}

func (m *Inmem) ObserveProcess(outcome string, durMs float64) {
	m.push(&observe{Kind: "process", Label: outcome, Dur: durMs})
}

func (m *Inmem) ObserveRateFetch(durMs float64, ok bool) {
	m.push(&observe{Kind: "rate_fetch", Dur: durMs, OK: ok})
}

func (m *Inmem) IncCacheHit() {
	m.mu.Lock()
	m.totals.cacheHits++
	m.mu.Unlock()
}

func (m *Inmem) IncCacheMiss() {
	m.mu.Lock()
	m.totals.cacheMiss++
	m.mu.Unlock()
}

func (m *Inmem) IncRateCacheHit() {
	m.mu.Lock()
	m.totals.rateCacheHits++
	m.mu.Unlock()
}

func (m *Inmem) IncRateCacheMiss() {
	m.mu.Lock()
	m.totals.rateCacheMiss++
	m.mu.Unlock()
}

// RateCacheStats returns the rate cache hit and miss counters.
func (m *Inmem) RateCacheStats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals.rateCacheHits, m.totals.rateCacheMiss
}
