package observability

// Metrics is the sink for every timing and counter the service records.
// Durations are in milliseconds.
type Metrics interface {
	ObserveLookup(source string, cacheMs, dbMs float64)
	ObserveHTTP(method, route string, status int, durMs float64)
	// ObserveDelivery records one consumed message and the verdict given to it.
	ObserveDelivery(channel, verdict string, durMs float64)
	// ObserveProcess records one processor run; outcome is "priced", "duplicate" or an error class.
	ObserveProcess(outcome string, durMs float64)
	ObserveRateFetch(durMs float64, ok bool)
	IncCacheHit()
	IncCacheMiss()
	IncRateCacheHit()
	IncRateCacheMiss()
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) ObserveLookup(string, float64, float64)   {}
func (Noop) ObserveHTTP(string, string, int, float64) {}
func (Noop) ObserveDelivery(string, string, float64)  {}
func (Noop) ObserveProcess(string, float64)           {}
func (Noop) ObserveRateFetch(float64, bool)           {}
func (Noop) IncCacheHit()                             {}
func (Noop) IncCacheMiss()                            {}
func (Noop) IncRateCacheHit()                         {}
func (Noop) IncRateCacheMiss()                        {}
