package service

import "go.uber.org/zap"

type LookupSource string

const (
	SourceCache LookupSource = "cache"
	SourceDB    LookupSource = "db"
)

// LookupStats tells where an order was found and how long each tier took.
type LookupStats struct {
	Source  LookupSource
	CacheMs float64
	DBMs    float64
}

func (st LookupStats) fields(key string) []zap.Field {
	return []zap.Field{
		zap.String("key", key),
		zap.String("source", string(st.Source)),
		zap.Float64("cache_ms", st.CacheMs),
		zap.Float64("db_ms", st.DBMs),
	}
}
