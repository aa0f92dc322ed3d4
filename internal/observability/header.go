package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const serverTimingHeader = "Server-Timing"

// SinceMs is the time elapsed since t in milliseconds, microsecond precision.
func SinceMs(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}

// TimingEntry formats one Server-Timing metric. Non-positive durations and
// empty descriptions are omitted; with neither the entry is empty.
func TimingEntry(name string, durMs float64, desc string) string {
	var b strings.Builder
	if durMs > 0 {
		b.WriteString(";dur=")
		b.WriteString(formatMs(durMs))
	}
	if desc != "" {
		b.WriteString(";desc=")
		b.WriteString(strconv.Quote(desc))
	}
	if b.Len() == 0 {
		return ""
	}
	return name + b.String()
}

func AppendServerTiming(w http.ResponseWriter, name string, durMs float64, desc string) {
	if e := TimingEntry(name, durMs, desc); e != "" {
		w.Header().Add(serverTimingHeader, e)
	}
}

// SetMs sets key to ms with two decimals, leaving it untouched for ms <= 0.
func SetMs(w http.ResponseWriter, key string, ms float64) {
	if ms > 0 {
		w.Header().Set(key, formatMs(ms))
	}
}

func formatMs(ms float64) string {
	return strconv.FormatFloat(ms, 'f', 2, 64)
}
