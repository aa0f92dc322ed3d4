package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Kafka struct {
	Brokers           []string
	Topic             string
	Group             string
	Workers           int
	Partitions        int
	ReplicationFactor int
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Queue struct {
	Key        string
	ConsumerID string
	// PollTimeout bounds one blocking lease so shutdown is noticed.
	PollTimeout time.Duration
}

type Postgres struct {
	Host     string
	Port     string
	DB       string
	User     string
	Password string
	SSLMode  string
}

type Rate struct {
	URL      string
	Currency string
	TTL      time.Duration
	Timeout  time.Duration
}

type Breaker struct {
	Threshold   int
	OpenTimeout time.Duration
	MaxHalfOpen int
}

type Retry struct {
	Attempts     int
	Base         time.Duration
	Max          time.Duration
	JitterFactor float64
}

type Reconcile struct {
	Interval time.Duration
	Grace    time.Duration
	Batch    int
}

type Config struct {
	Env      string
	LogLevel string
	HTTPAddr string
	// MetricsAddr is where the worker serves /metrics.
	MetricsAddr     string
	CacheCap        int
	JaegerEndpoint  string
	ShutdownTimeout time.Duration
	// RequeueDelay is how long a channel waits before redelivering a failed item.
	RequeueDelay time.Duration

	Pg        Postgres
	Kafka     Kafka
	Redis     Redis
	Queue     Queue
	Rate      Rate
	Breaker   Breaker
	Retry     Retry
	Reconcile Reconcile
}

// Load fatals on error; main has nothing better to do with it.
func Load() Config {
	cfg, err := load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	return cfg
}

func load() (Config, error) {
	_ = godotenv.Load("env/.env")

	hostname, _ := os.Hostname()

	cfg := Config{
		Env:             envDefault("APP_ENV", "local"),
		LogLevel:        envDefault("LOG_LEVEL", "info"),
		HTTPAddr:        envDefault("HTTP_ADDR", ":8081"),
		MetricsAddr:     envDefault("METRICS_ADDR", ":9091"),
		CacheCap:        envInt("CACHE_CAP", 1000),
		JaegerEndpoint:  strings.TrimSpace(os.Getenv("JAEGER_ENDPOINT")),
		ShutdownTimeout: envDurationMS("SHUTDOWN_TIMEOUT", 15*time.Second),
		RequeueDelay:    envDurationMS("REQUEUE_DELAY", time.Second),

		Pg: Postgres{
			Host:     strings.TrimSpace(os.Getenv("PG_HOST")),
			Port:     strings.TrimSpace(envDefault("PG_PORT", "5432")),
			DB:       strings.TrimSpace(os.Getenv("PG_DB")),
			User:     strings.TrimSpace(os.Getenv("PG_USER")),
			Password: strings.TrimSpace(os.Getenv("PG_PASSWORD")),
			SSLMode:  strings.TrimSpace(envDefault("PG_SSLMODE", "disable")),
		},

		Kafka: Kafka{
			Brokers:           splitCSV(strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))),
			Topic:             strings.TrimSpace(envDefault("KAFKA_TOPIC", "orders")),
			Group:             strings.TrimSpace(envDefault("KAFKA_GROUP", "orders-pricing")),
			Workers:           envInt("KAFKA_WORKERS", 4),
			Partitions:        envInt("KAFKA_PARTITIONS", 3),
			ReplicationFactor: envInt("KAFKA_REPLICATION", 1),
		},

		Redis: Redis{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},

		Queue: Queue{
			Key:         envDefault("QUEUE_KEY", "orders:tasks"),
			ConsumerID:  envDefault("QUEUE_CONSUMER_ID", hostname),
			PollTimeout: envDurationMS("QUEUE_POLL_TIMEOUT", 5*time.Second),
		},

		Rate: Rate{
			URL:      envDefault("RATE_URL", "https://www.cbr-xml-daily.ru/daily_json.js"),
			Currency: envDefault("RATE_CURRENCY", "USD"),
			TTL:      envDurationMS("RATE_TTL", 300*time.Second),
			Timeout:  envDurationMS("RATE_TIMEOUT", 5*time.Second),
		},

		Breaker: Breaker{
			Threshold:   envInt("RATE_BREAKER_THRESHOLD", 5),
			OpenTimeout: envDurationMS("RATE_BREAKER_OPENTIMEOUT", 10*time.Second),
			MaxHalfOpen: envInt("RATE_BREAKER_MAXHALFOPEN", 1),
		},

		Retry: Retry{
			Attempts:     envInt("RATE_RETRY_ATTEMPTS", 3),
			Base:         envDurationMS("RATE_RETRY_BASE", 200*time.Millisecond),
			Max:          envDurationMS("RATE_RETRY_MAX", 2*time.Second),
			JitterFactor: envFloat64("RATE_RETRY_JITTERFACTOR", 0.3),
		},

		Reconcile: Reconcile{
			Interval: envDurationMS("RECONCILE_INTERVAL", time.Minute),
			Grace:    envDurationMS("RECONCILE_GRACE", 5*time.Minute),
			Batch:    envInt("RECONCILE_BATCH", 50),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c Config) validate() error {
	var missing []string
	req := []struct{ key, val string }{
		{"PG_HOST", c.Pg.Host},
		{"PG_DB", c.Pg.DB},
		{"PG_USER", c.Pg.User},
		{"PG_PASSWORD", c.Pg.Password},
		{"KAFKA_BROKERS", strings.Join(c.Kafka.Brokers, ",")},
		{"REDIS_ADDR", c.Redis.Addr},
	}
	for _, r := range req {
		if strings.TrimSpace(r.val) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return &missingEnvError{Keys: missing}
	}
	return nil
}

func (c *Config) normalize() {
	if c.CacheCap <= 0 {
		log.Printf("CACHE_CAP is %d, adjusting to 1", c.CacheCap)
		c.CacheCap = 1
	}
	if c.Kafka.Workers < 1 {
		log.Printf("KAFKA_WORKERS is %d, adjusting to 1", c.Kafka.Workers)
		c.Kafka.Workers = 1
	}
	if c.Retry.Attempts < 1 {
		log.Printf("RATE_RETRY_ATTEMPTS is %d, adjusting to 1", c.Retry.Attempts)
		c.Retry.Attempts = 1
	}
	if c.Retry.Base <= 0 {
		log.Printf("RATE_RETRY_BASE is %v, adjusting to 100ms", c.Retry.Base)
		c.Retry.Base = 100 * time.Millisecond
	}
	if c.Retry.Max < c.Retry.Base {
		log.Printf("RATE_RETRY_MAX (%v) < RATE_RETRY_BASE (%v), adjusting max to base", c.Retry.Max, c.Retry.Base)
		c.Retry.Max = c.Retry.Base
	}
	if c.Rate.Timeout <= 0 {
		log.Printf("RATE_TIMEOUT is %v, adjusting to 5s", c.Rate.Timeout)
		c.Rate.Timeout = 5 * time.Second
	}
	if c.Queue.ConsumerID == "" {
		c.Queue.ConsumerID = "worker"
	}
}

type missingEnvError struct{ Keys []string }

func (e *missingEnvError) Error() string {
	return "missing required envs: " + strings.Join(e.Keys, ", ")
}

// DSN builds a proper Postgres URL, safely escaping user/pass and query.
func (c Config) DSN() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Pg.User, c.Pg.Password),
		Host:   net.JoinHostPort(c.Pg.Host, c.Pg.Port),
		Path:   "/" + c.Pg.DB,
	}
	q := url.Values{}
	if c.Pg.SSLMode != "" {
		q.Set("sslmode", c.Pg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func envDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return n
}

func envFloat64(k string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %.3f: %v", k, v, def, err)
		return def
	}
	return f
}

// envDurationMS supports either plain integer milliseconds ("1500") or
// Go duration strings ("1.5s", "250ms", "2m").
func envDurationMS(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
			return def
		}
		return d
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
