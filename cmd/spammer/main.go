package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lavrik91/test-task-1/internal/application/service"
	"github.com/lavrik91/test-task-1/internal/config"
	"github.com/lavrik91/test-task-1/internal/domain"
	"github.com/lavrik91/test-task-1/internal/kafka"
	"github.com/lavrik91/test-task-1/internal/logger"
	"github.com/lavrik91/test-task-1/internal/queue"
)

type Spammer struct {
	submitter *service.Submitter
	sessions  []string
	log       *zap.Logger

	isRunning atomic.Bool
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	totalSent atomic.Int64
	failed    atomic.Int64
	startedAt time.Time
}

type SpamRequest struct {
	Rate     int    `json:"rate"`
	Duration string `json:"duration"`
	// Channel is "queue", "broker" or "both" (default).
	Channel string `json:"channel"`
}

type SpamStats struct {
	IsRunning bool    `json:"is_running"`
	TotalSent int64   `json:"total_sent"`
	Failed    int64   `json:"failed"`
	Rate      float64 `json:"rate"`
}

func NewSpammer(submitter *service.Submitter, sessions int, log *zap.Logger) *Spammer {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Spammer{
		submitter: submitter,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		startedAt: time.Now(),
	}
	for i := 0; i < sessions; i++ {
		s.sessions = append(s.sessions, uuid.NewString())
	}
	return s
}

func (s *Spammer) StartSpam(rate int, duration time.Duration, channel string) {
	if !s.isRunning.CompareAndSwap(false, true) {
		return
	}
	s.totalSent.Store(0)
	s.failed.Store(0)
	s.startedAt = time.Now()

	s.log.Info("Starting spam", zap.Int("rate", rate), zap.Duration("duration", duration), zap.String("channel", channel))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.isRunning.Store(false)

		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()

		timer := time.NewTimer(duration)
		defer timer.Stop()

		for n := 0; ; n++ {
			select {
			case <-ticker.C:
				session := s.sessions[rand.Intn(len(s.sessions))]
				req := generateFakeOrder()

				var err error
				switch {
				case channel == "queue", channel == "both" && n%2 == 0:
					_, err = s.submitter.SubmitToQueue(s.ctx, session, req)
				default:
					_, err = s.submitter.SubmitToBroker(s.ctx, session, req)
				}
				if err != nil {
					s.failed.Add(1)
					continue
				}
				s.totalSent.Add(1)

			case <-timer.C:
				s.log.Info("Spam completed", zap.Int64("total_sent", s.totalSent.Load()))
				return

			case <-s.ctx.Done():
				s.log.Info("Spam stopped", zap.Int64("total_sent", s.totalSent.Load()))
				return
			}
		}
	}()
}

func (s *Spammer) StopSpam() {
	if s.isRunning.Load() {
		s.cancel()
		s.wg.Wait()

		// Recreate context for next run
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}
}

func (s *Spammer) GetStats() SpamStats {
	st := SpamStats{
		IsRunning: s.isRunning.Load(),
		TotalSent: s.totalSent.Load(),
		Failed:    s.failed.Load(),
	}
	if secs := time.Since(s.startedAt).Seconds(); secs > 0 {
		st.Rate = float64(st.TotalSent) / secs
	}
	return st
}

func (s *Spammer) Close() {
	s.StopSpam()
}

var (
	names = []string{"Shirt", "Phone", "Kettle", "Jacket", "Headphones", "Lamp"}
	cents = decimal.New(1, -2)
)

func generateFakeOrder() service.OrderRequest {
	return service.OrderRequest{
		Name:          names[rand.Intn(len(names))],
		Weight:        decimal.NewFromInt(int64(2 + rand.Intn(5000))).Mul(cents),
		Cost:          decimal.NewFromInt(int64(2 + rand.Intn(100000))).Mul(cents),
		OrderTypeName: domain.OrderTypes[rand.Intn(len(domain.OrderTypes))],
	}
}

func envDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func main() {
	log, err := logger.New(envDefault("APP_ENV", "local"), envDefault("LOG_LEVEL", "info"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	kcfg := config.Kafka{
		Brokers: strings.Split(envDefault("KAFKA_BROKERS", "kafka:9092"), ","),
		Topic:   envDefault("KAFKA_TOPIC", "orders"),
	}
	writer := kafka.NewWriter(kcfg)
	producer := kafka.NewProducer(writer)
	defer producer.Close()

	rdb := redis.NewClient(&redis.Options{Addr: envDefault("REDIS_ADDR", "redis:6379")})
	defer rdb.Close()
	enqueuer := queue.NewProducer(rdb, config.Queue{Key: envDefault("QUEUE_KEY", "orders:tasks")})

	spammer := NewSpammer(service.NewSubmitter(enqueuer, producer, zap.NewNop()), 20, log)
	defer spammer.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /start", func(w http.ResponseWriter, r *http.Request) {
		var req SpamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if req.Rate <= 0 {
			req.Rate = 10
		}
		switch req.Channel {
		case "":
			req.Channel = "both"
		case "queue", "broker", "both":
		default:
			http.Error(w, "channel must be queue, broker or both", http.StatusBadRequest)
			return
		}

		duration, err := time.ParseDuration(req.Duration)
		if err != nil {
			http.Error(w, "Invalid duration format: "+err.Error(), http.StatusBadRequest)
			return
		}

		spammer.StartSpam(req.Rate, duration, req.Channel)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":   "started",
			"rate":     req.Rate,
			"duration": duration.String(),
			"channel":  req.Channel,
		})
	})

	mux.HandleFunc("POST /stop", func(w http.ResponseWriter, r *http.Request) {
		spammer.StopSpam()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":     "stopped",
			"total_sent": spammer.totalSent.Load(),
		})
	})

	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(spammer.GetStats())
	})

	port := ":" + envDefault("SPAMMER_PORT", "8082")
	log.Info("Spammer server started", zap.String("addr", port), zap.String("endpoints", "POST /start, POST /stop, GET /stats"))
	srv := &http.Server{Addr: port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("spammer server", zap.Error(err))
	}
}
