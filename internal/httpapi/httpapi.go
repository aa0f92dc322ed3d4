package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lavrik91/test-task-1/internal/application/service"
	"github.com/lavrik91/test-task-1/internal/domain"
	"github.com/lavrik91/test-task-1/internal/observability"
)

//go:generate mockgen -source=httpapi.go -destination=httpapi_mock_test.go -package=httpapi

type OrderReader interface {
	GetOrderWithStats(ctx context.Context, key string) (*domain.Order, service.LookupStats, error)
	ListUserOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	OrderTypes(ctx context.Context) ([]domain.OrderTypeRecord, error)
	EnsureSession(ctx context.Context, sessionID string) (string, bool, error)
}

type OrderSubmitter interface {
	SubmitToQueue(ctx context.Context, sessionUUID string, req service.OrderRequest) (string, error)
	SubmitToBroker(ctx context.Context, sessionUUID string, req service.OrderRequest) (string, error)
}

const sessionCookie = "session_id"

type Server struct {
	reader    OrderReader
	submitter OrderSubmitter
	router    chi.Router
	logger    *zap.Logger
	metrics   observability.Metrics
	scrape    http.Handler
}

// New builds the API. scrape serves /metrics when non-nil.
func New(reader OrderReader, submitter OrderSubmitter, scrape http.Handler, logger *zap.Logger, metrics observability.Metrics) *Server {
	s := &Server{
		reader:    reader,
		submitter: submitter,
		logger:    logger,
		metrics:   metrics,
		scrape:    scrape,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(ServerTimingApp(s.metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.scrape != nil {
		r.Handle("/metrics", s.scrape)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/order/create_order", s.createOrder(s.submitter.SubmitToQueue))
		r.Post("/create_order_broker/", s.createOrder(s.submitter.SubmitToBroker))
		r.Get("/order/get_user_orders_list", s.listUserOrders)
		r.Get("/order/{order_id}", s.getOrder)
		r.Get("/order_type_list", s.orderTypes)
	})
	s.router = r
}

type submitFunc func(ctx context.Context, sessionUUID string, req service.OrderRequest) (string, error)

func (s *Server) createOrder(submit submitFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, problems, err := decodeCreateOrder(r)
		if err != nil {
			var mt *mediaTypeError
			if errors.As(err, &mt) {
				writeDetail(w, http.StatusUnsupportedMediaType, mt.Error())
				return
			}
			s.logger.Debug("Error while decoding JSON", zap.Error(err))
			writeDetail(w, http.StatusUnprocessableEntity, "bad json")
			return
		}
		if len(problems) > 0 {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": problems})
			return
		}

		var current string
		if c, err := r.Cookie(sessionCookie); err == nil {
			current = c.Value
		}
		sessionID, created, err := s.reader.EnsureSession(r.Context(), current)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "Service error")
			return
		}
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		taskID, err := submit(r.Context(), sessionID, req)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidItem) {
				writeDetail(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			writeDetail(w, http.StatusInternalServerError, "Service error")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{"id": taskID})
	}
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "order_id")
	if key == "" {
		writeDetail(w, http.StatusBadRequest, "order id required")
		return
	}

	order, st, err := s.reader.GetOrderWithStats(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "no order with this id")
			return
		}
		writeDetail(w, http.StatusInternalServerError, "Service error")
		return
	}

	observability.AppendServerTiming(w, "cache", st.CacheMs, "")
	observability.AppendServerTiming(w, "db", st.DBMs, "")
	observability.AppendServerTiming(w, "source", 0, string(st.Source))
	w.Header().Set("X-Source", string(st.Source))
	observability.SetMs(w, "X-Cache-Time", st.CacheMs)
	observability.SetMs(w, "X-DB-Time", st.DBMs)

	writeJSON(w, http.StatusOK, order)
}

func (s *Server) listUserOrders(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		writeDetail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter, problems := parseListQuery(r.URL.Query())
	if len(problems) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": problems})
		return
	}
	filter.SessionUUID = c.Value

	orders, err := s.reader.ListUserOrders(r.Context(), filter)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "Orders not found")
			return
		}
		writeDetail(w, http.StatusInternalServerError, "Service error")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) orderTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.reader.OrderTypes(r.Context())
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Service error")
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Handler() http.Handler { return s.router }
