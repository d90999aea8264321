// Package status: служебный HTTP: проверка живости и метрики Prometheus.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"shiftbook/pkg/logger"
	"shiftbook/pkg/metrics"
)

// Pinger: то, что нужно от базы для /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewRouter собирает /healthz и /metrics.
func NewRouter(db Pinger, gatherer prometheus.Gatherer, log *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", healthz(db, log))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))
	return r
}

type healthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}

func healthz(db Pinger, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", DB: "ok"}
		code := http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			log.Error(ctx, "healthz: db ping failed", err)
			resp = healthResponse{Status: "unavailable", DB: err.Error()}
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// Server: http.Server со статусными маршрутами.
type Server struct {
	srv *http.Server
	log *logger.Logger
}

func NewServer(addr string, handler http.Handler, log *logger.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		log: log,
	}
}

// Start слушает в фоне; ошибка запуска уходит в errCh.
func (s *Server) Start(ctx context.Context, errCh chan<- error) {
	go func() {
		s.log.Info(s.log.WithField(ctx, "addr", s.srv.Addr), "status server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
