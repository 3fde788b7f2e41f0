package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	queueservice "fundqueue/contexts/membership-queue/queue-service"
	approvalworkflow "fundqueue/contexts/payout-approvals/approval-workflow"
	_ "fundqueue/internal/platform/httpserver/docs"
	"fundqueue/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux       *http.ServeMux
	handler   http.Handler
	http      *http.Server
	logger    *slog.Logger
	addr      string
	queue     queueservice.Module
	approvals approvalworkflow.Module
	metrics   *metrics.Registry
}

func New(
	queue queueservice.Module,
	approvals approvalworkflow.Module,
	registry *metrics.Registry,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		queue:     queue,
		approvals: approvals,
		metrics:   registry,
	}
	s.registerRoutes()
	s.handler = chi.Chain(
		middleware.RequestID,
		middleware.Recoverer,
		registry.Middleware,
	).Handler(s.mux)
	s.http = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the routed mux wrapped in the request middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start blocks until the listener fails or Shutdown is called. A clean
// shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	return s.http.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.mux.HandleFunc("GET /queue", s.handleListQueue)
	s.mux.HandleFunc("GET /queue/stats", s.handleQueueStats)
	s.mux.HandleFunc("GET /queue/winners", s.handleQueueWinners)
	s.mux.HandleFunc("POST /queue/recalculate", s.handleRecalculate)
	s.mux.HandleFunc("POST /queue/{member_id}", s.handleAddMember)
	s.mux.HandleFunc("PUT /queue/{member_id}", s.handleUpdateMember)
	s.mux.HandleFunc("DELETE /queue/{member_id}", s.handleRemoveMember)

	s.mux.HandleFunc("POST /payout-workflows", s.handleCreateWorkflow)
	s.mux.HandleFunc("GET /payout-workflows/{workflow_id}", s.handleGetWorkflow)
	s.mux.HandleFunc("POST /payout-workflows/{workflow_id}/approvals", s.handleSubmitApproval)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) logFailure(r *http.Request, event string, err error) {
	s.logger.Error("http request failed",
		"event", event,
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err.Error(),
	)
}
