// Package httpapi serves a read-only status API next to the SSH server:
// liveness, Prometheus metrics and JSON views of saves and records.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/tui-idle/internal/bignum"
	"github.com/vovakirdan/tui-idle/internal/metrics"
	"github.com/vovakirdan/tui-idle/internal/registry"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

const (
	defaultRecordLimit = 10
	maxRecordLimit     = 100
	pingTimeout        = 2 * time.Second
)

// Store is the part of storage.Store the API reads from.
type Store interface {
	Ping(ctx context.Context) error
	ListSaves(owner string) ([]storage.SaveSummary, error)
	TopRecords(gameID string, limit int) ([]storage.Record, error)
	BestRecord(gameID string) (*storage.Record, error)
}

// Server wraps the HTTP listener.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// NewServer creates a server listening on addr.
func NewServer(addr string, store Store, logger *log.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(store, logger),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start blocks serving requests until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewRouter builds the route table.
func NewRouter(store Store, logger *log.Logger) http.Handler {
	h := &handlers{store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(h.logRequests)

	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/games", h.games)
		r.Get("/records/{game}", h.records)
		r.Get("/saves", h.saves)
	})
	return r
}

type handlers struct {
	store  Store
	logger *log.Logger
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type gameView struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Best  *bignum.Number `json:"best,omitempty"`
}

type recordView struct {
	Rank      int           `json:"rank"`
	SessionID string        `json:"session_id"`
	Peak      bignum.Number `json:"peak"`
	Display   string        `json:"display"`
	CreatedAt time.Time     `json:"created_at"`
}

type saveView struct {
	Owner     string        `json:"owner"`
	GameID    string        `json:"game_id"`
	Currency  bignum.Number `json:"currency"`
	Peak      bignum.Number `json:"peak"`
	Ticks     int64         `json:"ticks"`
	Levels    int64         `json:"levels"`
	UpdatedAt time.Time     `json:"updated_at"`
	Updated   string        `json:"updated"`
}

func (h *handlers) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error("Health check failed", "err", err)
		h.respondJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Message: "database unreachable"})
		return
	}
	h.respondJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *handlers) games(w http.ResponseWriter, _ *http.Request) {
	games := registry.List()
	views := make([]gameView, 0, len(games))
	for _, g := range games {
		v := gameView{ID: g.ID, Title: g.Title}
		best, err := h.store.BestRecord(g.ID)
		if err != nil {
			h.respondError(w, http.StatusInternalServerError, "cannot load records", err)
			return
		}
		if best != nil {
			v.Best = &best.Peak
		}
		views = append(views, v)
	}
	h.respondJSON(w, http.StatusOK, views)
}

func (h *handlers) records(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "game")
	if !registry.Exists(gameID) {
		h.respondJSON(w, http.StatusNotFound, errorResponse{Error: "unknown game " + strconv.Quote(gameID)})
		return
	}

	limit := defaultRecordLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxRecordLimit)
	}

	records, err := h.store.TopRecords(gameID, limit)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "cannot load records", err)
		return
	}

	format := bignum.DefaultFormatter()
	views := make([]recordView, len(records))
	for i, rec := range records {
		views[i] = recordView{
			Rank:      i + 1,
			SessionID: rec.SessionID,
			Peak:      rec.Peak,
			Display:   format.Format(rec.Peak),
			CreatedAt: rec.CreatedAt,
		}
	}
	h.respondJSON(w, http.StatusOK, views)
}

func (h *handlers) saves(w http.ResponseWriter, r *http.Request) {
	saves, err := h.store.ListSaves(r.URL.Query().Get("owner"))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "cannot load saves", err)
		return
	}

	views := make([]saveView, len(saves))
	for i, s := range saves {
		views[i] = saveView{
			Owner:     s.Owner,
			GameID:    s.GameID,
			Currency:  s.Currency,
			Peak:      s.Peak,
			Ticks:     s.Ticks,
			Levels:    s.Levels,
			UpdatedAt: s.UpdatedAt,
			Updated:   humanize.Time(s.UpdatedAt),
		}
	}
	h.respondJSON(w, http.StatusOK, views)
}

func (h *handlers) respondError(w http.ResponseWriter, status int, message string, err error) {
	h.logger.Error(message, "err", err)
	h.respondJSON(w, status, errorResponse{Error: message})
}

func (h *handlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode JSON response", "err", err)
	}
}
