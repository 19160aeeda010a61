// Package chi exposes the HTTP API: semantic search, the streaming
// assistant, and health.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alexnavarro1/StreamEvents/internal/domain"
	"github.com/alexnavarro1/StreamEvents/internal/usecase/assistant"
	healthuc "github.com/alexnavarro1/StreamEvents/internal/usecase/health"
	"github.com/alexnavarro1/StreamEvents/internal/usecase/retrieval"
)

// Searcher runs the retrieval pipeline for a query.
type Searcher interface {
	Retrieve(ctx context.Context, query string, onlyFuture bool, k int) ([]retrieval.Scored, error)
}

// Assistant produces a grounded response stream for a chat message.
type Assistant interface {
	Respond(ctx context.Context, message string, onlyFuture bool) (<-chan assistant.Frame, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Config holds transport settings.
type Config struct {
	// EmbeddingModel is echoed in search responses.
	EmbeddingModel string
	// DefaultLimit bounds a search without an explicit limit.
	DefaultLimit int
	// MaxLimit caps the client-requested limit.
	MaxLimit int
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	search        Searcher
	assistant     Assistant
	health        HealthChecker
	cfg           Config
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, asst Assistant, health HealthChecker, cfg Config, logger *zap.Logger) *Server {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 8
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 50
	}
	s := &Server{
		search:    search,
		assistant: asst,
		health:    health,
		cfg:       cfg,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, "empty_query"),
		sentinelHandler(domain.ErrEventNotFound, http.StatusNotFound, "event_not_found"),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, "embedding_provider_error"),
		sentinelHandler(domain.ErrGeneratorError, http.StatusBadGateway, "generator_error"),
	}
	return s
}

// Routes registers the API endpoints on a router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/api/search", s.handleSearch)
	r.Post("/api/assistant/chat", s.handleChat)
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// searchResult is one ranked event in a search response.
type searchResult struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	ScheduledDate string  `json:"scheduled_date,omitempty"`
	URL           string  `json:"url"`
	Score         float64 `json:"score"`
}

// searchResponse is the GET /api/search payload.
type searchResponse struct {
	Query          string         `json:"query"`
	EmbeddingModel string         `json:"embedding_model"`
	OnlyFuture     bool           `json:"only_future"`
	Results        []searchResult `json:"results"`
}

// handleSearch serves GET /api/search?q=...&future=0|1&limit=n.
// A blank query returns an empty result list, not an error.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	onlyFuture := r.URL.Query().Get("future") != "0"
	limit := s.parseLimit(r.URL.Query().Get("limit"))

	resp := searchResponse{
		Query:          q,
		EmbeddingModel: s.cfg.EmbeddingModel,
		OnlyFuture:     onlyFuture,
		Results:        []searchResult{},
	}

	if q == "" {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	ranked, err := s.search.Retrieve(r.Context(), q, onlyFuture, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	for _, sc := range ranked {
		res := searchResult{
			ID:          sc.Event.ID,
			Title:       sc.Event.Title,
			Description: sc.Event.Description,
			Category:    sc.Event.Category,
			URL:         sc.Event.URL(),
			Score:       roundScore(sc.Score),
		}
		if !sc.Event.ScheduledAt.IsZero() {
			res.ScheduledDate = sc.Event.ScheduledAt.Format(time.RFC3339)
		}
		resp.Results = append(resp.Results, res)
	}

	writeJSON(w, http.StatusOK, resp)
}

// chatRequest is the POST /api/assistant/chat body.
type chatRequest struct {
	Message    string `json:"message"`
	OnlyFuture *bool  `json:"only_future"`
}

// handleChat serves POST /api/assistant/chat as an SSE stream.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		s.handleDomainError(w, domain.ErrEmptyQuery)
		return
	}

	onlyFuture := true
	if req.OnlyFuture != nil {
		onlyFuture = *req.OnlyFuture
	}

	frames, err := s.assistant.Respond(r.Context(), message, onlyFuture)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.streamSSE(w, r, frames)
}

// handleHealthz serves GET /healthz.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func (s *Server) parseLimit(raw string) int {
	if raw == "" {
		return s.cfg.DefaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return s.cfg.DefaultLimit
	}
	if n > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return n
}

func roundScore(s float64) float64 {
	return math.Round(s*1000) / 1000
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrEventNotFound,
		domain.ErrEmbeddingProviderError,
		domain.ErrGeneratorError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
