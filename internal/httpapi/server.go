package httpapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"luna_assistant/internal/llm"
	"luna_assistant/internal/logger"
	"luna_assistant/internal/model"
	"luna_assistant/internal/observability"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Assistant is the core boundary served over HTTP
type Assistant interface {
	Handle(ctx context.Context, sessionID, utterance string) (*model.Result, error)
	NewSession(ctx context.Context) (string, error)
	Preferences(ctx context.Context, sessionID string) (model.PreferenceSet, error)
	History(ctx context.Context, sessionID string) ([]*schema.Message, error)
	ClearPreferences(ctx context.Context, sessionID string) error
	ClearHistory(ctx context.Context, sessionID string) error
	EndSession(ctx context.Context, sessionID string) error
	Catalog() []model.Item
}

// Check is one dependency /readyz waits on. A failure is reported with the
// code "<Name>_unavailable".
type Check struct {
	Name    string
	Checker llm.Checker
}

const maxBodyBytes = 64 << 10

type Server struct {
	assistant Assistant
	checks    []Check
	metrics   *observability.Metrics
}

func New(assistant Assistant, metrics *observability.Metrics, checks ...Check) *Server {
	return &Server{
		assistant: assistant,
		checks:    checks,
		metrics:   metrics,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		s.metrics.Handler().ServeHTTP(w, r)
	})

	r.Get("/v1/catalog", s.handleCatalog)
	r.Post("/v1/sessions", s.handleCreateSession)
	r.Route("/v1/sessions/{id}", func(r chi.Router) {
		r.Delete("/", s.handleEndSession)
		r.Post("/messages", s.handleMessage)
		r.Get("/preferences", s.handleGetPreferences)
		r.Delete("/preferences", s.handleClearPreferences)
		r.Get("/history", s.handleGetHistory)
		r.Delete("/history", s.handleClearHistory)
	})

	return r
}

type messageRequest struct {
	Text string `json:"text"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

type historyTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	for _, c := range s.checks {
		if c.Checker == nil {
			continue
		}
		if err := c.Checker.Check(ctx); err != nil {
			logger.Warn().Err(err).Str("check", c.Name).Msg("readiness check failed")
			respondError(w, http.StatusServiceUnavailable, c.Name+"_unavailable", err.Error())
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"items": s.assistant.Catalog()})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.assistant.NewSession(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_error", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, createSessionResponse{SessionID: id})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "request_too_large", err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}

	result, err := s.assistant.Handle(r.Context(), id, req.Text)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	prefs, err := s.assistant.Preferences(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}

func (s *Server) handleClearPreferences(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := s.assistant.ClearPreferences(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	history, err := s.assistant.History(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	turns := make([]historyTurn, 0, len(history))
	for _, msg := range history {
		turns = append(turns, historyTurn{Role: string(msg.Role), Content: msg.Content})
	}
	respondJSON(w, http.StatusOK, map[string]any{"turns": turns})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := s.assistant.ClearHistory(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEndSession drops the session with its preferences and history
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := s.assistant.EndSession(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, model.ErrDelegate):
		respondError(w, http.StatusBadGateway, "delegate_failure", err.Error())
	default:
		logger.Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "missing session id")
		return "", false
	}
	return id, true
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return errEmptyBody
	}
	return sonic.Unmarshal(data, out)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int64("elapsed_ms", time.Since(start).Milliseconds()).
			Msg("http request")
	})
}
