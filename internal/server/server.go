// Package server exposes the workflow planner as an HTTP JSON API with a
// WebSocket progress stream.
package server

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sudslabs/suds/internal/engine"
)

// maxRequestBody caps the plan request payload at 64 KiB. Scenario
// requests are small; anything larger is malformed or hostile.
const maxRequestBody = 64 << 10

// Server handles HTTP requests against one planning engine.
type Server struct {
	engine *engine.Engine
	logger *slog.Logger
}

// New creates a server. logger may be nil.
func New(eng *engine.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{engine: eng, logger: logger}
}

// Handler returns the full route tree wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/workflows", s.handlePlan)
	mux.HandleFunc("GET /v1/methods", s.handleMethods)
	mux.HandleFunc("GET /v1/scenarios/similar", s.handleSimilar)
	mux.HandleFunc("GET /v1/corpus/stats", s.handleStats)
	mux.HandleFunc("GET /v1/documents/{id}", s.handleDocument)
	mux.HandleFunc("GET /v1/workflows/stream", s.handleStream)
	mux.HandleFunc("GET /health", s.handleHealth)
	return requestLogging(s.logger, mux)
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error            string              `json:"error"`
	Message          string              `json:"message"`
	Detail           *engine.ErrorDetail `json:"details,omitempty"`
	Suggestions      []engine.Suggestion `json:"suggestions,omitempty"`
	AvailableMethods []string            `json:"available_methods,omitempty"`
	RetryAfter       int                 `json:"retry_after,omitempty"`
	RequestID        string              `json:"request_id"`
	Timestamp        string              `json:"timestamp"`
}

func errorBody(pe *engine.Error, requestID string) *ErrorBody {
	return &ErrorBody{
		Error:            string(pe.Code),
		Message:          pe.Message,
		Detail:           pe.Detail,
		Suggestions:      pe.Suggestions,
		AvailableMethods: pe.AvailableMethods,
		RetryAfter:       pe.RetryAfter,
		RequestID:        requestID,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}
}

// statusFor maps planner error codes to HTTP statuses.
func statusFor(code engine.Code) int {
	switch code {
	case engine.CodeValidation:
		return http.StatusBadRequest
	case engine.CodeNoMatch:
		return http.StatusNotFound
	case engine.CodeConstraintConflict, engine.CodeInsufficientSteps:
		return http.StatusUnprocessableEntity
	case engine.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	pe := engine.AsError(err)
	status := statusFor(pe.Code)
	if pe.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(pe.RetryAfter))
	}
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "code", pe.Code, "error", pe)
	}
	writeJSON(w, status, errorBody(pe, requestID(r)))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(&engine.Error{
			Code:    engine.CodeValidation,
			Message: fmt.Sprintf("Invalid request body: %v", err),
		}, requestID(r)))
		return
	}

	wf, err := s.engine.Plan(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	surface := r.URL.Query().Get("surface")
	dirt := r.URL.Query().Get("dirt")
	candidates, err := s.engine.RankMethods(r.Context(), surface, dirt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"surface_type": surface,
		"dirt_type":    dirt,
		"candidates":   candidates,
	})
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 10
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 50 {
			writeJSON(w, http.StatusBadRequest, errorBody(&engine.Error{
				Code:    engine.CodeValidation,
				Message: fmt.Sprintf("Invalid limit %q: must be an integer between 1 and 50", raw),
				Detail:  &engine.ErrorDetail{Parameter: "limit", Value: raw, Max: 50},
			}, requestID(r)))
			return
		}
		limit = n
	}

	scenarios, err := s.engine.Similar(r.Context(), q.Get("surface"), q.Get("dirt"), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": scenarios})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.CorpusStats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"corpus":  stats,
		"metrics": s.engine.Metrics().Snapshot(),
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.engine.Document(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func shortRequestID() string {
	id := uuid.New()
	return "req-" + hex.EncodeToString(id[:4])
}
