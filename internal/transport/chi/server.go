package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sentimentd/internal/domain"
	"github.com/kailas-cloud/sentimentd/internal/domain/history"
	feedbackuc "github.com/kailas-cloud/sentimentd/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/sentimentd/internal/usecase/health"
	sentimentuc "github.com/kailas-cloud/sentimentd/internal/usecase/sentiment"
	sessionuc "github.com/kailas-cloud/sentimentd/internal/usecase/session"
)

// SessionHeader carries the API session id in both directions.
const SessionHeader = "X-Session-ID"

const maxBodyBytes = 64 << 10

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest       = "bad_request"
	CodeEmptyInput       = "empty_input"
	CodeEmptyFeedback    = "empty_feedback"
	CodeSessionNotFound  = "session_not_found"
	CodeVectorizerFailed = "vectorizer_error"
	CodeInternalError    = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TextRequest is the body of normalize, analyze and feedback calls.
type TextRequest struct {
	Text string `json:"text"`
}

// NormalizeResponse is returned by POST /api/v1/normalize.
type NormalizeResponse struct {
	Cleaned string `json:"cleaned"`
}

// AnalyzeResponse is returned by POST /api/v1/analyze.
type AnalyzeResponse struct {
	SessionID  string  `json:"session_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	AnalyzedAt string  `json:"analyzed_at"`
}

// HistoryItem is one analysis in a history listing.
type HistoryItem struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	AnalyzedAt string  `json:"analyzed_at"`
}

// HistoryResponse is returned by GET /api/v1/history. Items are newest first.
type HistoryResponse struct {
	SessionID string        `json:"session_id"`
	Items     []HistoryItem `json:"items"`
	Total     int           `json:"total"`
}

// SessionResponse is returned by POST /api/v1/sessions.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// FeedbackResponse acknowledges accepted feedback.
type FeedbackResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the JSON API.
type Server struct {
	sentiment     *sentimentuc.Service
	sessions      *sessionuc.Store
	feedback      *feedbackuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	sentiment *sentimentuc.Service,
	sessions *sessionuc.Store,
	feedback *feedbackuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		sentiment: sentiment,
		sessions:  sessions,
		feedback:  feedback,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyInput, http.StatusUnprocessableEntity, CodeEmptyInput),
		sentinelHandler(domain.ErrEmptyFeedback, http.StatusUnprocessableEntity, CodeEmptyFeedback),
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound),
		sentinelHandler(domain.ErrVectorizer, http.StatusBadGateway, CodeVectorizerFailed),
	}
	return s
}

// Normalize handles POST /api/v1/normalize.
func (s *Server) Normalize(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NormalizeResponse{Cleaned: s.sentiment.Normalize(req.Text)})
}

// Analyze handles POST /api/v1/analyze.
// Without X-Session-ID a new session is started and its id returned in the header.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}

	sess, err := s.apiSession(w, r, true)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.sentiment.Analyze(withSessionLogger(r, s.logger, sess.ID()), sess.History(), req.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		SessionID:  sess.ID(),
		Label:      string(res.Label()),
		Confidence: res.Confidence(),
		AnalyzedAt: res.AnalyzedAt().Format(domain.TimestampLayout),
	})
}

// History handles GET /api/v1/history?limit=N.
func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid limit parameter")
		return
	}
	if limit != nil && *limit < 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "limit must not be negative")
		return
	}

	sess, err := s.apiSession(w, r, false)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	h := sess.History()
	var entries []history.Entry
	if limit != nil {
		entries = h.Latest(*limit)
	} else {
		entries = h.Entries()
	}

	items := make([]HistoryItem, len(entries))
	for i, e := range entries {
		items[i] = historyItem(e)
	}

	writeJSON(w, http.StatusOK, HistoryResponse{
		SessionID: sess.ID(),
		Items:     items,
		Total:     h.Len(),
	})
}

// CreateSession handles POST /api/v1/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.sessions.Create()
	w.Header().Set(SessionHeader, sess.ID())
	writeJSON(w, http.StatusCreated, SessionResponse{SessionID: sess.ID()})
}

// EndSession handles DELETE /api/v1/sessions/current. The history is discarded.
func (s *Server) EndSession(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		s.handleDomainError(w, domain.ErrSessionNotFound)
		return
	}
	if err := s.sessions.End(id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitFeedback handles POST /api/v1/feedback.
func (s *Server) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeText(w, r)
	if !ok {
		return
	}
	if err := s.feedback.Submit(r.Context(), req.Text); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, FeedbackResponse{Message: FeedbackThanks})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// apiSession resolves the session named by X-Session-ID.
// With create set, a missing header starts a new session; an unknown id is always an error.
func (s *Server) apiSession(w http.ResponseWriter, r *http.Request, create bool) (*sessionuc.Session, error) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		if !create {
			return nil, domain.ErrSessionNotFound
		}
		sess := s.sessions.Create()
		w.Header().Set(SessionHeader, sess.ID())
		return sess, nil
	}

	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err //nolint:wrapcheck // sentinel from session store
	}
	w.Header().Set(SessionHeader, sess.ID())
	return sess, nil
}

func historyItem(e history.Entry) HistoryItem {
	return HistoryItem{
		Text:       e.Text(),
		Label:      string(e.Label()),
		Confidence: e.Confidence(),
		AnalyzedAt: e.Timestamp(),
	}
}

func decodeText(w http.ResponseWriter, r *http.Request) (TextRequest, bool) {
	var req TextRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return TextRequest{}, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyInput,
		domain.ErrEmptyFeedback,
		domain.ErrSessionNotFound,
		domain.ErrVectorizer,
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
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
