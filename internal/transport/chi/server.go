// Package chi exposes the search engine over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/homesearch/internal/domain"
	"github.com/kailas-cloud/homesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/homesearch/internal/domain/search/history"
	"github.com/kailas-cloud/homesearch/internal/domain/search/request"
	"github.com/kailas-cloud/homesearch/internal/domain/search/result"
	"github.com/kailas-cloud/homesearch/internal/domain/search/suggestion"
	logpkg "github.com/kailas-cloud/homesearch/internal/logger"
	"github.com/kailas-cloud/homesearch/internal/metrics"
	healthuc "github.com/kailas-cloud/homesearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/homesearch/internal/usecase/search"
)

// Error codes returned in error bodies.
const (
	CodeBadRequest     = "bad_request"
	CodeUnauthorized   = "unauthorized"
	CodeNotFound       = "not_found"
	CodeMethodNotAllow = "method_not_allowed"
)

// engine is the consumer interface of the search service (ISP).
type engine interface {
	Search(ctx context.Context, raw string, f filter.Set, opts request.Options) (result.Aggregate, error)
	AdvancedSearch(ctx context.Context, c request.Criteria) (result.Aggregate, error)
	QuickSearch(ctx context.Context, rawPrefix string, limit int) []suggestion.Suggestion
	History(userID string, limit int) []history.Item
	ClearHistory(userID string)
	ClearCache()
	Statistics() searchuc.Statistics
}

type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server serves the search API.
type Server struct {
	engine   engine
	health   healthChecker
	session  searchuc.SessionProvider
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(e engine, health healthChecker, sess searchuc.SessionProvider, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:   e,
		health:   health,
		session:  sess,
		gatherer: prometheus.DefaultGatherer,
		logger:   logger,
	}
}

// WithGatherer sets the registry exposed on /metrics.
func (s *Server) WithGatherer(g prometheus.Gatherer) *Server {
	s.gatherer = g
	return s
}

// Handler builds the router. tokens maps bearer tokens to users; requests
// without a token reach the engine anonymously.
func (s *Server) Handler(tokens map[string]domain.User) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(tokens))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllow, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.Search)
		r.Post("/search/advanced", s.AdvancedSearch)
		r.Get("/suggest", s.Suggest)
		r.Get("/history", s.GetHistory)
		r.Delete("/history", s.DeleteHistory)
		r.Delete("/cache", s.DeleteCache)
		r.Get("/stats", s.Stats)
	})
	return r
}

// Search handles GET /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.session.CurrentUser(r.Context()); !ok {
		s.handleDomainError(w, r, domain.ErrAccessDenied)
		return
	}
	p, err := parseSearchParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	f, err := filter.New(p.filter)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	opts, err := request.NewOptions(p.useCache, p.sortBy, p.maxResults, p.strict)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.engine.Search(r.Context(), p.text, f, opts)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, aggregateToResponse(res))
}

// AdvancedSearch handles POST /api/v1/search/advanced.
func (s *Server) AdvancedSearch(w http.ResponseWriter, r *http.Request) {
	var req advancedSearchRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.engine.AdvancedSearch(r.Context(), req.criteria())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, aggregateToResponse(res))
}

// Suggest handles GET /api/v1/suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if _, ok := s.session.CurrentUser(r.Context()); !ok {
		s.handleDomainError(w, r, domain.ErrAccessDenied)
		return
	}

	items := s.engine.QuickSearch(r.Context(), r.URL.Query().Get("q"), limit)
	resp := suggestResponse{Suggestions: make([]suggestionDTO, len(items))}
	for i, it := range items {
		resp.Suggestions[i] = suggestionDTO{Text: it.Text, Source: string(it.Source), Score: it.Score}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetHistory handles GET /api/v1/history.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	user, ok := s.session.CurrentUser(r.Context())
	if !ok {
		s.handleDomainError(w, r, domain.ErrAccessDenied)
		return
	}

	items := s.engine.History(user.ID, limit)
	resp := historyResponse{Items: make([]historyItemDTO, len(items))}
	for i, it := range items {
		resp.Items[i] = historyItemDTO{Query: it.Query, Timestamp: it.Timestamp, CacheHit: it.CacheHit}
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteHistory handles DELETE /api/v1/history. It clears the caller's history only.
func (s *Server) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := s.session.CurrentUser(r.Context())
	if !ok {
		s.handleDomainError(w, r, domain.ErrAccessDenied)
		return
	}
	s.engine.ClearHistory(user.ID)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCache handles DELETE /api/v1/cache.
func (s *Server) DeleteCache(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.session.CurrentUser(r.Context()); !ok {
		s.handleDomainError(w, r, domain.ErrAccessDenied)
		return
	}
	s.engine.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/v1/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.session.CurrentUser(r.Context()); !ok {
		s.handleDomainError(w, r, domain.ErrAccessDenied)
		return
	}
	st := s.engine.Statistics()
	writeJSON(w, http.StatusOK, statsResponse{
		TotalSearches:      st.TotalSearches,
		UniqueUsers:        st.UniqueUsers,
		CacheSize:          st.CacheSize,
		CacheHitRate:       st.CacheHitRate,
		AvgSearchesPerUser: st.AvgSearchesPerUser,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// statusOf maps an error kind to its HTTP status.
func statusOf(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidQuery:
		return http.StatusBadRequest
	case domain.KindAccessDenied:
		return http.StatusUnauthorized
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	case domain.KindTooManyResults:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	kind := domain.KindOf(err)
	status := statusOf(kind)

	if status == http.StatusInternalServerError {
		log.Error("Internal error", zap.Error(err))
		writeError(w, status, string(domain.KindInternal), "internal error")
		return
	}
	log.Warn("Domain error", zap.String("kind", string(kind)), zap.Error(err))
	writeError(w, status, string(kind), err.Error())
}

func intParam(q map[string][]string, name string) (int, error) {
	vals := q[name]
	if len(vals) == 0 || vals[0] == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(vals[0])
	if err != nil || v < 0 {
		return 0, &paramError{name: name, value: vals[0]}
	}
	return v, nil
}
