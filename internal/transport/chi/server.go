// Package chi exposes the discovery core over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/amora-labs/amora/internal/db"
	"github.com/amora-labs/amora/internal/domain"
	"github.com/amora-labs/amora/internal/domain/profile"
	compatuc "github.com/amora-labs/amora/internal/usecase/compat"
	directoryuc "github.com/amora-labs/amora/internal/usecase/directory"
	sessionuc "github.com/amora-labs/amora/internal/usecase/session"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes HTTP requests to the session, directory, and compatibility
// usecases.
type Server struct {
	sessions      *sessionuc.Registry
	directory     *directoryuc.Service
	compat        *compatuc.Service
	pinger        db.Pinger
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	sessions *sessionuc.Registry,
	directory *directoryuc.Service,
	compat *compatuc.Service,
	pinger db.Pinger,
	logger *zap.Logger,
) *Server {
	s := &Server{
		sessions:  sessions,
		directory: directory,
		compat:    compat,
		pinger:    pinger,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrProfileNotFound, http.StatusNotFound, codeProfileNotFound),
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, codeSessionNotFound),
		sentinelHandler(domain.ErrResponsesNotFound, http.StatusNotFound, codeResponsesNotFound),
		sentinelHandler(domain.ErrNoOverlap, http.StatusUnprocessableEntity, codeNoOverlap),
		sentinelHandler(domain.ErrInvalidResponse, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidFilters, http.StatusBadRequest, codeValidationFailed),
	}
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", s.StartSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.EndSession)
			r.Post("/refresh", s.RefreshFeed)
			r.Post("/query", s.UpdateQuery)
			r.Post("/load-more", s.LoadMore)
			r.Post("/like", s.Like)
			r.Post("/pass", s.Pass)
			r.Post("/advance", s.Advance)
		})

		r.Put("/profiles/{profileID}", s.UpsertProfile)
		r.Get("/profiles/{profileID}", s.GetProfile)
		r.Delete("/profiles/{profileID}", s.DeleteProfile)

		r.Put("/responses/{userID}", s.SaveResponses)
		r.Get("/responses/{userID}", s.GetResponses)

		r.Get("/compatibility/{userID1}/{userID2}", s.GetCompatibility)
		r.Get("/catalog", s.GetCatalog)
	})
}

// StartSession handles POST /v1/sessions.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "user_id is required")
		return
	}

	sess := s.sessions.Start(req.UserID)
	if req.Filters != nil {
		sess.Feed().Refresh(r.Context(), filtersFromRequest(*req.Filters))
	}
	writeJSON(w, http.StatusCreated, sessionToResponse(sess))
}

// GetSession handles GET /v1/sessions/{sessionID}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// EndSession handles DELETE /v1/sessions/{sessionID}.
func (s *Server) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.End(chi.URLParam(r, "sessionID")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RefreshFeed handles POST /v1/sessions/{sessionID}/refresh.
func (s *Server) RefreshFeed(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var req filtersRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	sess.Feed().Refresh(r.Context(), filtersFromRequest(req))
	writeJSON(w, http.StatusOK, feedToResponse(sess.Feed().Snapshot()))
}

// UpdateQuery handles POST /v1/sessions/{sessionID}/query.
func (s *Server) UpdateQuery(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sess.Feed().UpdateQuery(r.Context(), req.Query)
	writeJSON(w, http.StatusOK, feedToResponse(sess.Feed().Snapshot()))
}

// LoadMore handles POST /v1/sessions/{sessionID}/load-more.
func (s *Server) LoadMore(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sess.Feed().LoadMore(r.Context())
	writeJSON(w, http.StatusOK, feedToResponse(sess.Feed().Snapshot()))
}

// Like handles POST /v1/sessions/{sessionID}/like.
func (s *Server) Like(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	target, ok, badReq := s.swipeTarget(w, r, sess)
	if badReq {
		return
	}
	if !ok {
		s.handleDomainError(w, domain.ErrProfileNotFound)
		return
	}

	if err := sess.Swipe().Like(r.Context(), target); err != nil {
		s.logger.Warn("like failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, codeInternalError, "interest could not be sent, try again")
		return
	}
	writeJSON(w, http.StatusOK, swipeToResponse(sess.Swipe().Snapshot()))
}

// Pass handles POST /v1/sessions/{sessionID}/pass.
func (s *Server) Pass(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	target, ok, badReq := s.swipeTarget(w, r, sess)
	if badReq {
		return
	}
	if !ok {
		s.handleDomainError(w, domain.ErrProfileNotFound)
		return
	}

	sess.Swipe().Pass(target)
	writeJSON(w, http.StatusOK, swipeToResponse(sess.Swipe().Snapshot()))
}

// Advance handles POST /v1/sessions/{sessionID}/advance.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sess.Swipe().Advance(r.Context())
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// UpsertProfile handles PUT /v1/profiles/{profileID}.
func (s *Server) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "display_name is required")
		return
	}

	p := profileFromRequest(chi.URLParam(r, "profileID"), req)
	if err := s.directory.UpsertProfile(r.Context(), p); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileToResponse(&p))
}

// GetProfile handles GET /v1/profiles/{profileID}.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.directory.GetProfile(r.Context(), chi.URLParam(r, "profileID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileToResponse(&p))
}

// DeleteProfile handles DELETE /v1/profiles/{profileID}.
func (s *Server) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.directory.DeleteProfile(r.Context(), chi.URLParam(r, "profileID")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveResponses handles PUT /v1/responses/{userID}.
func (s *Server) SaveResponses(w http.ResponseWriter, r *http.Request) {
	var req responsesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	answers, err := answersFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	rs, err := s.directory.SaveResponses(r.Context(), chi.URLParam(r, "userID"), answers)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, responsesToResponse(&rs, s.compat.Completeness(rs)))
}

// GetResponses handles GET /v1/responses/{userID}.
func (s *Server) GetResponses(w http.ResponseWriter, r *http.Request) {
	rs, err := s.directory.GetResponses(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, responsesToResponse(&rs, s.compat.Completeness(rs)))
}

// GetCompatibility handles GET /v1/compatibility/{userID1}/{userID2}.
func (s *Server) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	a, err := s.directory.GetResponses(r.Context(), chi.URLParam(r, "userID1"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	b, err := s.directory.GetResponses(r.Context(), chi.URLParam(r, "userID2"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	score, err := s.compat.Score(a, b)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreToResponse(&score))
}

// GetCatalog handles GET /v1/catalog.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	c := s.compat.Catalog()
	writeJSON(w, http.StatusOK, catalogToResponse(&c))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"redis": "ok"}
	status := "healthy"
	httpStatus := http.StatusOK

	if err := s.pinger.Ping(r.Context()); err != nil {
		checks["redis"] = "unavailable"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{Status: status, Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// session resolves the session named in the URL.
func (s *Server) session(r *http.Request) (*sessionuc.Session, error) {
	return s.sessions.Get(chi.URLParam(r, "sessionID"))
}

// swipeTarget decodes the target profile id and resolves it in the session's
// feed. badReq is true when the request was malformed and a response has
// already been written.
func (s *Server) swipeTarget(
	w http.ResponseWriter, r *http.Request, sess *sessionuc.Session,
) (target profile.Summary, ok, badReq bool) {
	var req swipeTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return target, false, true
	}
	if req.ProfileID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "profile_id is required")
		return target, false, true
	}

	snap := sess.Feed().Snapshot()
	for i := range snap.Items {
		if snap.Items[i].ID() == req.ProfileID {
			return snap.Items[i], true, false
		}
	}
	return target, false, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrProfileNotFound,
		domain.ErrSessionNotFound,
		domain.ErrResponsesNotFound,
		domain.ErrNoOverlap,
		domain.ErrInvalidResponse,
		domain.ErrInvalidFilters,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
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
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
