package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/brixwork/portal-server/internal/audit"
	apperrors "github.com/brixwork/portal-server/internal/errors"
	"github.com/brixwork/portal-server/internal/middleware"
	"github.com/brixwork/portal-server/internal/service"
)

// PortalHandler serves the client-facing portal API: token views, login,
// logout, identity, and the session job listing.
type PortalHandler struct {
	portalService *service.PortalService
	authService   *service.AuthService
	loginLimiter  *middleware.LoginRateLimiter
	sessionMW     *middleware.PortalSessionMiddleware
	isProduction  bool
}

func NewPortalHandler(
	portalService *service.PortalService,
	authService *service.AuthService,
	sessionMW *middleware.PortalSessionMiddleware,
	isProduction bool,
) *PortalHandler {
	return &PortalHandler{
		portalService: portalService,
		authService:   authService,
		loginLimiter:  middleware.NewLoginRateLimiter(),
		sessionMW:     sessionMW,
		isProduction:  isProduction,
	}
}

func (h *PortalHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/api/view/{token}", h.ViewByToken)
	r.With(h.loginLimiter.Handler).Post("/api/login", h.Login)
	r.Post("/api/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(h.sessionMW.Handler)
		r.Get("/api/me", h.Me)
		r.Get("/api/jobs", h.ListJobs)
	})

	return r
}

// GET /portal/api/view/{token}
func (h *PortalHandler) ViewByToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeError(w, apperrors.MissingRequired("token"))
		return
	}

	view, err := h.portalService.ResolveByToken(r.Context(), token)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeTokenNotFound {
			audit.LogFromRequest(r, audit.Event{Type: audit.EventTokenRejected})
		} else {
			log.Error().Err(err).Msg("failed to resolve portal token")
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// POST /portal/api/login
func (h *PortalHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, apperrors.AuthFailed())
		return
	}

	token, session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeAuthFailed {
			audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginFailure})
		} else {
			log.Error().Err(err).Msg("portal login failed")
		}
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginSuccess, ContactID: session.ContactID})
	middleware.SetSessionCookie(w, middleware.PortalSessionCookie, token, "/portal", h.isProduction)

	writeJSON(w, http.StatusOK, map[string]any{
		"identity": session.Identity(),
	})
}

// POST /portal/api/logout
func (h *PortalHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.PortalSessionCookie)
	if err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			log.Error().Err(err).Msg("portal logout failed")
		} else {
			audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout})
		}
	}

	middleware.ClearSessionCookie(w, middleware.PortalSessionCookie, "/portal")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GET /portal/api/me
func (h *PortalHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetPortalSession(r.Context())
	if session == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"identity": session.Identity(),
	})
}

// GET /portal/api/jobs
func (h *PortalHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetPortalSession(r.Context())
	if session == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		return
	}

	views, err := h.portalService.ResolveBySession(r.Context(), session.ContactID)
	if err != nil {
		log.Error().Err(err).Str("contactId", session.ContactID).Msg("failed to list portal jobs")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  views,
		"total": len(views),
	})
}
