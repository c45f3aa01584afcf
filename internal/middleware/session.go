package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brixwork/portal-server/internal/model"
	"github.com/brixwork/portal-server/internal/repository"
	"github.com/brixwork/portal-server/internal/util"
)

const (
	PortalSessionCookie = "portal_session"
	SessionMaxAge       = 24 * time.Hour
)

type contextKey string

const PortalSessionContextKey contextKey = "portalSession"

func GetPortalSession(ctx context.Context) *model.PortalSession {
	if session, ok := ctx.Value(PortalSessionContextKey).(*model.PortalSession); ok {
		return session
	}
	return nil
}

// PortalSessionMiddleware authenticates portal requests off the session
// cookie and puts the session on the request context. Requests without a
// valid session are rejected with 401.
type PortalSessionMiddleware struct {
	sessionRepo   repository.PortalSessionRepository
	sessionSecret string
}

func NewPortalSessionMiddleware(
	sessionRepo repository.PortalSessionRepository,
	sessionSecret string,
) *PortalSessionMiddleware {
	return &PortalSessionMiddleware{
		sessionRepo:   sessionRepo,
		sessionSecret: sessionSecret,
	}
}

func (m *PortalSessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(PortalSessionCookie)
		if err != nil || cookie.Value == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Unauthorized",
			})
			return
		}

		tokenHash := util.HmacSHA256(m.sessionSecret, cookie.Value)
		session, err := m.sessionRepo.FindByTokenHash(r.Context(), tokenHash)
		if err != nil {
			log.Error().Err(err).Msg("portal session middleware: database error")
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Session validation failed",
			})
			return
		}

		if session == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Unauthorized",
			})
			return
		}

		ctx := context.WithValue(r.Context(), PortalSessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SetSessionCookie(w http.ResponseWriter, name, token string, path string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     path,
		MaxAge:   int(SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   path,
		MaxAge: -1,
	})
}
