package middleware

import (
	"net/http"
	"strings"

	"github.com/brixwork/portal-server/internal/audit"
	"github.com/brixwork/portal-server/internal/util"
)

// StaffKeyMiddleware guards staff-side endpoints with a shared bearer key.
// This is deliberately not a user system: staff identity management lives in
// the main application, this service only needs to keep its mutation surface
// off the open internet.
type StaffKeyMiddleware struct {
	apiKey string
}

func NewStaffKeyMiddleware(apiKey string) *StaffKeyMiddleware {
	return &StaffKeyMiddleware{apiKey: apiKey}
}

func (m *StaffKeyMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.apiKey == "" {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error": "Staff API not configured",
			})
			return
		}

		token := extractBearer(r)
		if token == "" || !util.ConstantTimeEqual(token, m.apiKey) {
			audit.LogFromRequest(r, audit.Event{Type: audit.EventStaffAuthFail})
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Unauthorized",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
