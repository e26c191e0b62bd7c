package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const sessionIDHeader = "X-Session-Id"

// CartSession resolves the anonymous cart identity. Authenticated requests
// carry their user id instead, so the session token only matters when no
// claims were seeded. A missing token is minted and echoed back so the
// client can persist it.
func CartSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFromContext(r.Context()) != "" {
				next.ServeHTTP(w, r)
				return
			}

			sessionID := strings.TrimSpace(r.Header.Get(sessionIDHeader))
			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			w.Header().Set(sessionIDHeader, sessionID)

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
		})
	}
}
