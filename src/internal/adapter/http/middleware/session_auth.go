package middleware

import (
	"net/http"
	"strings"

	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/logger"
	"github.com/api-sage/bankist/src/internal/session"
)

type Authenticator interface {
	Authenticate(token string) (*session.Session, error)
}

// SessionAuth resolves the bearer token to a live session and stores it in
// the request context. With allowQuery the token may instead arrive as the
// "token" query parameter, which browsers need for WebSocket upgrades.
func SessionAuth(auth Authenticator, allowQuery bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" && allowQuery {
				token = strings.TrimSpace(r.URL.Query().Get("token"))
			}
			if token == "" {
				unauthorized(w, r, "missing session token")
				return
			}

			sess, err := auth.Authenticate(token)
			if err != nil {
				logger.Info("session auth middleware rejected token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"reason": err.Error(),
				})
				unauthorized(w, r, "session not found")
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	logger.Info("session auth middleware unauthorized request", logger.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	})
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeFailure(w, http.StatusUnauthorized, commons.CodeSessionNotFound, message)
}
