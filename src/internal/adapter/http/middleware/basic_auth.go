package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/logger"
)

// BasicAuth guards operator routes with the channel id and key.
func BasicAuth(channelID, channelKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if channelID == "" || channelKey == "" {
				logger.Error("operator auth missing channel credentials", nil, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				writeFailure(w, http.StatusInternalServerError, commons.CodeInternal, "operator access is not configured")
				return
			}

			id, key, ok := r.BasicAuth()
			if !ok || !secureEqual(id, channelID) || !secureEqual(key, channelKey) {
				logger.Warn("operator auth rejected", logger.Fields{
					"method":   r.Method,
					"path":     r.URL.Path,
					"clientIp": clientIP(r, false),
					"supplied": ok,
				})
				w.Header().Set("WWW-Authenticate", `Basic realm="bankist-ops"`)
				writeFailure(w, http.StatusUnauthorized, commons.CodeInvalidCredentials, "unauthorized")
				return
			}

			logger.Debug("operator auth accepted", logger.Fields{
				"method":  r.Method,
				"path":    r.URL.Path,
				"channel": id,
			})
			next.ServeHTTP(w, r)
		})
	}
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func writeFailure(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(commons.FailureResponse[struct{}](code, message))
}
