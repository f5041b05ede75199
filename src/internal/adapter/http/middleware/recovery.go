package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/api-sage/bankist/src/internal/logger"
)

func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("http handler panic", fmt.Errorf("%v", rec), logger.Fields{
					"method":        r.Method,
					"path":          r.URL.Path,
					"correlationId": CorrelationIDFrom(r.Context()),
					"stack":         string(debug.Stack()),
				})
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Chain applies middlewares so the first one listed runs first.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
