package router

import (
	"net/http"

	"github.com/api-sage/bankist/src/internal/adapter/http/middleware"
)

type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

// Group binds a set of routes to the middleware that guards them.
type Group struct {
	Routes RouteRegistrar
	Auth   func(http.Handler) http.Handler
}

func New(groups ...Group) http.Handler {
	mux := http.NewServeMux()
	registerSwaggerRoutes(mux)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	for _, group := range groups {
		if group.Routes == nil {
			continue
		}
		group.Routes.RegisterRoutes(mux, group.Auth)
	}

	return middleware.Chain(mux, middleware.CorrelationID, middleware.Recover)
}
