package api

import (
	"net/http"

	"rmcom/api/router/handlers"
	"rmcom/logger"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the HTTP router for the API.
// All registered paths are relative to the /api base path.
func NewRouter() http.Handler {
	router := chi.NewRouter()

	handlers.RegisterHealthRoutes(router)
	handlers.RegisterRunRoutes(router)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		logger.Error("API ROUTER CATCH-ALL: Unhandled route relative to /api: %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	})

	return router
}
