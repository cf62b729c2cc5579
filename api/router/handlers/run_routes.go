package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterRunRoutes(r chi.Router) {
	// GET /runs?limit=N
	r.Get("/runs", ListRunsHandler)

	// GET /runs/{runID}
	r.Get("/runs/{runID}", GetRunHandler)

	// GET /runs/{runID}/comments
	r.Get("/runs/{runID}/comments", GetRunCommentsHandler)
}
