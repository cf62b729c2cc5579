package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"rmcom/database"
	"rmcom/logger"
	"rmcom/models"

	"github.com/go-chi/chi/v5"
)

// ListRunsHandler returns the most recent runs, newest first.
// The optional ?limit query parameter caps the result count.
func ListRunsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			logger.Error("ListRunsHandler: Invalid limit '%s'", limitStr)
			respondWithError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	runs, err := database.ListRuns(limit)
	if err != nil {
		logger.Error("ListRunsHandler: Error listing runs: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve runs")
		return
	}
	if runs == nil {
		runs = []models.Run{}
	}
	respondWithJSON(w, http.StatusOK, runs)
}

// GetRunHandler returns a single run by its ID.
func GetRunHandler(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	run, err := database.GetRunByID(runID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondWithError(w, http.StatusNotFound, "Run not found")
			return
		}
		logger.Error("GetRunHandler: Error fetching run %s: %v", runID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve run")
		return
	}
	respondWithJSON(w, http.StatusOK, run)
}

// GetRunCommentsHandler returns every comment removed during a run.
func GetRunCommentsHandler(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	if _, err := database.GetRunByID(runID); err != nil {
		if err == sql.ErrNoRows {
			respondWithError(w, http.StatusNotFound, "Run not found")
			return
		}
		logger.Error("GetRunCommentsHandler: Error fetching run %s: %v", runID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve run")
		return
	}

	records, err := database.GetRemovalsForRun(runID)
	if err != nil {
		logger.Error("GetRunCommentsHandler: Error fetching removals for run %s: %v", runID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve removed comments")
		return
	}
	if records == nil {
		records = []models.RemovalRecord{}
	}
	respondWithJSON(w, http.StatusOK, records)
}
