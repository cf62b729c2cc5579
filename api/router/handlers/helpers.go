package handlers

import (
	"encoding/json"
	"net/http"

	"rmcom/logger"
	"rmcom/models"
)

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, models.ErrorResponse{Message: message})
}
