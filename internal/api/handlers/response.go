package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Harikishanth/HealBee-AI/internal/infrastructure/observability"
)

func respondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	respondWithJSON(w, r, statusCode, map[string]string{
		"error": message,
	})
}
