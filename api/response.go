package api

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("write response", "err", err)
	}
}

// writeError emits the uniform JSON error body used across the API.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, map[string]string{"message": message}, status)
}
