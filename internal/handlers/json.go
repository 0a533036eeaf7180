package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("write json response failed", "status", status, "error", err)
	}
}

// writeError sends {"message": msg} with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg})
}
