package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func renderJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("serving json", "error", err)
	}
}

func renderError(w http.ResponseWriter, code int, reqErr error) {
	if code >= http.StatusInternalServerError {
		slog.Error("request failed", "status", code, "error", reqErr)
	}
	renderJSON(w, code, map[string]string{"error": reqErr.Error()})
}
