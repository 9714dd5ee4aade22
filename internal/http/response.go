// Package http exposes the expense API: one endpoint per CRUD operation plus
// the monthly estimate, all speaking the uniform response envelope.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// envelope is the uniform response wrapper. data/message/error are omitted
// when empty, matching the wire format clients already consume.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// setCORSHeaders applies the permissive cross-origin policy every response
// carries.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, DELETE, PUT")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeEnvelope(w http.ResponseWriter, statusCode int, env envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("Failed to encode response envelope", "error", err)
	}
}

// respondData writes a success envelope with payload and optional message.
func respondData(w http.ResponseWriter, statusCode int, data any, message string) {
	writeEnvelope(w, statusCode, envelope{Success: true, Data: data, Message: message})
}

// respondError writes a failure envelope. detail is meant for validation
// messages only; persistence errors are logged server-side and never echoed.
func respondError(w http.ResponseWriter, statusCode int, message, detail string) {
	writeEnvelope(w, statusCode, envelope{Success: false, Message: message, Error: detail})
}

func respondMethodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	respondError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
}
