// Package api implements HTTP handlers for the coin exchange rate service.
package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid coin code format"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// formatTime renders an optional timestamp as RFC3339, or nil when absent.
func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// derefStr returns the string value of a pointer, or an empty string if nil.
func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
