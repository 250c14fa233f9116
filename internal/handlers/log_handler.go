// File: internal/handlers/log_handler.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// frontendEvent is a client-side event the browser reports for debugging:
// recognition warnings, capture rejections, playback failures.
type frontendEvent struct {
	Level   string                 `json:"level"`
	Event   string                 `json:"event"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// LogFrontendEvent records a client-reported event in the server log.
func LogFrontendEvent(w http.ResponseWriter, r *http.Request) {
	var event frontendEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if event.Event == "" {
		writeError(w, "Event name is required", http.StatusBadRequest)
		return
	}

	log.Printf("[Frontend] %s %s: %s %v", event.Level, event.Event, event.Message, event.Fields)
	w.WriteHeader(http.StatusNoContent)
}
