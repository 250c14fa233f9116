// File: internal/handlers/message_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/dtos"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services/ai"
)

// MessageHandler serves the stateless correction/reply pipeline.
type MessageHandler struct {
	MessageService *services.MessageService
}

func NewMessageHandler(ms *services.MessageService) *MessageHandler {
	return &MessageHandler{MessageService: ms}
}

// HandleMessage runs one utterance through correction and reply generation.
func (h *MessageHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req dtos.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.MessageService.Process(r.Context(), req.Text, req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyText):
			writeError(w, "Text is required", http.StatusBadRequest)
		case ai.IsQuotaError(err):
			writeError(w, "Service is temporarily over capacity", http.StatusTooManyRequests)
		case ai.IsAuthError(err):
			writeError(w, "Upstream authentication failed", http.StatusUnauthorized)
		default:
			writeError(w, "Could not process message", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}
