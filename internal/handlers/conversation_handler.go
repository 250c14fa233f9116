// File: internal/handlers/conversation_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/dtos"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/middleware"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/repository/audio"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services"
)

// Recorded clips are short; anything beyond this is not speech.
const maxAudioUploadBytes = 10 << 20

// ConversationHandler serves the per-user conversation sync surface.
type ConversationHandler struct {
	ConversationService *services.ConversationService
	MessageService      *services.MessageService
}

func NewConversationHandler(cs *services.ConversationService, ms *services.MessageService) *ConversationHandler {
	return &ConversationHandler{ConversationService: cs, MessageService: ms}
}

// GetConversations lists the user's conversations, most recent first.
func (h *ConversationHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(uint)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	convs, err := h.ConversationService.GetUserConversations(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not retrieve conversations", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

// CreateConversation starts a new thread for the user.
func (h *ConversationHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(uint)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.CreateConversationRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	conv, err := h.ConversationService.CreateConversation(r.Context(), userID, req.Title)
	if err != nil {
		writeError(w, "Could not create conversation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

// GetMessages returns a conversation's messages with resolved audio URLs.
func (h *ConversationHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, convID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	msgs, err := h.ConversationService.GetMessages(r.Context(), userID, convID)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			writeError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not retrieve messages", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewMessageViews(msgs))
}

// DeleteConversation removes the conversation, its messages, and every
// referenced audio object.
func (h *ConversationHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	userID, convID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	if err := h.ConversationService.DeleteConversation(r.Context(), userID, convID); err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			writeError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not delete conversation", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostMessage runs one utterance through the pipeline and persists the
// resulting turn pair. A conversation ID of 0 creates a thread on demand.
func (h *ConversationHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(uint)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	convID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	var req dtos.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Ownership is checked before the pipeline so a foreign conversation
	// cannot burn a remote completion just to be rejected.
	if err := h.ConversationService.Authorize(r.Context(), userID, uint(convID)); err != nil {
		writeError(w, "Conversation not found", http.StatusNotFound)
		return
	}

	result, err := h.MessageService.Process(r.Context(), req.Text, req.SessionID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyText) {
			writeError(w, "Text is required", http.StatusBadRequest)
			return
		}
		writeError(w, "Could not process message", http.StatusInternalServerError)
		return
	}

	userMsg, aiMsg, err := h.ConversationService.AppendTurn(r.Context(), userID, uint(convID), result)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			writeError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not persist messages", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"pipeline":    result,
		"userMessage": dtos.NewMessageView(*userMsg),
		"aiMessage":   dtos.NewMessageView(*aiMsg),
	})
}

// GetAudio serves stored audio bytes for a message of the conversation.
func (h *ConversationHandler) GetAudio(w http.ResponseWriter, r *http.Request) {
	userID, convID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}
	key := mux.Vars(r)["key"]

	payload, err := h.ConversationService.GetAudio(r.Context(), userID, convID, key)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthorized):
			writeError(w, "Conversation not found", http.StatusNotFound)
		case errors.Is(err, audio.ErrAudioNotFound):
			writeError(w, "Audio not found", http.StatusNotFound)
		default:
			writeError(w, "Could not retrieve audio", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// PutAudio stores a recorded clip for a message of the conversation. The
// key path segment is the message ID; the stored key is derived from it.
func (h *ConversationHandler) PutAudio(w http.ResponseWriter, r *http.Request) {
	userID, convID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}

	messageID, err := strconv.ParseUint(mux.Vars(r)["messageId"], 10, 32)
	if err != nil {
		writeError(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxAudioUploadBytes+1))
	if err != nil || len(payload) == 0 {
		writeError(w, "Audio payload is required", http.StatusBadRequest)
		return
	}
	if len(payload) > maxAudioUploadBytes {
		writeError(w, "Audio payload too large", http.StatusRequestEntityTooLarge)
		return
	}

	key, err := h.ConversationService.AttachAudio(r.Context(), userID, convID, uint(messageID), payload)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			writeError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not store audio", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"audioKey": key})
}

// pathIDs pulls the authenticated user and the conversation ID from the
// request, writing the error response itself on failure.
func (h *ConversationHandler) pathIDs(w http.ResponseWriter, r *http.Request) (uint, uint, bool) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(uint)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}

	convID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, uint(convID), true
}
