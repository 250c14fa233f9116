// File: internal/handlers/translate_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/dtos"
	"github.com/magicgoaldev-prog/ai-voice-chat/internal/services"
)

// TranslateHandler serves POST /api/translate.
type TranslateHandler struct {
	TranslateService *services.TranslateService
}

func NewTranslateHandler(ts *services.TranslateService) *TranslateHandler {
	return &TranslateHandler{TranslateService: ts}
}

func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req dtos.TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, "Text is required", http.StatusBadRequest)
		return
	}

	result, err := h.TranslateService.Translate(r.Context(), req.Text, req.TargetLanguage)
	if err != nil {
		writeError(w, "Could not translate text", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
