package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/threadcart/supportbot/internal/chat"
)

type chatRequest struct {
	Message   string `json:"message"`
	UserID    int64  `json:"user_id"`
	SessionID string `json:"session_id"`
}

func (r *router) handleChat(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var payload chatRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	message := strings.TrimSpace(payload.Message)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	turn, err := r.deps.Chat.Submit(req.Context(), payload.UserID, payload.SessionID, message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
			return
		}
		r.deps.Logger.Error("chat turn failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to process message"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"response":   turn.Reply,
		"session_id": turn.SessionToken,
		"message_id": turn.MessageID,
	})
}
