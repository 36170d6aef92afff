package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/threadcart/supportbot/internal/store"
)

func (r *router) handleSessions(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var userID int64
	if raw := strings.TrimSpace(req.URL.Query().Get("user_id")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id must be a positive integer"})
			return
		}
		userID = parsed
	}

	limit := r.deps.Config.SessionListLimit
	if raw := strings.TrimSpace(req.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil && parsed > 0 {
			limit = parsed
		}
	}

	sessions, err := r.deps.Store.ListSessions(req.Context(), userID, limit)
	if err != nil {
		r.deps.Logger.Error("failed to list sessions", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list sessions"})
		return
	}

	items := make([]map[string]any, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, sessionToMap(session))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

func (r *router) handleSessionByToken(w http.ResponseWriter, req *http.Request) {
	token := strings.TrimPrefix(req.URL.Path, "/api/v1/sessions/")
	if token == "" || strings.Contains(token, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	switch req.Method {
	case http.MethodGet:
		session, err := r.deps.Store.SessionByToken(req.Context(), token)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
				return
			}
			r.deps.Logger.Error("failed to load session", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load session"})
			return
		}
		writeJSON(w, http.StatusOK, sessionToMap(session))

	case http.MethodDelete:
		if err := r.deps.Store.DeleteSession(req.Context(), token); err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
				return
			}
			r.deps.Logger.Error("failed to delete session", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete session"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func sessionToMap(session store.ChatSession) map[string]any {
	messages := make([]map[string]any, 0, len(session.Messages))
	for _, msg := range session.Messages {
		messages = append(messages, map[string]any{
			"id":        msg.ID,
			"role":      msg.Role,
			"content":   msg.Content,
			"timestamp": msg.Timestamp,
		})
	}
	return map[string]any{
		"session_id": session.Token,
		"user_id":    session.UserID,
		"created_at": session.CreatedAt,
		"is_active":  session.IsActive,
		"messages":   messages,
	}
}
