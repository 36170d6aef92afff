package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type ChatSession struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt string
	IsActive  bool
	Messages  []ChatMessage
}

type ChatMessage struct {
	ID        int64
	SessionID int64
	Role      string
	Content   string
	Timestamp string
}

// GetOrCreateSession resolves an existing session by its opaque token, or
// creates a new one bound to userID with a freshly generated token. An
// unknown token is treated the same as an absent one.
func (s *Store) GetOrCreateSession(ctx context.Context, userID int64, token string) (ChatSession, error) {
	token = strings.TrimSpace(token)
	if token != "" {
		session, err := s.sessionHeaderByToken(ctx, token)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return ChatSession{}, err
		}
	}

	newToken := uuid.New().String()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (user_id, session_id, is_active) VALUES (?, ?, 1)`,
		userID, newToken)
	if err != nil {
		return ChatSession{}, fmt.Errorf("create chat session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return ChatSession{}, fmt.Errorf("create chat session: %w", err)
	}
	return ChatSession{
		ID:       id,
		UserID:   userID,
		Token:    newToken,
		IsActive: true,
	}, nil
}

func (s *Store) sessionHeaderByToken(ctx context.Context, token string) (ChatSession, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, session_id, created_at, is_active
		 FROM chat_sessions
		 WHERE session_id = ?`, token)

	var session ChatSession
	var active int64
	if err := row.Scan(&session.ID, &session.UserID, &session.Token, &session.CreatedAt, &active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ChatSession{}, ErrSessionNotFound
		}
		return ChatSession{}, fmt.Errorf("lookup chat session: %w", err)
	}
	session.IsActive = active != 0
	return session, nil
}

// SessionByToken returns the session with its full ordered message list.
func (s *Store) SessionByToken(ctx context.Context, token string) (ChatSession, error) {
	session, err := s.sessionHeaderByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return ChatSession{}, err
	}
	messages, err := s.MessagesBySession(ctx, session.ID)
	if err != nil {
		return ChatSession{}, err
	}
	session.Messages = messages
	return session, nil
}

// MessagesBySession returns a session's messages in conversation order.
func (s *Store) MessagesBySession(ctx context.Context, sessionID int64) ([]ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, message_type, content, timestamp
		 FROM chat_messages
		 WHERE session_id = ?
		 ORDER BY timestamp, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var msg ChatMessage
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("scan chat message row: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// ListSessions returns the most recent sessions, optionally filtered by user,
// each with its ordered messages.
func (s *Store) ListSessions(ctx context.Context, userID int64, limit int) ([]ChatSession, error) {
	if limit < 1 {
		limit = 10
	}
	query := `SELECT id, user_id, session_id, created_at, is_active
	FROM chat_sessions`
	args := []any{}
	if userID > 0 {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	defer rows.Close()

	var sessions []ChatSession
	for rows.Next() {
		var session ChatSession
		var active int64
		if err := rows.Scan(&session.ID, &session.UserID, &session.Token, &session.CreatedAt, &active); err != nil {
			return nil, fmt.Errorf("scan chat session row: %w", err)
		}
		session.IsActive = active != 0
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sessions {
		messages, err := s.MessagesBySession(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Messages = messages
	}
	return sessions, nil
}

// DeleteSession removes a session and all its messages in one transaction.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	session, err := s.sessionHeaderByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete session: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chat_messages WHERE session_id = ?`, session.ID); err != nil {
		return fmt.Errorf("delete chat messages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = ?`, session.ID); err != nil {
		return fmt.Errorf("delete chat session: %w", err)
	}
	return tx.Commit()
}

// AppendTurn persists one completed turn: the customer's message followed by
// the assistant's reply, atomically. Returns the assistant message id.
func (s *Store) AppendTurn(ctx context.Context, sessionID int64, userText, assistantText string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append turn: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format("2006-01-02 15:04:05")
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO chat_messages (session_id, message_type, content, timestamp) VALUES (?, 'user', ?, ?)`,
		sessionID, userText, now); err != nil {
		return 0, fmt.Errorf("insert user message: %w", err)
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO chat_messages (session_id, message_type, content, timestamp) VALUES (?, 'assistant', ?, ?)`,
		sessionID, assistantText, now)
	if err != nil {
		return 0, fmt.Errorf("insert assistant message: %w", err)
	}
	messageID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert assistant message: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append turn: %w", err)
	}
	return messageID, nil
}

// DeactivateStaleSessions clears the active flag on sessions whose newest
// message (or creation, for empty sessions) is older than the cutoff.
// Returns the number of sessions deactivated.
func (s *Store) DeactivateStaleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE chat_sessions
		 SET is_active = 0
		 WHERE is_active = 1
		   AND COALESCE(
		       (SELECT MAX(m.timestamp) FROM chat_messages m WHERE m.session_id = chat_sessions.id),
		       created_at
		   ) < ?`,
		cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, fmt.Errorf("deactivate stale sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deactivate stale sessions: %w", err)
	}
	return affected, nil
}
