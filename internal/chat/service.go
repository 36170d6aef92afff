package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/threadcart/supportbot/internal/llm"
	"github.com/threadcart/supportbot/internal/store"
)

var ErrEmptyMessage = errors.New("message must not be empty")

// Responder generates one assistant reply from a customer message and prior
// conversation history.
type Responder interface {
	Respond(ctx context.Context, message string, history []llm.Message) string
}

// Sessions is the slice of the store the chat service needs.
type Sessions interface {
	GetOrCreateSession(ctx context.Context, userID int64, token string) (store.ChatSession, error)
	MessagesBySession(ctx context.Context, sessionID int64) ([]store.ChatMessage, error)
	AppendTurn(ctx context.Context, sessionID int64, userText, assistantText string) (int64, error)
}

type Config struct {
	// DefaultUserID binds sessions created without an explicit user.
	DefaultUserID int64
}

// Service handles one chat turn end to end: session resolution, history
// loading, response generation, and persistence.
type Service struct {
	sessions  Sessions
	responder Responder
	cfg       Config
	logger    *slog.Logger
}

func New(sessions Sessions, responder Responder, cfg Config, logger *slog.Logger) *Service {
	if cfg.DefaultUserID < 1 {
		cfg.DefaultUserID = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions:  sessions,
		responder: responder,
		cfg:       cfg,
		logger:    logger,
	}
}

type Turn struct {
	Reply        string
	SessionToken string
	MessageID    int64
}

// Submit runs one customer turn. The message is answered and both sides of
// the exchange are persisted before the reply is returned; a persistence
// failure surfaces as an error so the caller never acknowledges a turn that
// was not recorded.
func (s *Service) Submit(ctx context.Context, userID int64, sessionToken, message string) (Turn, error) {
	if message == "" {
		return Turn{}, ErrEmptyMessage
	}
	if userID < 1 {
		userID = s.cfg.DefaultUserID
	}

	session, err := s.sessions.GetOrCreateSession(ctx, userID, sessionToken)
	if err != nil {
		return Turn{}, fmt.Errorf("resolve session: %w", err)
	}

	stored, err := s.sessions.MessagesBySession(ctx, session.ID)
	if err != nil {
		return Turn{}, fmt.Errorf("load history: %w", err)
	}
	history := make([]llm.Message, 0, len(stored))
	for _, msg := range stored {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	reply := s.responder.Respond(ctx, message, history)

	messageID, err := s.sessions.AppendTurn(ctx, session.ID, message, reply)
	if err != nil {
		return Turn{}, fmt.Errorf("persist turn: %w", err)
	}

	s.logger.Info("chat turn completed",
		"session", session.Token,
		"user_id", session.UserID,
		"message_id", messageID)

	return Turn{
		Reply:        reply,
		SessionToken: session.Token,
		MessageID:    messageID,
	}, nil
}
