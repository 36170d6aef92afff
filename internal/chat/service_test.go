package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/threadcart/supportbot/internal/llm"
	"github.com/threadcart/supportbot/internal/store"
)

type fakeSessions struct {
	session      store.ChatSession
	sessionErr   error
	messages     []store.ChatMessage
	messagesErr  error
	appendErr    error
	appendedUser string
	appendedBot  string
	resolvedUser int64
	resolvedTok  string
}

func (f *fakeSessions) GetOrCreateSession(ctx context.Context, userID int64, token string) (store.ChatSession, error) {
	f.resolvedUser = userID
	f.resolvedTok = token
	return f.session, f.sessionErr
}

func (f *fakeSessions) MessagesBySession(ctx context.Context, sessionID int64) ([]store.ChatMessage, error) {
	return f.messages, f.messagesErr
}

func (f *fakeSessions) AppendTurn(ctx context.Context, sessionID int64, userText, assistantText string) (int64, error) {
	f.appendedUser = userText
	f.appendedBot = assistantText
	if f.appendErr != nil {
		return 0, f.appendErr
	}
	return 42, nil
}

type fakeResponder struct {
	reply   string
	history []llm.Message
	message string
}

func (f *fakeResponder) Respond(ctx context.Context, message string, history []llm.Message) string {
	f.message = message
	f.history = history
	return f.reply
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSubmitPersistsBothSidesOfTurn(t *testing.T) {
	sessions := &fakeSessions{
		session: store.ChatSession{ID: 1, UserID: 7, Token: "tok-1"},
		messages: []store.ChatMessage{
			{Role: "user", Content: "earlier question"},
			{Role: "assistant", Content: "earlier answer"},
		},
	}
	responder := &fakeResponder{reply: "here you go"}
	svc := New(sessions, responder, Config{}, testLogger())

	turn, err := svc.Submit(context.Background(), 7, "tok-1", "where is my order?")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if turn.Reply != "here you go" || turn.SessionToken != "tok-1" || turn.MessageID != 42 {
		t.Fatalf("unexpected turn: %+v", turn)
	}
	if sessions.appendedUser != "where is my order?" || sessions.appendedBot != "here you go" {
		t.Fatalf("turn not persisted: %q / %q", sessions.appendedUser, sessions.appendedBot)
	}
	if len(responder.history) != 2 || responder.history[0].Content != "earlier question" {
		t.Fatalf("history not forwarded: %+v", responder.history)
	}
	if responder.message != "where is my order?" {
		t.Fatalf("message not forwarded: %q", responder.message)
	}
}

func TestSubmitDefaultsUserID(t *testing.T) {
	sessions := &fakeSessions{session: store.ChatSession{ID: 1, UserID: 1, Token: "tok"}}
	svc := New(sessions, &fakeResponder{reply: "ok"}, Config{}, testLogger())

	if _, err := svc.Submit(context.Background(), 0, "", "hello"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sessions.resolvedUser != 1 {
		t.Fatalf("expected default user id 1, got %d", sessions.resolvedUser)
	}
}

func TestSubmitRejectsEmptyMessage(t *testing.T) {
	svc := New(&fakeSessions{}, &fakeResponder{}, Config{}, testLogger())

	_, err := svc.Submit(context.Background(), 1, "", "")
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestSubmitPropagatesPersistenceFailure(t *testing.T) {
	wantErr := errors.New("database locked")
	sessions := &fakeSessions{
		session:   store.ChatSession{ID: 1, Token: "tok"},
		appendErr: wantErr,
	}
	svc := New(sessions, &fakeResponder{reply: "ok"}, Config{}, testLogger())

	_, err := svc.Submit(context.Background(), 1, "tok", "hello")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestSubmitPropagatesSessionFailure(t *testing.T) {
	wantErr := errors.New("disk io")
	sessions := &fakeSessions{sessionErr: wantErr}
	svc := New(sessions, &fakeResponder{}, Config{}, testLogger())

	_, err := svc.Submit(context.Background(), 1, "tok", "hello")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected session error, got %v", err)
	}
}
