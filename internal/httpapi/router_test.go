package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/threadcart/supportbot/internal/chat"
	"github.com/threadcart/supportbot/internal/config"
	"github.com/threadcart/supportbot/internal/store"
)

type fakeChat struct {
	turn    chat.Turn
	err     error
	userID  int64
	token   string
	message string
}

func (f *fakeChat) Submit(ctx context.Context, userID int64, sessionToken, message string) (chat.Turn, error) {
	f.userID = userID
	f.token = sessionToken
	f.message = message
	return f.turn, f.err
}

func newTestRouter(t *testing.T, chatSvc Chat) (http.Handler, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	handler := NewRouter(Dependencies{
		Config: config.Config{Environment: "test", LLMModel: "llama3-8b-8192", SessionListLimit: 10},
		Store:  st,
		Chat:   chatSvc,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return handler, st
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v (%s)", err, res.Body.String())
	}
	return body
}

func TestHealthAndReady(t *testing.T) {
	handler, _ := newTestRouter(t, &fakeChat{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("healthz status %d", res.Code)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("readyz status %d", res.Code)
	}
	if body := decodeBody(t, res); body["status"] != "ready" {
		t.Fatalf("readyz body %v", body)
	}
}

func TestChatEndpoint(t *testing.T) {
	chatSvc := &fakeChat{turn: chat.Turn{Reply: "hello there", SessionToken: "tok-1", MessageID: 9}}
	handler, _ := newTestRouter(t, chatSvc)

	payload := bytes.NewBufferString(`{"message": "hi", "user_id": 3, "session_id": "tok-1"}`)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/api/v1/chat", payload))

	if res.Code != http.StatusOK {
		t.Fatalf("status %d: %s", res.Code, res.Body.String())
	}
	body := decodeBody(t, res)
	if body["response"] != "hello there" || body["session_id"] != "tok-1" || body["message_id"].(float64) != 9 {
		t.Fatalf("unexpected body: %v", body)
	}
	if chatSvc.userID != 3 || chatSvc.token != "tok-1" || chatSvc.message != "hi" {
		t.Fatalf("request not forwarded: %+v", chatSvc)
	}
}

func TestChatEndpointRejectsEmptyMessage(t *testing.T) {
	handler, _ := newTestRouter(t, &fakeChat{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString(`{"message": "  "}`)))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestChatEndpointRejectsGet(t *testing.T) {
	handler, _ := newTestRouter(t, &fakeChat{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v1/chat", nil))
	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}

func TestChatEndpointSubmitFailure(t *testing.T) {
	handler, _ := newTestRouter(t, &fakeChat{err: errors.New("database locked")})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString(`{"message": "hi"}`)))
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
	if body := decodeBody(t, res); body["error"] == "database locked" {
		t.Fatal("internal error detail must not leak to the client")
	}
}

func TestSessionLifecycleEndpoints(t *testing.T) {
	handler, st := newTestRouter(t, &fakeChat{})
	ctx := context.Background()

	session, err := st.GetOrCreateSession(ctx, 1, "")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := st.AppendTurn(ctx, session.ID, "hi", "hello"); err != nil {
		t.Fatalf("append turn: %v", err)
	}

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("list status %d", res.Code)
	}
	if body := decodeBody(t, res); body["count"].(float64) != 1 {
		t.Fatalf("expected 1 session, got %v", body["count"])
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+session.Token, nil))
	if res.Code != http.StatusOK {
		t.Fatalf("get status %d", res.Code)
	}
	body := decodeBody(t, res)
	if body["session_id"] != session.Token {
		t.Fatalf("unexpected session body: %v", body)
	}
	if messages := body["messages"].([]any); len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+session.Token, nil))
	if res.Code != http.StatusOK {
		t.Fatalf("delete status %d", res.Code)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+session.Token, nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", res.Code)
	}
}

func TestSessionListFiltersByUser(t *testing.T) {
	handler, st := newTestRouter(t, &fakeChat{})
	ctx := context.Background()

	for _, userID := range []int64{1, 1, 2} {
		if _, err := st.GetOrCreateSession(ctx, userID, ""); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v1/sessions?user_id=1", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("status %d", res.Code)
	}
	if body := decodeBody(t, res); body["count"].(float64) != 2 {
		t.Fatalf("expected 2 sessions for user 1, got %v", body["count"])
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v1/sessions?user_id=zero", nil))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad user_id, got %d", res.Code)
	}
}

func TestSessionUnknownToken(t *testing.T) {
	handler, _ := newTestRouter(t, &fakeChat{})

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, httptest.NewRequest(method, fmt.Sprintf("/api/v1/sessions/%s", "no-such-token"), nil))
		if res.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", method, res.Code)
		}
	}
}
