package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestChatRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/api/v1/chat" || req.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		var payload ChatRequest
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Message != "hi" || payload.SessionID != "tok-1" {
			t.Fatalf("unexpected payload: %+v", payload)
		}
		json.NewEncoder(w).Encode(ChatResponse{Response: "hello", SessionID: "tok-1", MessageID: 5})
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	res, err := client.Chat(context.Background(), ChatRequest{Message: "hi", SessionID: "tok-1"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if res.Response != "hello" || res.SessionID != "tok-1" || res.MessageID != 5 {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestChatSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "message is required"})
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	_, err := client.Chat(context.Background(), ChatRequest{Message: ""})
	if err == nil || !strings.Contains(err.Error(), "message is required") {
		t.Fatalf("expected api error detail, got %v", err)
	}
}

func TestListSessionsFiltersByUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/api/v1/sessions" || req.URL.Query().Get("user_id") != "3" {
			t.Fatalf("unexpected request: %s", req.URL.String())
		}
		json.NewEncoder(w).Encode(ListSessionsResponse{Items: []Session{{SessionID: "tok-1", UserID: 3}}, Count: 1})
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	res, err := client.ListSessions(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if res.Count != 1 || res.Items[0].SessionID != "tok-1" {
		t.Fatalf("unexpected response: %+v", res)
	}
}
