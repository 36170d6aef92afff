package llm

import (
	"context"
	"errors"
)

var ErrUnavailable = errors.New("llm unavailable")

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Client is the single chat-completion primitive the pipeline depends on.
// Both the classification call and the grounded generation call go through it.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
