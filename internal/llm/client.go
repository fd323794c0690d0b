// Package llm provides streaming language model clients.
package llm

import (
	"context"
	"fmt"
)

// Message is a single chat message in a request.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Request describes a model completion request. Requests carry no tool
// definitions and no stop sequences.
type Request struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Stream yields response text chunks in arrival order. Next returns io.EOF
// when the stream completes normally; any other error is terminal.
type Stream interface {
	Next() (string, error)
	Close() error
}

// Client is the model provider abstraction.
type Client interface {
	Stream(ctx context.Context, req Request) (Stream, error)
	Name() string
}

// New creates a client by provider name.
func New(provider, model string) (Client, error) {
	switch provider {
	case "anthropic":
		return NewAnthropic(model)
	case "openai":
		return NewOpenAI(model)
	case "ollama", "lmstudio":
		return NewOllama(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
