package llm

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Fallback is returned in place of a reply whenever a completion request
// fails. A conversational agent should always have something to say.
const Fallback = "抱歉，我现在无法思考。"

// requestTimeout bounds every completion call. There is no retry.
const requestTimeout = 30 * time.Second

// Message is a single {role, content} entry of a chat exchange.
// Roles are "system", "user" and "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is the interface for a chat-completion backend. Implementations
// are stateless between calls.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Complete sends messages to the client under the fixed per-call timeout
// and degrades any failure to the Fallback text. The underlying error is
// surfaced to the operator on stderr; it never aborts the turn.
func Complete(ctx context.Context, c Client, messages []Message) string {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	reply, err := c.Chat(ctx, messages)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: LLM request failed: %+v\n", err)
		return Fallback
	}
	return reply
}

// MockClient is a deterministic stand-in for testing.
type MockClient struct {
	// Reply is returned for every call when Err is nil.
	Reply string
	Err   error
	// Calls records every message batch received.
	Calls [][]Message
}

func (m *MockClient) Chat(ctx context.Context, messages []Message) (string, error) {
	m.Calls = append(m.Calls, messages)
	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != "" {
		return m.Reply, nil
	}
	last := messages[len(messages)-1].Content
	return fmt.Sprintf("I am a mock LLM. You said: '%s'.", last), nil
}
