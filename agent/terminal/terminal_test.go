package terminal

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"humorbot/agent"
	"humorbot/config"
	"humorbot/llm"
)

type stubServer struct{}

func (stubServer) GetPromptMessages(ctx context.Context, name string, arguments map[string]string) ([]llm.Message, error) {
	return []llm.Message{{Role: "user", Content: "来个幽默回复：" + arguments["dialogue"]}}, nil
}

func (stubServer) CallTool(ctx context.Context, name string, arguments map[string]any) (string, bool, error) {
	return "ok", true, nil
}

func newTestTerminal(client *llm.MockClient) *Terminal {
	cfg := &config.Config{Prompt: config.DefaultPrompt}
	return New(agent.New(cfg, stubServer{}, client, nil))
}

func TestIsExitToken(t *testing.T) {
	testCases := []struct {
		input string
		exit  bool
	}{
		{"exit", true},
		{"QUIT", true},
		{"退出", true},
		{"Exit", true},
		{"继续聊", false},
		{"exit now", false},
	}
	for _, tc := range testCases {
		if got := isExitToken(tc.input); got != tc.exit {
			t.Errorf("isExitToken(%q) = %v, want %v", tc.input, got, tc.exit)
		}
	}
}

func TestRunUnwindsOnCancelledContext(t *testing.T) {
	// A pipe with no writer behaves like an idle interactive stdin: the
	// read blocks forever. Cancellation must still unwind Run, because
	// that return is what makes the caller's deferred cleanup reachable
	// on an interrupt.
	r, w := io.Pipe()
	defer w.Close()

	term := newTestTerminal(&llm.MockClient{Reply: "哈哈"})
	term.in = r

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- term.Run(ctx, "") }()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation; it is blocked on stdin")
	}
}

func TestRunStopsAtExitToken(t *testing.T) {
	client := &llm.MockClient{Reply: "哈哈"}
	term := newTestTerminal(client)
	term.in = strings.NewReader("今天下雨了\n\n退出\n不应该处理这句\n")

	// Cancelling after Run returns releases the reader goroutine, which
	// may be parked on a send of the line past the token.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := term.Run(ctx, ""); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// One turn before the token; without a webhook key each turn makes a
	// single generation call. The line after the token is never read.
	if len(client.Calls) != 1 {
		t.Errorf("Expected 1 model call before the exit token, got %d", len(client.Calls))
	}
}

func TestRunEndsCleanlyOnEOF(t *testing.T) {
	term := newTestTerminal(&llm.MockClient{Reply: "哈哈"})
	term.in = strings.NewReader("")

	if err := term.Run(context.Background(), ""); err != nil {
		t.Errorf("Expected a clean return on EOF, got %v", err)
	}
}

func TestRunOnce(t *testing.T) {
	client := &llm.MockClient{Reply: "哈哈"}
	term := newTestTerminal(client)

	if err := term.RunOnce(context.Background(), "今天下雨了"); err != nil {
		t.Errorf("RunOnce failed: %v", err)
	}
	if len(client.Calls) != 1 {
		t.Errorf("Expected 1 model call, got %d", len(client.Calls))
	}
}
