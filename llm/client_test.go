package llm

import (
	"context"
	"errors"
	"testing"
)

func TestCompleteReturnsReply(t *testing.T) {
	client := &MockClient{Reply: "哈哈"}
	reply := Complete(context.Background(), client, []Message{{Role: "user", Content: "hi"}})
	if reply != "哈哈" {
		t.Errorf("Expected '哈哈', got '%s'", reply)
	}
	if len(client.Calls) != 1 {
		t.Errorf("Expected 1 call, got %d", len(client.Calls))
	}
}

func TestCompleteFallsBackOnError(t *testing.T) {
	client := &MockClient{Err: errors.New("connection refused")}
	reply := Complete(context.Background(), client, []Message{{Role: "user", Content: "hi"}})
	if reply != Fallback {
		t.Errorf("Expected the fallback text, got '%s'", reply)
	}
}

func TestMockClientParrotsLastMessage(t *testing.T) {
	client := &MockClient{}
	reply, err := client.Chat(context.Background(), []Message{
		{Role: "system", Content: "instructions"},
		{Role: "user", Content: "最后一句"},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply == "" {
		t.Error("Expected a non-empty mock reply")
	}
}
