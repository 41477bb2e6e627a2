package llm

import "testing"

func TestConvertMessagesToAnthropic(t *testing.T) {
	messages, system := convertMessagesToAnthropic([]Message{
		{Role: "system", Content: "决定是否发送"},
		{Role: "user", Content: "应该发送吗？"},
		{Role: "assistant", Content: "这次不发送"},
	})
	if system != "决定是否发送" {
		t.Errorf("Expected the system prompt split out, got '%s'", system)
	}
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
}
