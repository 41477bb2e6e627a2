// Package decision implements the send/no-send protocol: the instruction
// that describes the single send tool to the model, the parsing of the
// model's structured answer, and the construction of the tool arguments.
//
// The model's decision text is untrusted data. Parsing is a total
// function into a tagged Intent; a malformed answer is an expected
// branch, never an error that aborts the turn. The decision governs only
// WHETHER to send: the content forwarded to the tool is always the
// agent's own draft reply, never text echoed back by the model.
package decision

import (
	"encoding/json"
	"fmt"

	"humorbot/llm"
)

// ToolName is the single tool the model may request.
const ToolName = "sendWeChatTextMessage"

// IntentKind classifies the model's decision answer.
type IntentKind int

const (
	// Send means the answer matched the tool-call contract with the
	// known tool name.
	Send IntentKind = iota
	// Decline means the answer was valid JSON but named an unknown tool
	// or carried no tool_call at all.
	Decline
	// Malformed means the answer was not the expected structure. The raw
	// text is kept so the operator can see what the model actually said.
	Malformed
)

// Intent is the parsed decision. EchoedContent is the content field the
// model put in its tool call; it is retained for diagnostics only and
// must never be forwarded.
type Intent struct {
	Kind          IntentKind
	EchoedContent string
	Raw           string
}

// SystemPrompt is the fixed instruction for the decision phase. It
// describes the one available tool and the exact JSON-only contract the
// model must use when it wants the reply sent.
func SystemPrompt() string {
	return fmt.Sprintf(`你有一个可用的工具：
- 工具名称: "%s"
- 工具描述: "发送一条文本消息到企业微信群。"

如果你判断应该将生成的幽默回复发送出去，你必须【仅】使用以下严格的 JSON 格式进行回复，不要包含任何其他文字或解释：
{
  "tool_call": {
    "name": "%s",
    "arguments": {
      "content": "<这里是你认为应该发送的幽默回复内容>"
    }
  }
}

如果不想发送，就直接用普通文本回答，例如 "这次不发送"。`, ToolName, ToolName)
}

// Messages builds the two-message decision exchange: the tool instruction
// plus a user-role question quoting the original dialogue and the draft.
func Messages(dialogue, draft string) []llm.Message {
	return []llm.Message{
		{Role: "system", Content: SystemPrompt()},
		{Role: "user", Content: fmt.Sprintf("我已经为对话“%s”生成了回复：“%s”。\n你认为应该发送吗？如果发送，请提供工具调用JSON。", dialogue, draft)},
	}
}

// ParseIntent maps the model's decision text to an Intent. It is a
// single best-effort parse of the whole text: no partial extraction and
// no reprompt. A false negative here is acceptable; a false positive is
// prevented by never forwarding the echoed content.
func ParseIntent(text string) Intent {
	var payload struct {
		ToolCall *struct {
			Name      string `json:"name"`
			Arguments struct {
				Content string `json:"content"`
			} `json:"arguments"`
		} `json:"tool_call"`
	}

	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return Intent{Kind: Malformed, Raw: text}
	}
	if payload.ToolCall == nil || payload.ToolCall.Name != ToolName {
		return Intent{Kind: Decline, Raw: text}
	}
	return Intent{
		Kind:          Send,
		EchoedContent: payload.ToolCall.Arguments.Content,
		Raw:           text,
	}
}

// SendArguments builds the arguments for the send tool. The content is
// always the agent's own draft; chatid is added only when a default
// group is configured.
func SendArguments(webhookKey, draft, chatID string) map[string]any {
	args := map[string]any{
		"webhookKey": webhookKey,
		"content":    draft,
	}
	if chatID != "" {
		args["chatid"] = chatID
	}
	return args
}
