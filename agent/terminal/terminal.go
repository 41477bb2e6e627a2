package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"humorbot/agent"
)

// Terminal runs the interactive stdin loop for the agent.
type Terminal struct {
	agent *agent.Agent
	in    io.Reader
}

func New(a *agent.Agent) *Terminal {
	return &Terminal{agent: a, in: os.Stdin}
}

// Run reads one dialogue per line until EOF, a termination token, or
// context cancellation. Lines are read on a separate goroutine so an
// interrupt unwinds immediately instead of blocking in a stdin read; the
// caller's deferred cleanup then runs.
func (t *Terminal) Run(ctx context.Context, initialPrompt string) error {
	if initialPrompt != "" {
		if err := t.processTurn(ctx, initialPrompt); err != nil {
			return err
		}
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		fmt.Print("\n微信群聊对话内容 (输入 '退出' 来结束): ")
		select {
		case <-ctx.Done():
			fmt.Println()
			return ctx.Err()
		case line, open := <-lines:
			if !open {
				if err := <-scanErr; err != nil {
					return err
				}
				return nil
			}
			input := strings.TrimSpace(line)
			if input == "" {
				continue
			}
			if isExitToken(input) {
				return nil
			}
			if err := t.processTurn(ctx, input); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		}
	}
}

// RunOnce processes a single dialogue without entering the loop.
func (t *Terminal) RunOnce(ctx context.Context, dialogue string) error {
	return t.processTurn(ctx, dialogue)
}

func isExitToken(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit", "退出":
		return true
	}
	return false
}

// processTurn wires display callbacks for the terminal mode.
func (t *Terminal) processTurn(ctx context.Context, dialogue string) error {
	callbacks := agent.Callbacks{
		OnNoInspiration: func() {
			fmt.Println("机器人: 抱歉，我今天没灵感了。")
		},
		OnDraft: func(draft string) {
			fmt.Println(">>> 步骤 1: 正在生成幽默回复...")
			fmt.Printf("机器人(生成的回复): %s\n", draft)
		},
		OnSendSkipped: func() {
			fmt.Println("(提示: 未配置企业微信 Webhook Key，跳过发送步骤。)")
		},
		OnDeciding: func() {
			fmt.Println(">>> 步骤 2: 正在让 LLM 决定是否发送...")
		},
		OnSent: func(serverResponse string) {
			fmt.Printf("机器人: 消息已发送！(服务器响应: %s)\n", serverResponse)
		},
		OnSendFailed: func() {
			fmt.Println("机器人: 发送失败，消息未送达。")
		},
		OnDeclined: func() {
			fmt.Println("机器人: LLM 决定不发送消息。")
		},
		OnDeclinedRaw: func(raw string) {
			fmt.Printf("机器人: LLM 决定不发送消息 (它的建议是: %s)\n", raw)
		},
		OnWarning: func(warning string) {
			fmt.Printf("Warning: %s\n", warning)
		},
	}
	return t.agent.ProcessTurn(ctx, dialogue, callbacks)
}
