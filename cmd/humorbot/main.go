package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"humorbot/agent"
	"humorbot/agent/terminal"
	"humorbot/config"
	"humorbot/llm"
	"humorbot/mcpserver"
	"humorbot/transcript"
)

func main() {
	llmFlag := flag.String("llm", "", "LLM backend: 'openai', 'anthropic', 'gemini', 'bedrock' or 'mock'")
	modelFlag := flag.String("model", "", "Model identifier override")
	transcriptFlag := flag.String("transcript", "", "Transcript name to record this run under")
	oneShotFlag := flag.String("p", "", "Process a single dialogue and exit (non-interactive mode)")
	flag.Parse()

	if err := run(*llmFlag, *modelFlag, *transcriptFlag, *oneShotFlag, strings.Join(flag.Args(), " ")); err != nil {
		fmt.Fprintf(os.Stderr, "humorbot: %+v\n", err)
		os.Exit(1)
	}
	fmt.Println("--- 机器人已关闭 ---")
}

// run keeps all resource scopes inside one function so deferred cleanup
// executes on every exit path, including interrupts.
func run(llmName, model, transcriptName, oneShot, initialPrompt string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if llmName != "" {
		cfg.LLMClient = llmName
	}
	if model != "" {
		cfg.Model = model
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}

	if transcriptName == "" {
		transcriptName = transcript.DefaultName()
	}
	log, err := transcript.New(transcriptName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: transcript disabled: %+v\n", err)
		log = nil
	}

	conn := mcpserver.New(cfg.Server)
	defer conn.Cleanup()
	if err := conn.Initialize(ctx); err != nil {
		return err
	}

	if !cfg.SendEnabled() {
		fmt.Println("INFO: WECHAT_WEBHOOK_KEY not set; replies will not be sent anywhere.")
	}

	bot := agent.New(cfg, conn, client, log)
	term := terminal.New(bot)
	if oneShot != "" {
		return term.RunOnce(ctx, oneShot)
	}
	if err := term.Run(ctx, initialPrompt); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("\n用户中断，正在退出...")
			return nil
		}
		return err
	}
	return nil
}

func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	switch cfg.LLMClient {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("LLM_API_KEY not set; add it to the environment or a .env file")
		}
		return llm.NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model)
	case "anthropic":
		return llm.NewAnthropicClient(cfg.Model)
	case "gemini":
		return llm.NewGeminiClient(ctx, cfg.Model)
	case "bedrock":
		return llm.NewBedrockClient(ctx, cfg.Model)
	case "mock":
		return &llm.MockClient{}, nil
	default:
		return nil, fmt.Errorf("unknown llm backend '%s'", cfg.LLMClient)
	}
}
