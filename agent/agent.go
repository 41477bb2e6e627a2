package agent

import (
	"context"

	"humorbot/config"
	"humorbot/decision"
	"humorbot/llm"
	"humorbot/transcript"
)

// ToolServer is the slice of the tool-and-prompt server the agent needs:
// prompt rendering and tool invocation. *mcpserver.Connection satisfies it.
type ToolServer interface {
	GetPromptMessages(ctx context.Context, name string, arguments map[string]string) ([]llm.Message, error)
	CallTool(ctx context.Context, name string, arguments map[string]any) (result string, ok bool, err error)
}

// Callbacks lets the interaction mode decide how each step's outcome is
// shown. Display never alters control flow. Nil callbacks are skipped.
type Callbacks struct {
	// OnNoInspiration fires when no prompt template is available and the
	// turn ends before any model call.
	OnNoInspiration func()
	// OnDraft fires with the generated humorous reply.
	OnDraft func(draft string)
	// OnSendSkipped fires when no webhook key is configured, before any
	// decision request would be made.
	OnSendSkipped func()
	// OnDeciding fires when the decision phase starts.
	OnDeciding func()
	// OnSent fires after a successful tool call, with the server's response.
	OnSent func(serverResponse string)
	// OnSendFailed fires when the model chose to send but the tool call
	// did not go through.
	OnSendFailed func()
	// OnDeclined fires when the model answered with valid structure but
	// chose not to send.
	OnDeclined func()
	// OnDeclinedRaw fires when the decision text was not the expected
	// contract; raw is the literal model output, for diagnosis.
	OnDeclinedRaw func(raw string)
	// OnWarning fires for non-fatal bookkeeping problems.
	OnWarning func(warning string)
}

// Agent orchestrates one turn: prompt fetch, generation, the send
// decision, and the optional tool invocation.
type Agent struct {
	Server     ToolServer
	LLM        llm.Client
	Config     *config.Config
	Transcript *transcript.Log
}

func New(cfg *config.Config, server ToolServer, client llm.Client, log *transcript.Log) *Agent {
	return &Agent{
		Server:     server,
		LLM:        client,
		Config:     cfg,
		Transcript: log,
	}
}

// ProcessTurn runs one full exchange for the given group-chat dialogue.
// Soft failures degrade the turn through callbacks; the only returned
// errors are contract violations such as an unconnected server.
func (a *Agent) ProcessTurn(ctx context.Context, dialogue string, cb Callbacks) error {
	turn := transcript.Turn{Dialogue: dialogue}
	defer a.record(&turn, cb)

	promptMessages, err := a.Server.GetPromptMessages(ctx, a.Config.Prompt, map[string]string{
		"dialogue": dialogue,
	})
	if err != nil {
		return err
	}
	if len(promptMessages) == 0 {
		turn.Outcome = transcript.OutcomeNoPrompt
		fire(cb.OnNoInspiration)
		return nil
	}

	draft := llm.Complete(ctx, a.LLM, promptMessages)
	turn.Draft = draft
	if cb.OnDraft != nil {
		cb.OnDraft(draft)
	}

	if !a.Config.SendEnabled() {
		turn.Outcome = transcript.OutcomeSkipped
		fire(cb.OnSendSkipped)
		return nil
	}

	fire(cb.OnDeciding)
	decisionText := llm.Complete(ctx, a.LLM, decision.Messages(dialogue, draft))
	turn.Decision = decisionText

	intent := decision.ParseIntent(decisionText)
	switch intent.Kind {
	case decision.Send:
		// The forwarded content is the draft, not whatever the model
		// echoed into its tool call.
		args := decision.SendArguments(a.Config.WebhookKey, draft, a.Config.ChatID)
		response, ok, err := a.Server.CallTool(ctx, decision.ToolName, args)
		if err != nil {
			return err
		}
		if !ok {
			turn.Outcome = transcript.OutcomeSendFailed
			fire(cb.OnSendFailed)
			return nil
		}
		turn.Outcome = transcript.OutcomeSent
		if cb.OnSent != nil {
			cb.OnSent(response)
		}
	case decision.Decline:
		turn.Outcome = transcript.OutcomeDeclined
		fire(cb.OnDeclined)
	default:
		turn.Outcome = transcript.OutcomeDeclined
		if cb.OnDeclinedRaw != nil {
			cb.OnDeclinedRaw(intent.Raw)
		}
	}
	return nil
}

func (a *Agent) record(turn *transcript.Turn, cb Callbacks) {
	if a.Transcript == nil {
		return
	}
	// A turn that errored out of the normal flow (e.g. an unconnected
	// server) reaches here without an outcome.
	if turn.Outcome == "" {
		turn.Outcome = transcript.OutcomeAborted
	}
	if err := a.Transcript.Append(*turn); err != nil && cb.OnWarning != nil {
		cb.OnWarning("failed to save transcript: " + err.Error())
	}
}

func fire(f func()) {
	if f != nil {
		f()
	}
}
