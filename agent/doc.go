// Package agent contains the turn orchestration shared by the
// interaction modes.
//
// A turn moves strictly downward: the operator's dialogue is rendered
// into a prompt by the tool-and-prompt server, the prompt goes to the
// LLM for a humorous draft, the LLM is then asked once, under a strict
// structured-output contract, whether the draft should be forwarded to
// the group webhook, and only a well-formed positive answer triggers
// the send tool. Every step reports its outcome through Callbacks so
// the loop in agent/terminal stays purely presentational.
//
// The agent never sends content from the decision answer. What goes to
// the webhook is always the draft generated in the first phase.
package agent
