// Package transcript records each turn's outcome to disk so an operator
// can audit what was generated and what was actually sent. The record is
// never fed back into prompts; the agent keeps no conversational memory.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Turn is one full exchange: the operator's dialogue, the generated
// draft, the raw decision text and the final outcome.
type Turn struct {
	Time     time.Time `json:"time"`
	Dialogue string    `json:"dialogue"`
	Draft    string    `json:"draft"`
	Decision string    `json:"decision,omitempty"`
	Outcome  string    `json:"outcome"`
}

// Outcome values for Turn.
const (
	OutcomeSent       = "sent"
	OutcomeDeclined   = "declined"
	OutcomeSkipped    = "send-skipped"
	OutcomeNoPrompt   = "no-prompt"
	OutcomeSendFailed = "send-failed"
	OutcomeAborted    = "aborted"
)

type Log struct {
	Name  string `json:"name"`
	Turns []Turn `json:"turns"`
	path  string
}

// New creates a transcript log under .humorbot/transcripts.
func New(name string) (*Log, error) {
	path, err := logPath(name)
	if err != nil {
		return nil, err
	}
	return &Log{Name: name, path: path}, nil
}

// Append adds a turn and persists the log. The write is best-effort from
// the caller's point of view; a failed save loses the record, not the turn.
func (l *Log) Append(turn Turn) error {
	if turn.Time.IsZero() {
		turn.Time = time.Now()
	}
	l.Turns = append(l.Turns, turn)
	return l.save()
}

func (l *Log) save() error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize transcript: %w", err)
	}
	return os.WriteFile(l.path, data, 0644)
}

func logPath(name string) (string, error) {
	dir := filepath.Join(".humorbot", "transcripts")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("could not create transcript directory: %w", err)
	}
	return filepath.Join(dir, fmt.Sprintf("%s.json", name)), nil
}

// DefaultName derives a log name from the working directory and a
// timestamp, matching one run of the agent.
func DefaultName() string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "humorbot"
	}
	return fmt.Sprintf("%s_%s", filepath.Base(wd), time.Now().Format("2006-01-02_15-04-05"))
}
