// Package terminal provides the interactive command-line mode: one
// group-chat dialogue per line, one agent turn per dialogue.
package terminal
