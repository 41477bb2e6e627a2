// Package mcpserver manages the tool-and-prompt server: an external MCP
// process launched as a subprocess and spoken to over its standard I/O.
//
// The server is a separate long-lived process, so any I/O or protocol
// error after the handshake degrades the current turn instead of
// crashing the agent; only the initial connection failure is fatal.
package mcpserver

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"humorbot/config"
	"humorbot/errors"
	"humorbot/llm"
)

// Connection owns the lifecycle of one MCP server subprocess. The session
// and cmd fields are non-nil exactly while the connection is live.
type Connection struct {
	name    string
	command string
	args    []string
	env     map[string]string

	cmd     *exec.Cmd
	session *mcpsdk.ClientSession
}

// New creates an unconnected Connection from the server launch config.
func New(server config.MCPServer) *Connection {
	return &Connection{
		name:    server.Name,
		command: server.Command,
		args:    server.Args,
		env:     server.Env,
	}
}

// Name returns the configured server name.
func (c *Connection) Name() string {
	return c.name
}

// Connected reports whether the protocol session is live.
func (c *Connection) Connected() bool {
	return c.session != nil
}

// Initialize launches the server subprocess with the merged environment
// and performs the MCP handshake. On any failure it releases everything
// it acquired before returning the error; it never leaves a half-open
// transport behind.
func (c *Connection) Initialize(ctx context.Context) error {
	if c.command == "" {
		return errors.New("server '%s' has no launch command", c.name)
	}

	cmd := exec.Command(c.command, c.args...)
	cmd.Env = os.Environ()
	for k, v := range c.env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stderr = os.Stderr

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "humorbot", Version: "v1.0.0"}, nil)

	fmt.Printf("INFO: Starting MCP server '%s'...\n", c.name)
	session, err := client.Connect(ctx, mcpsdk.NewCommandTransport(cmd))
	if err != nil {
		if cmd.Process != nil {
			cmd.Process.Kill()
			cmd.Wait()
		}
		return errors.Wrapf(err, "failed to connect to MCP server '%s'", c.name)
	}

	c.cmd = cmd
	c.session = session
	fmt.Printf("INFO: MCP server '%s' connected.\n", c.name)
	return nil
}

// GetPromptMessages renders a named prompt template on the server and
// returns it as an ordered chat message sequence. A transport or
// server-side error is a soft failure: it is reported on stderr and nil
// is returned so the caller can end the turn gracefully. Calling without
// a live session is a contract violation and returns an error.
func (c *Connection) GetPromptMessages(ctx context.Context, name string, arguments map[string]string) ([]llm.Message, error) {
	if c.session == nil {
		return nil, errors.New("server '%s' is not connected", c.name)
	}

	result, err := c.session.GetPrompt(ctx, &mcpsdk.GetPromptParams{
		Name:      name,
		Arguments: arguments,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to get prompt '%s': %+v\n", name, err)
		return nil, nil
	}

	var messages []llm.Message
	for _, msg := range result.Messages {
		text := ""
		if tc, ok := msg.Content.(*mcpsdk.TextContent); ok {
			text = tc.Text
		}
		messages = append(messages, llm.Message{
			Role:    string(msg.Role),
			Content: text,
		})
	}
	return messages, nil
}

// CallTool invokes a named tool on the server and returns the
// concatenated text of the result. A transport or server-side error is a
// soft failure: it is reported on stderr and ok is false. Calling
// without a live session is a contract violation and returns an error.
func (c *Connection) CallTool(ctx context.Context, name string, arguments map[string]any) (result string, ok bool, err error) {
	if c.session == nil {
		return "", false, errors.New("server '%s' is not connected", c.name)
	}

	fmt.Printf("INFO: Calling tool '%s' on MCP server '%s'...\n", name, c.name)
	res, err := c.session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      name,
		Arguments: arguments,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: tool call '%s' failed: %+v\n", name, err)
		return "", false, nil
	}

	for _, content := range res.Content {
		if tc, ok := content.(*mcpsdk.TextContent); ok {
			result += tc.Text
		}
	}
	return result, true, nil
}

// Cleanup closes the protocol session and stops the subprocess, in
// reverse acquisition order. It is idempotent and safe to call from any
// lifecycle state.
func (c *Connection) Cleanup() {
	if c.session != nil {
		fmt.Printf("INFO: Closing MCP server '%s'...\n", c.name)
		c.session.Close()
		c.session = nil
	}
	if c.cmd != nil {
		if c.cmd.Process != nil {
			c.cmd.Process.Kill()
		}
		c.cmd.Wait()
		c.cmd = nil
	}
}
