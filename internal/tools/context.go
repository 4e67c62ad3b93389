// Package tools registers the maclink MCP tools and validates their inputs.
package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/neboloop/maclink/internal/applescript"
	"github.com/neboloop/maclink/internal/contacts"
	"github.com/neboloop/maclink/internal/loader"
	"github.com/neboloop/maclink/internal/logging"
	"github.com/neboloop/maclink/internal/messages"
	"github.com/neboloop/maclink/internal/reminders"
)

// ToolContext carries the module backends into every tool handler. The
// loader mode is an explicit construction-time value, not global state.
type ToolContext struct {
	Contacts  *contacts.Module
	Messages  *messages.Module
	Reminders *reminders.Module

	Loader *loader.Loader
	Mode   loader.Mode
}

// RegisterAll registers the contacts, messages, and reminders tools.
func RegisterAll(server *mcp.Server, tc *ToolContext) {
	RegisterContactsTool(server, tc)
	RegisterMessagesTool(server, tc)
	RegisterRemindersTool(server, tc)
	logging.Infof("tools registered (%s loading)", tc.Mode)
}

// ensure lazily loads the named module before a handler touches it.
func (tc *ToolContext) ensure(ctx context.Context, module string) error {
	return tc.Loader.Ensure(ctx, module)
}

// requestID tags a single tool call in the logs.
func requestID() string {
	return uuid.New().String()[:8]
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

// bridgeFailure classifies an automation-bridge error: permission denials
// pass through verbatim so the user sees the exact macOS hint, everything
// else is wrapped with operation context.
func bridgeFailure(op string, err error) *mcp.CallToolResult {
	if applescript.IsAccessError(err) {
		logging.Warnf("%s: access denied: %v", op, err)
		return errorResult(err.Error())
	}
	logging.Errorf("%s: %v", op, err)
	return errorResult(fmt.Sprintf("%s failed: %v", op, err))
}
