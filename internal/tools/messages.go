package tools

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/neboloop/maclink/internal/logging"
	"github.com/neboloop/maclink/internal/messages"
)

var messageOperations = []string{"send", "read", "schedule", "scheduled", "cancel", "unread"}

// MessagesInput defines input for the messages MCP tool.
type MessagesInput struct {
	Operation     string `json:"operation" jsonschema:"required,Operation: send, read, schedule, scheduled, cancel, unread"`
	PhoneNumber   string `json:"phoneNumber,omitempty" jsonschema:"Phone number or email handle (required for send, read, schedule)."`
	Message       string `json:"message,omitempty" jsonschema:"Message text (required for send and schedule)."`
	Limit         int    `json:"limit,omitempty" jsonschema:"Maximum number of messages to return (default 10)."`
	ScheduledTime string `json:"scheduledTime,omitempty" jsonschema:"Future delivery time, RFC3339 or '2006-01-02 15:04' (required for schedule unless cronSchedule is set)."`
	CronSchedule  string `json:"cronSchedule,omitempty" jsonschema:"Cron expression for a recurring send (alternative to scheduledTime)."`
	ScheduleID    string `json:"scheduleId,omitempty" jsonschema:"Scheduled send ID (required for cancel)."`
}

// RegisterMessagesTool registers the messages MCP tool.
func RegisterMessagesTool(server *mcp.Server, tc *ToolContext) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "messages",
		Title:       "Messages",
		Description: "Interact with Apple Messages: send a message now, read recent conversation history with a contact, schedule a one-off or recurring send, list or cancel pending scheduled sends, and list unread messages with resolved sender names.",
	}, messagesHandler(tc))
}

func messagesHandler(tc *ToolContext) func(ctx context.Context, req *mcp.CallToolRequest, input MessagesInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input MessagesInput) (*mcp.CallToolResult, any, error) {
		rid := requestID()
		logging.Debugf("[%s] messages op=%q to=%q", rid, input.Operation, input.PhoneNumber)

		if !slices.Contains(messageOperations, input.Operation) {
			return nil, nil, NewValidationError(
				fmt.Sprintf("invalid operation %q, must be: %s", input.Operation, strings.Join(messageOperations, ", ")),
				"operation")
		}

		// All argument validation happens before the bridge is touched.
		if err := validateMessagesInput(input); err != nil {
			return nil, nil, err
		}

		// Scheduler-only operations never touch the bridge or the store.
		switch input.Operation {
		case "send", "read", "unread":
			if err := tc.ensure(ctx, "messages"); err != nil {
				return bridgeFailure("messages "+input.Operation, err), nil, nil
			}
		}

		switch input.Operation {
		case "send":
			return handleSend(ctx, tc, input)
		case "read":
			return handleRead(ctx, tc, input)
		case "schedule":
			return handleSchedule(tc, input)
		case "scheduled":
			return handleScheduled(tc)
		case "cancel":
			return handleCancelScheduled(tc, input)
		case "unread":
			return handleUnread(ctx, tc, input)
		}
		return nil, nil, nil
	}
}

func validateMessagesInput(input MessagesInput) error {
	switch input.Operation {
	case "send":
		if input.PhoneNumber == "" {
			return NewValidationError("phoneNumber is required for send", "phoneNumber")
		}
		if input.Message == "" {
			return NewValidationError("message is required for send", "message")
		}
	case "read":
		if input.PhoneNumber == "" {
			return NewValidationError("phoneNumber is required for read", "phoneNumber")
		}
	case "schedule":
		if input.PhoneNumber == "" {
			return NewValidationError("phoneNumber is required for schedule", "phoneNumber")
		}
		if input.Message == "" {
			return NewValidationError("message is required for schedule", "message")
		}
		if input.ScheduledTime == "" && input.CronSchedule == "" {
			return NewValidationError("scheduledTime (or cronSchedule) is required for schedule", "scheduledTime")
		}
		if input.ScheduledTime != "" && input.CronSchedule != "" {
			return NewValidationError("scheduledTime and cronSchedule are mutually exclusive", "scheduledTime")
		}
	case "cancel":
		if input.ScheduleID == "" {
			return NewValidationError("scheduleId is required for cancel", "scheduleId")
		}
	}
	return nil
}

func handleSend(ctx context.Context, tc *ToolContext, input MessagesInput) (*mcp.CallToolResult, any, error) {
	if err := tc.Messages.Send(ctx, input.PhoneNumber, input.Message); err != nil {
		return bridgeFailure("messages send", err), nil, nil
	}
	return textResult(fmt.Sprintf("Message sent to %s.", input.PhoneNumber)), nil, nil
}

func handleRead(ctx context.Context, tc *ToolContext, input MessagesInput) (*mcp.CallToolResult, any, error) {
	msgs, err := tc.Messages.Read(ctx, input.PhoneNumber, input.Limit)
	if err != nil {
		return bridgeFailure("messages read", err), nil, nil
	}
	if len(msgs) == 0 {
		return textResult(fmt.Sprintf("No messages found for %s.", input.PhoneNumber)), nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Last %d messages with %s:\n\n", len(msgs), input.PhoneNumber)
	for _, m := range msgs {
		b.WriteString(formatMessage(m.Timestamp, senderLabel(m), m.Content))
	}
	return textResult(b.String()), nil, nil
}

func handleSchedule(tc *ToolContext, input MessagesInput) (*mcp.CallToolResult, any, error) {
	var at time.Time
	if input.CronSchedule == "" {
		parsed, err := parseScheduledTime(input.ScheduledTime)
		if err != nil {
			return nil, nil, NewValidationError(err.Error(), "scheduledTime")
		}
		at = parsed
	}

	entry, err := tc.Messages.Schedule(input.PhoneNumber, input.Message, at, input.CronSchedule)
	if err != nil {
		return nil, nil, NewValidationError(err.Error(), "scheduledTime")
	}

	if entry.Spec != "" {
		return textResult(fmt.Sprintf(
			"Recurring send %s registered for %s (%s). Pending sends are lost if the server restarts.",
			entry.ID, input.PhoneNumber, entry.Spec)), nil, nil
	}
	return textResult(fmt.Sprintf(
		"Message to %s scheduled for %s (id %s). Pending sends are lost if the server restarts.",
		input.PhoneNumber, entry.At.Format(time.RFC3339), entry.ID)), nil, nil
}

func handleScheduled(tc *ToolContext) (*mcp.CallToolResult, any, error) {
	entries := tc.Messages.Scheduled()
	if len(entries) == 0 {
		return textResult("No scheduled sends pending."), nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d scheduled sends pending:\n\n", len(entries))
	for _, e := range entries {
		when := e.Spec
		if when == "" {
			when = e.At.Format(time.RFC3339)
		}
		fmt.Fprintf(&b, "%s: to %s at %s: %s\n", e.ID, e.Recipient, when, e.Body)
	}
	return textResult(b.String()), nil, nil
}

func handleCancelScheduled(tc *ToolContext, input MessagesInput) (*mcp.CallToolResult, any, error) {
	if !tc.Messages.CancelScheduled(input.ScheduleID) {
		return textResult(fmt.Sprintf("No scheduled send with id %s.", input.ScheduleID)), nil, nil
	}
	return textResult(fmt.Sprintf("Scheduled send %s cancelled.", input.ScheduleID)), nil, nil
}

func handleUnread(ctx context.Context, tc *ToolContext, input MessagesInput) (*mcp.CallToolResult, any, error) {
	msgs, err := tc.Messages.Unread(ctx, input.Limit)
	if err != nil {
		return bridgeFailure("messages unread", err), nil, nil
	}
	if len(msgs) == 0 {
		return textResult("No unread messages."), nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d unread messages:\n\n", len(msgs))
	for _, m := range msgs {
		b.WriteString(formatMessage(m.Timestamp, m.DisplayName, m.Content))
	}
	return textResult(b.String()), nil, nil
}

func senderLabel(m messages.Message) string {
	if m.IsFromMe {
		return "Me"
	}
	return m.Sender
}

func formatMessage(ts time.Time, from, content string) string {
	return fmt.Sprintf("[%s] %s: %s\n", ts.Format("2006-01-02 15:04"), from, content)
}

func parseScheduledTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized scheduledTime %q (use RFC3339 or 2006-01-02 15:04)", value)
}
