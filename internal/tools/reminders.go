package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/neboloop/maclink/internal/logging"
	"github.com/neboloop/maclink/internal/reminders"
)

var reminderOperations = []string{"list", "search", "open", "create", "listById"}

// RemindersInput defines input for the reminders MCP tool.
type RemindersInput struct {
	Operation  string   `json:"operation" jsonschema:"required,Operation: list, search, open, create, listById"`
	SearchText string   `json:"searchText,omitempty" jsonschema:"Text to search reminder names for (required for search and open)."`
	Name       string   `json:"name,omitempty" jsonschema:"Reminder name (required for create)."`
	ListName   string   `json:"listName,omitempty" jsonschema:"Reminder list name (create uses the configured default when omitted)."`
	ListID     string   `json:"listId,omitempty" jsonschema:"Reminder list ID (required for listById)."`
	Notes      string   `json:"notes,omitempty" jsonschema:"Notes for the reminder (create)."`
	DueDate    string   `json:"dueDate,omitempty" jsonschema:"Due date, RFC3339 or '2006-01-02 15:04' (create)."`
	Props      []string `json:"props,omitempty" jsonschema:"Reminder properties to include in listById output (default: all)."`
}

// reminderEnvelope is the uniform success/failure wrapper every reminders
// operation returns, serialized as the text content.
type reminderEnvelope struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message,omitempty"`
	Lists     []reminders.List `json:"lists,omitempty"`
	Reminders []map[string]any `json:"reminders,omitempty"`
	Reminder  map[string]any   `json:"reminder,omitempty"`
}

// RegisterRemindersTool registers the reminders MCP tool.
func RegisterRemindersTool(server *mcp.Server, tc *ToolContext) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "reminders",
		Title:       "Reminders",
		Description: "Manage Apple Reminders: list all reminders and lists, search by name, open a reminder in the Reminders app, create new reminders with optional notes and due dates, and list reminders in a specific list by ID.",
	}, remindersHandler(tc))
}

func remindersHandler(tc *ToolContext) func(ctx context.Context, req *mcp.CallToolRequest, input RemindersInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RemindersInput) (*mcp.CallToolResult, any, error) {
		rid := requestID()
		logging.Debugf("[%s] reminders op=%q", rid, input.Operation)

		if !slices.Contains(reminderOperations, input.Operation) {
			return nil, nil, NewValidationError(
				fmt.Sprintf("invalid operation %q, must be: %s", input.Operation, strings.Join(reminderOperations, ", ")),
				"operation")
		}
		if err := validateRemindersInput(input); err != nil {
			return nil, nil, err
		}

		if err := tc.ensure(ctx, "reminders"); err != nil {
			return bridgeFailure("reminders "+input.Operation, err), nil, nil
		}

		switch input.Operation {
		case "list":
			return handleRemindersList(ctx, tc, input)
		case "search":
			return handleRemindersSearch(ctx, tc, input)
		case "open":
			return handleRemindersOpen(ctx, tc, input)
		case "create":
			return handleRemindersCreate(ctx, tc, input)
		case "listById":
			return handleRemindersListByID(ctx, tc, input)
		}
		return nil, nil, nil
	}
}

func validateRemindersInput(input RemindersInput) error {
	switch input.Operation {
	case "search", "open":
		if input.SearchText == "" {
			return NewValidationError("searchText is required for "+input.Operation, "searchText")
		}
	case "create":
		if input.Name == "" {
			return NewValidationError("name is required for create", "name")
		}
	case "listById":
		if input.ListID == "" {
			return NewValidationError("listId is required for listById", "listId")
		}
	}
	return nil
}

func handleRemindersList(ctx context.Context, tc *ToolContext, input RemindersInput) (*mcp.CallToolResult, any, error) {
	lists, err := tc.Reminders.Lists(ctx)
	if err != nil {
		return bridgeFailure("reminders list", err), nil, nil
	}
	all, err := tc.Reminders.All(ctx)
	if err != nil {
		return bridgeFailure("reminders list", err), nil, nil
	}

	return envelopeResult(reminderEnvelope{
		Success:   true,
		Message:   fmt.Sprintf("Found %d lists and %d incomplete reminders.", len(lists), len(all)),
		Lists:     lists,
		Reminders: projectAll(all, nil),
	}), nil, nil
}

func handleRemindersSearch(ctx context.Context, tc *ToolContext, input RemindersInput) (*mcp.CallToolResult, any, error) {
	found, err := tc.Reminders.Search(ctx, input.SearchText)
	if err != nil {
		return bridgeFailure("reminders search", err), nil, nil
	}
	msg := fmt.Sprintf("Found %d reminders matching %q.", len(found), input.SearchText)
	if len(found) == 0 {
		msg = fmt.Sprintf("No reminders matching %q.", input.SearchText)
	}
	return envelopeResult(reminderEnvelope{
		Success:   true,
		Message:   msg,
		Reminders: projectAll(found, nil),
	}), nil, nil
}

func handleRemindersOpen(ctx context.Context, tc *ToolContext, input RemindersInput) (*mcp.CallToolResult, any, error) {
	opened, err := tc.Reminders.Open(ctx, input.SearchText)
	if err != nil {
		return bridgeFailure("reminders open", err), nil, nil
	}
	if opened == nil {
		// Not found is a successful response with an explanation.
		return envelopeResult(reminderEnvelope{
			Success: true,
			Message: fmt.Sprintf("No reminder matching %q to open.", input.SearchText),
		}), nil, nil
	}
	return envelopeResult(reminderEnvelope{
		Success:  true,
		Message:  fmt.Sprintf("Opened Reminders on %q.", opened.Name),
		Reminder: project(*opened, nil),
	}), nil, nil
}

func handleRemindersCreate(ctx context.Context, tc *ToolContext, input RemindersInput) (*mcp.CallToolResult, any, error) {
	created, err := tc.Reminders.Create(ctx, input.Name, input.ListName, input.Notes, input.DueDate)
	if err != nil {
		return bridgeFailure("reminders create", err), nil, nil
	}
	return envelopeResult(reminderEnvelope{
		Success:  true,
		Message:  fmt.Sprintf("Created reminder %q.", created.Name),
		Reminder: project(*created, nil),
	}), nil, nil
}

func handleRemindersListByID(ctx context.Context, tc *ToolContext, input RemindersInput) (*mcp.CallToolResult, any, error) {
	found, err := tc.Reminders.ListByID(ctx, input.ListID)
	if err != nil {
		return bridgeFailure("reminders listById", err), nil, nil
	}
	return envelopeResult(reminderEnvelope{
		Success:   true,
		Message:   fmt.Sprintf("Found %d reminders in list %s.", len(found), input.ListID),
		Reminders: projectAll(found, input.Props),
	}), nil, nil
}

func envelopeResult(env reminderEnvelope) *mcp.CallToolResult {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		logging.Errorf("reminders envelope marshal: %v", err)
		return errorResult("reminders: failed to encode response")
	}
	return textResult(string(data))
}

// project renders a reminder as a map restricted to the requested props.
// An empty props list keeps everything.
func project(r reminders.Reminder, props []string) map[string]any {
	full := map[string]any{
		"name":      r.Name,
		"id":        r.ID,
		"list":      r.List,
		"dueDate":   r.DueDate,
		"completed": r.Completed,
		"notes":     r.Notes,
	}
	if len(props) == 0 {
		return full
	}
	out := make(map[string]any, len(props))
	for _, p := range props {
		if v, ok := full[p]; ok {
			out[p] = v
		}
	}
	// The name always survives projection so results stay identifiable.
	if _, ok := out["name"]; !ok {
		out["name"] = r.Name
	}
	return out
}

func projectAll(rs []reminders.Reminder, props []string) []map[string]any {
	out := make([]map[string]any, 0, len(rs))
	for _, r := range rs {
		out = append(out, project(r, props))
	}
	return out
}
