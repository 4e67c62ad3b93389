package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/neboloop/maclink/internal/logging"
)

// ContactsInput defines input for the contacts MCP tool.
type ContactsInput struct {
	Name string `json:"name,omitempty" jsonschema:"Name to search for (optional - if not provided, returns all contacts). Partial names and nicknames work."`
}

// RegisterContactsTool registers the contacts MCP tool.
func RegisterContactsTool(server *mcp.Server, tc *ToolContext) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "contacts",
		Title:       "Contacts Search",
		Description: "Search and retrieve contacts from Apple Contacts. With no name, lists every contact that has a phone number. With a name, resolves it fuzzily (partial names, nicknames, and typos tolerated) to that contact's phone numbers.",
	}, contactsHandler(tc))
}

func contactsHandler(tc *ToolContext) func(ctx context.Context, req *mcp.CallToolRequest, input ContactsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ContactsInput) (*mcp.CallToolResult, any, error) {
		rid := requestID()
		logging.Debugf("[%s] contacts name=%q", rid, input.Name)

		if err := tc.ensure(ctx, "contacts"); err != nil {
			return bridgeFailure("contacts", err), nil, nil
		}

		if strings.TrimSpace(input.Name) == "" {
			return listAllContacts(ctx, tc)
		}
		return findContact(ctx, tc, input.Name)
	}
}

func listAllContacts(ctx context.Context, tc *ToolContext) (*mcp.CallToolResult, any, error) {
	dir, err := tc.Contacts.Snapshot(ctx)
	if err != nil {
		return bridgeFailure("contacts", err), nil, nil
	}
	if dir.Len() == 0 {
		return textResult("No contacts with phone numbers found."), nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d contacts:\n\n", dir.Len())
	for _, name := range dir.Names() {
		fmt.Fprintf(&b, "%s: %s\n", name, strings.Join(dir.Numbers(name), ", "))
	}
	return textResult(b.String()), nil, nil
}

func findContact(ctx context.Context, tc *ToolContext, query string) (*mcp.CallToolResult, any, error) {
	name, numbers, err := tc.Contacts.PhonesFor(ctx, query)
	if err != nil {
		return bridgeFailure("contacts", err), nil, nil
	}
	if name == "" || len(numbers) == 0 {
		// A miss is a successful response, not an error.
		return textResult(fmt.Sprintf(
			"No contact found matching %q. Try a shorter or partial name, or leave the name out to list all contacts.", query)), nil, nil
	}
	return textResult(fmt.Sprintf("%s: %s", name, strings.Join(numbers, ", "))), nil, nil
}
