// Package server assembles the maclink MCP server over stdio.
package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/neboloop/maclink/internal/applescript"
	"github.com/neboloop/maclink/internal/config"
	"github.com/neboloop/maclink/internal/contacts"
	"github.com/neboloop/maclink/internal/loader"
	"github.com/neboloop/maclink/internal/logging"
	"github.com/neboloop/maclink/internal/messages"
	"github.com/neboloop/maclink/internal/reminders"
	"github.com/neboloop/maclink/internal/tools"
)

// Server bundles the MCP server with its module backends.
type Server struct {
	cfg *config.Config
	mcp *mcp.Server

	contacts  *contacts.Module
	messages  *messages.Module
	reminders *reminders.Module
	loader    *loader.Loader
}

// New wires the automation bridge, the module backends, and the tool
// registrations. Nothing talks to macOS yet; that happens in Run.
func New(cfg *config.Config, version string) *Server {
	bridge := applescript.NewRunner()

	contactsMod := contacts.New(bridge, cfg.MaxContacts)
	messagesMod := messages.New(bridge, cfg.ChatDBPath, cfg.CountryCode, contactsMod)
	remindersMod := reminders.New(bridge, cfg.DefaultList)

	l := loader.New()
	l.Register("contacts", contactsMod)
	l.Register("messages", messagesMod)
	l.Register("reminders", remindersMod)

	return &Server{
		cfg: cfg,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "maclink",
			Version: version,
		}, nil),
		contacts:  contactsMod,
		messages:  messagesMod,
		reminders: remindersMod,
		loader:    l,
	}
}

// Run preloads the modules within the configured budget, registers the tools
// with the resulting mode, and serves MCP over stdio until ctx is cancelled.
// Stdout belongs to the protocol; all logging goes to stderr.
func (s *Server) Run(ctx context.Context) error {
	defer s.messages.Close()

	mode := s.loader.Preload(ctx, s.cfg.PreloadBudget())
	logging.Infof("maclink starting in %s mode", mode)

	tools.RegisterAll(s.mcp, &tools.ToolContext{
		Contacts:  s.contacts,
		Messages:  s.messages,
		Reminders: s.reminders,
		Loader:    s.loader,
		Mode:      mode,
	})

	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
