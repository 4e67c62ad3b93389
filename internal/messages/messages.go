// Package messages sends through Messages.app and reads the local iMessage
// store.
package messages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neboloop/maclink/internal/applescript"
)

// Message is one record from the Messages store.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	IsFromMe  bool      `json:"is_from_me"`
}

// UnreadMessage is an unread record enriched with a resolved display name.
type UnreadMessage struct {
	Message
	DisplayName string `json:"display_name"`
}

// ContactResolver reverse-resolves a sender handle to a display name.
// Satisfied by contacts.Module.
type ContactResolver interface {
	NameForNumber(ctx context.Context, number string) (string, error)
}

// Module is the messages tool backend.
type Module struct {
	bridge      applescript.Bridge
	dbPath      string
	countryCode string
	resolver    ContactResolver
	sched       *Scheduler

	store *Store
}

// New creates the messages module. The store is opened on Load, not here, so
// a missing Full Disk Access grant surfaces as a load failure rather than a
// construction failure.
func New(bridge applescript.Bridge, dbPath, countryCode string, resolver ContactResolver) *Module {
	m := &Module{
		bridge:      bridge,
		dbPath:      dbPath,
		countryCode: countryCode,
		resolver:    resolver,
	}
	m.sched = NewScheduler(m.Send)
	return m
}

// Load verifies Messages automation access and opens the store.
func (m *Module) Load(ctx context.Context) error {
	if _, err := m.bridge.Run(ctx, messagesPingScript()); err != nil {
		return fmt.Errorf("messages ping failed: %w", err)
	}
	if m.store == nil {
		store, err := OpenStore(m.dbPath)
		if err != nil {
			return err
		}
		m.store = store
	}
	return nil
}

// Close releases the store and stops the scheduler.
func (m *Module) Close() {
	m.sched.Stop()
	if m.store != nil {
		m.store.Close()
	}
}

// Send delivers a message immediately.
func (m *Module) Send(ctx context.Context, recipient, body string) error {
	if _, err := m.bridge.Run(ctx, sendScript(recipient, body)); err != nil {
		return err
	}
	return nil
}

// Read returns the newest messages exchanged with a phone number or email.
func (m *Module) Read(ctx context.Context, handle string, limit int) ([]Message, error) {
	if err := m.ensureStore(); err != nil {
		return nil, err
	}
	return m.store.Recent(ctx, m.handleForms(handle), limit)
}

// Unread returns unread incoming messages, each carrying a display name:
// "Me" for self-originated records, the resolved contact name otherwise,
// falling back to the raw handle.
func (m *Module) Unread(ctx context.Context, limit int) ([]UnreadMessage, error) {
	if err := m.ensureStore(); err != nil {
		return nil, err
	}
	msgs, err := m.store.Unread(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]UnreadMessage, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, UnreadMessage{Message: msg, DisplayName: m.displayName(ctx, msg)})
	}
	return out, nil
}

// Schedule registers a future one-shot send, or a recurring one when spec is
// a cron expression. Exactly one of at/spec is set by the caller.
func (m *Module) Schedule(recipient, body string, at time.Time, spec string) (Entry, error) {
	if spec != "" {
		return m.sched.ScheduleCron(recipient, body, spec)
	}
	return m.sched.Schedule(recipient, body, at)
}

// Scheduled lists pending scheduled sends.
func (m *Module) Scheduled() []Entry {
	return m.sched.Scheduled()
}

// CancelScheduled cancels a pending scheduled send.
func (m *Module) CancelScheduled(id string) bool {
	return m.sched.Cancel(id)
}

func (m *Module) displayName(ctx context.Context, msg Message) string {
	if msg.IsFromMe {
		return "Me"
	}
	if m.resolver != nil {
		if name, err := m.resolver.NameForNumber(ctx, msg.Sender); err == nil && name != "" {
			return name
		}
	}
	return msg.Sender
}

func (m *Module) ensureStore() error {
	if m.store == nil {
		store, err := OpenStore(m.dbPath)
		if err != nil {
			return err
		}
		m.store = store
	}
	return nil
}

// handleForms expands a phone number or email into the handle spellings
// chat.db may have stored: raw, bare digits, +digits, and +<country>digits.
func (m *Module) handleForms(handle string) []string {
	forms := []string{handle}
	if strings.Contains(handle, "@") {
		return forms
	}

	digits := digitsOf(handle)
	if digits == "" {
		return forms
	}

	seen := map[string]bool{handle: true}
	add := func(f string) {
		if f != "" && !seen[f] {
			seen[f] = true
			forms = append(forms, f)
		}
	}
	add(digits)
	add("+" + digits)
	if cc := strings.TrimPrefix(m.countryCode, "+"); cc != "" && !strings.HasPrefix(digits, cc) {
		add("+" + cc + digits)
	}
	return forms
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
