// Package reminders drives Reminders.app through the automation bridge.
package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neboloop/maclink/internal/applescript"
)

// Reminder is one record from Reminders.app.
type Reminder struct {
	Name      string `json:"name"`
	ID        string `json:"id,omitempty"`
	List      string `json:"list,omitempty"`
	DueDate   string `json:"dueDate,omitempty"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

// List is a reminder list.
type List struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

const (
	fieldSep = "\x1f"
	recSep   = "\x1e"
)

// Module is the reminders tool backend.
type Module struct {
	bridge      applescript.Bridge
	defaultList string
}

// New creates the reminders module. defaultList receives creates that omit a
// list name.
func New(bridge applescript.Bridge, defaultList string) *Module {
	if defaultList == "" {
		defaultList = "Reminders"
	}
	return &Module{bridge: bridge, defaultList: defaultList}
}

// Load verifies Reminders automation access.
func (m *Module) Load(ctx context.Context) error {
	if _, err := m.bridge.Run(ctx, pingScript()); err != nil {
		return fmt.Errorf("reminders ping failed: %w", err)
	}
	return nil
}

// Lists returns all reminder lists.
func (m *Module) Lists(ctx context.Context) ([]List, error) {
	out, err := m.bridge.Run(ctx, listsScript())
	if err != nil {
		return nil, err
	}
	var lists []List
	for _, rec := range splitRecords(out) {
		fields := strings.Split(rec, fieldSep)
		if len(fields) < 2 {
			continue
		}
		lists = append(lists, List{Name: fields[0], ID: fields[1]})
	}
	return lists, nil
}

// All returns every incomplete reminder across all lists.
func (m *Module) All(ctx context.Context) ([]Reminder, error) {
	out, err := m.bridge.Run(ctx, allRemindersScript())
	if err != nil {
		return nil, err
	}
	return parseReminders(out), nil
}

// Search returns reminders whose name contains the query.
func (m *Module) Search(ctx context.Context, query string) ([]Reminder, error) {
	out, err := m.bridge.Run(ctx, searchScript(query))
	if err != nil {
		return nil, err
	}
	return parseReminders(out), nil
}

// Open searches for a reminder and brings Reminders.app to the foreground on
// its list. Returns the matched reminder, or nil when nothing matched.
func (m *Module) Open(ctx context.Context, query string) (*Reminder, error) {
	matches, err := m.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	target := matches[0]
	if _, err := m.bridge.Run(ctx, openScript(target.List)); err != nil {
		return nil, err
	}
	return &target, nil
}

// Create makes a new reminder. Only the name is required; the due date, when
// present, must be RFC3339 or "2006-01-02 15:04".
func (m *Module) Create(ctx context.Context, name, list, notes, due string) (*Reminder, error) {
	if list == "" {
		list = m.defaultList
	}

	var dueTime *time.Time
	if due != "" {
		parsed, err := parseDue(due)
		if err != nil {
			return nil, err
		}
		dueTime = &parsed
	}

	out, err := m.bridge.Run(ctx, createScript(name, list, notes, dueTime))
	if err != nil {
		return nil, err
	}
	created := parseReminders(out)
	if len(created) == 0 {
		// The bridge returned nothing parseable; the reminder may still
		// exist. Report what we asked for.
		return &Reminder{Name: name, List: list, Notes: notes, DueDate: due}, nil
	}
	return &created[0], nil
}

// ListByID returns every reminder in the list with the given id.
func (m *Module) ListByID(ctx context.Context, listID string) ([]Reminder, error) {
	out, err := m.bridge.Run(ctx, listByIDScript(listID))
	if err != nil {
		return nil, err
	}
	return parseReminders(out), nil
}

func parseDue(due string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, due, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized due date %q (use RFC3339 or 2006-01-02 15:04)", due)
}

func splitRecords(out string) []string {
	var recs []string
	for _, rec := range strings.Split(out, recSep) {
		rec = strings.Trim(rec, "\r\n")
		if rec != "" {
			recs = append(recs, rec)
		}
	}
	return recs
}

// parseReminders decodes the separator-framed rows the scripts emit:
// list, name, id, due, completed, notes.
func parseReminders(out string) []Reminder {
	var reminders []Reminder
	for _, rec := range splitRecords(out) {
		fields := strings.SplitN(rec, fieldSep, 6)
		if len(fields) < 6 {
			continue
		}
		reminders = append(reminders, Reminder{
			List:      fields[0],
			Name:      fields[1],
			ID:        fields[2],
			DueDate:   fields[3],
			Completed: fields[4] == "true",
			Notes:     fields[5],
		})
	}
	return reminders
}
