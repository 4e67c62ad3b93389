// Package contacts reads the macOS Contacts directory through the automation
// bridge and resolves free-text names against it.
package contacts

import (
	"context"
	"fmt"
	"strings"

	"github.com/neboloop/maclink/internal/applescript"
	"github.com/neboloop/maclink/internal/logging"
)

// Directory is a transient snapshot of name to phone numbers, in the order
// the bridge returned them. It is rebuilt per query and never cached.
type Directory struct {
	names   []string
	numbers map[string][]string
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{numbers: make(map[string][]string)}
}

// Add appends an entry, merging numbers when the name repeats.
func (d *Directory) Add(name string, nums []string) {
	if name == "" || len(nums) == 0 {
		return
	}
	if _, seen := d.numbers[name]; !seen {
		d.names = append(d.names, name)
	}
	d.numbers[name] = append(d.numbers[name], nums...)
}

// Names returns entry names in snapshot order.
func (d *Directory) Names() []string {
	return d.names
}

// Numbers returns the phone numbers for an exact display name.
func (d *Directory) Numbers(name string) []string {
	return d.numbers[name]
}

// Len returns the number of entries.
func (d *Directory) Len() int {
	return len(d.names)
}

// Module is the contacts tool backend.
type Module struct {
	bridge      applescript.Bridge
	maxContacts int
}

// New creates the contacts module. maxContacts bounds every snapshot so a
// huge address book cannot stall the bridge.
func New(bridge applescript.Bridge, maxContacts int) *Module {
	if maxContacts <= 0 {
		maxContacts = 500
	}
	return &Module{bridge: bridge, maxContacts: maxContacts}
}

// Load verifies Contacts automation access with the cheapest possible call.
func (m *Module) Load(ctx context.Context) error {
	if _, err := m.bridge.Run(ctx, pingScript()); err != nil {
		return fmt.Errorf("contacts ping failed: %w", err)
	}
	return nil
}

// Snapshot enumerates people with phone numbers, bounded by maxContacts.
func (m *Module) Snapshot(ctx context.Context) (*Directory, error) {
	out, err := m.bridge.Run(ctx, enumerateScript(m.maxContacts))
	if err != nil {
		return nil, err
	}
	dir := parseDirectory(out)
	logging.Debugf("contacts snapshot: %d entries", dir.Len())
	return dir, nil
}

// PhonesFor resolves a free-text name to a display name and its numbers. An
// exact automation-side match short-circuits the fuzzy chain. A miss is not
// an error: both return values are empty.
func (m *Module) PhonesFor(ctx context.Context, name string) (string, []string, error) {
	out, err := m.bridge.Run(ctx, exactSearchScript(name))
	if err != nil {
		return "", nil, err
	}
	if exact := parseDirectory(out); exact.Len() > 0 {
		first := exact.Names()[0]
		return first, exact.Numbers(first), nil
	}

	dir, err := m.Snapshot(ctx)
	if err != nil {
		return "", nil, err
	}
	matched := Resolve(name, dir)
	if matched == "" {
		return "", nil, nil
	}
	return matched, dir.Numbers(matched), nil
}

// NameForNumber reverse-resolves a phone number to a display name, or ""
// when nothing matches.
func (m *Module) NameForNumber(ctx context.Context, number string) (string, error) {
	dir, err := m.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return ResolveNumber(number, dir), nil
}

// parseDirectory decodes the "name<TAB>num;num" line format the scripts emit.
func parseDirectory(out string) *Directory {
	dir := NewDirectory()
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, rawNums, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		var nums []string
		for _, n := range strings.Split(rawNums, ";") {
			if n = strings.TrimSpace(n); n != "" {
				nums = append(nums, n)
			}
		}
		dir.Add(strings.TrimSpace(name), nums)
	}
	return dir
}
