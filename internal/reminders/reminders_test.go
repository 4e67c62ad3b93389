package reminders

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBridge struct {
	responses map[string]string
	err       error
	scripts   []string
}

func (f *fakeBridge) Run(ctx context.Context, script string) (string, error) {
	f.scripts = append(f.scripts, script)
	if f.err != nil {
		return "", f.err
	}
	for marker, out := range f.responses {
		if strings.Contains(script, marker) {
			return out, nil
		}
	}
	return "", nil
}

func (f *fakeBridge) RunJSON(ctx context.Context, script string, v any) error {
	return errors.New("not used")
}

func row(fields ...string) string {
	return strings.Join(fields, fieldSep) + recSep
}

func TestListsParsing(t *testing.T) {
	bridge := &fakeBridge{responses: map[string]string{
		"repeat with l in lists": row("Groceries", "x-apple-list://AAA") + row("Work", "x-apple-list://BBB"),
	}}
	m := New(bridge, "")

	lists, err := m.Lists(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, List{Name: "Groceries", ID: "x-apple-list://AAA"}, lists[0])
}

func TestSearchParsesRows(t *testing.T) {
	bridge := &fakeBridge{responses: map[string]string{
		"queryText": row("Groceries", "Buy milk", "x-apple-reminder://CCC", "2026-08-24T09:00:00", "false", "2% if they have it"),
	}}
	m := New(bridge, "")

	got, err := m.Search(context.Background(), "milk")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Buy milk", got[0].Name)
	assert.Equal(t, "Groceries", got[0].List)
	assert.Equal(t, "2% if they have it", got[0].Notes)
	assert.False(t, got[0].Completed)
}

func TestSearchNotesMayContainNewlines(t *testing.T) {
	bridge := &fakeBridge{responses: map[string]string{
		"queryText": row("Inbox", "Call Jon", "x-apple-reminder://DDD", "", "true", "line one\nline two"),
	}}
	m := New(bridge, "")

	got, err := m.Search(context.Background(), "call")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "line one\nline two", got[0].Notes)
	assert.True(t, got[0].Completed)
}

func TestOpenReturnsNilOnMiss(t *testing.T) {
	bridge := &fakeBridge{}
	m := New(bridge, "")

	got, err := m.Open(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Nil(t, got)
	// No activate call when nothing matched.
	require.Len(t, bridge.scripts, 1)
}

func TestOpenActivatesMatchedList(t *testing.T) {
	bridge := &fakeBridge{responses: map[string]string{
		"queryText": row("Work", "Ship release", "x-apple-reminder://EEE", "", "false", ""),
		"activate":  "opened",
	}}
	m := New(bridge, "")

	got, err := m.Open(context.Background(), "ship")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ship release", got.Name)
	require.Len(t, bridge.scripts, 2)
	assert.Contains(t, bridge.scripts[1], `set listName to "Work"`)
}

func TestCreateDefaultsListAndEchoesName(t *testing.T) {
	bridge := &fakeBridge{responses: map[string]string{
		"make new reminder": row("Reminders", "Water plants", "x-apple-reminder://FFF", "", "false", ""),
	}}
	m := New(bridge, "")

	created, err := m.Create(context.Background(), "Water plants", "", "", "")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Water plants", created.Name)
	assert.Contains(t, bridge.scripts[0], `set listName to "Reminders"`)
}

func TestCreateRejectsBadDueDate(t *testing.T) {
	bridge := &fakeBridge{}
	m := New(bridge, "")

	_, err := m.Create(context.Background(), "Dentist", "", "", "next tuesday-ish")
	require.Error(t, err)
	// Validation failures never reach the bridge.
	assert.Empty(t, bridge.scripts)
}

func TestCreateAcceptsDueDateLayouts(t *testing.T) {
	for _, due := range []string{"2026-09-01T09:30:00Z", "2026-09-01 09:30", "2026-09-01"} {
		bridge := &fakeBridge{responses: map[string]string{
			"make new reminder": row("Reminders", "Dentist", "x-apple-reminder://GGG", due, "false", ""),
		}}
		m := New(bridge, "")

		created, err := m.Create(context.Background(), "Dentist", "", "", due)
		require.NoError(t, err, due)
		require.NotNil(t, created)
		assert.Contains(t, bridge.scripts[0], "set year of dueDate to 2026")
	}
}

func TestCreateEscapesName(t *testing.T) {
	bridge := &fakeBridge{}
	m := New(bridge, "")

	_, err := m.Create(context.Background(), `say "done"`, "", "", "")
	require.NoError(t, err)
	assert.Contains(t, bridge.scripts[0], `set newName to "say \"done\""`)
}

func TestBridgeErrorPropagates(t *testing.T) {
	bridge := &fakeBridge{err: errors.New("osascript: Reminders access denied")}
	m := New(bridge, "")

	_, err := m.All(context.Background())
	require.Error(t, err)
}
