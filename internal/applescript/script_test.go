package applescript

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `plain`},
		{`say "hi"`, `say \"hi\"`},
		{`back\slash`, `back\\slash`},
		{`both \"`, `both \\\"`},
	}
	for _, tc := range tests {
		if got := Escape(tc.in); got != tc.want {
			t.Errorf("Escape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestScriptLineEscapesStrings(t *testing.T) {
	s := NewScript().
		Raw(`tell application "Contacts"`).
		Line(`set q to "%s"`, `Jon "Q" Smith`).
		Raw("end tell").
		String()

	assert.Contains(t, s, `set q to "Jon \"Q\" Smith"`)
	assert.NotContains(t, s, `"Jon "Q" Smith"`)
}

func TestScriptLineNonStringArgs(t *testing.T) {
	s := NewScript().Line("set maxCount to %d", 250).String()
	assert.Equal(t, "set maxCount to 250\n", s)
}

func TestIsAccessError(t *testing.T) {
	assert.True(t, IsAccessError(errors.New("osascript: Not authorized to send Apple events: access for assistive devices is disabled")))
	assert.True(t, IsAccessError(errors.New("maclink needs Full Disk Access to read messages")))
	assert.False(t, IsAccessError(errors.New("osascript: Contacts got an error: list index out of range")))
	assert.False(t, IsAccessError(nil))
}
