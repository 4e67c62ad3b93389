package applescript

import (
	"fmt"
	"strings"
)

// Escape prepares a value for interpolation inside a double-quoted
// AppleScript string literal.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

// Script builds an AppleScript body line by line. String arguments passed to
// Line are escaped before interpolation, so call sites never concatenate raw
// user input into script source.
type Script struct {
	b strings.Builder
}

// NewScript returns an empty script builder.
func NewScript() *Script {
	return &Script{}
}

// Line appends a formatted line. String args are escaped; everything else is
// passed through to fmt untouched.
func (s *Script) Line(format string, args ...any) *Script {
	escaped := make([]any, len(args))
	for i, a := range args {
		if str, ok := a.(string); ok {
			escaped[i] = Escape(str)
		} else {
			escaped[i] = a
		}
	}
	fmt.Fprintf(&s.b, format, escaped...)
	s.b.WriteByte('\n')
	return s
}

// Raw appends a line verbatim. For script text that contains no caller data.
func (s *Script) Raw(line string) *Script {
	s.b.WriteString(line)
	s.b.WriteByte('\n')
	return s
}

// String returns the assembled script.
func (s *Script) String() string {
	return s.b.String()
}
