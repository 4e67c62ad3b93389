// Package applescript executes AppleScript against native macOS applications
// via osascript and classifies its failures.
package applescript

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single osascript invocation. Automation prompts can
// hang for a long time when the user ignores them.
const DefaultTimeout = 30 * time.Second

// Bridge is the minimal surface the tool modules depend on. The concrete
// Runner shells out to osascript; tests substitute a fake.
type Bridge interface {
	Run(ctx context.Context, script string) (string, error)
	RunJSON(ctx context.Context, script string, v any) error
}

// Runner executes scripts through /usr/bin/osascript.
type Runner struct {
	Timeout time.Duration
}

// NewRunner returns a Runner with the default timeout.
func NewRunner() *Runner {
	return &Runner{Timeout: DefaultTimeout}
}

// Run executes a script and returns its trimmed combined output. Failures
// carry the osascript diagnostic text.
func (r *Runner) Run(ctx context.Context, script string) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	text := strings.TrimSpace(string(output))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("osascript timed out after %s", timeout)
		}
		if text != "" {
			return "", fmt.Errorf("osascript: %s", text)
		}
		return "", fmt.Errorf("osascript: %w", err)
	}
	return text, nil
}

// RunJSON executes a script whose return value is a JSON document and decodes
// it into v. The bridge gives no schema guarantee, so callers keep their
// target types loose and coerce defensively.
func (r *Runner) RunJSON(ctx context.Context, script string, v any) error {
	out, err := r.Run(ctx, script)
	if err != nil {
		return err
	}
	if out == "" {
		return fmt.Errorf("osascript returned no output")
	}
	if err := json.Unmarshal([]byte(out), v); err != nil {
		return fmt.Errorf("unexpected osascript output %q: %w", truncate(out, 120), err)
	}
	return nil
}

// IsAccessError reports whether an error looks like a macOS automation
// permission denial. Those are surfaced to the caller verbatim so the user
// sees the exact System Settings hint.
func IsAccessError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "access")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
