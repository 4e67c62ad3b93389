// Package loader decides between eager and lazy module initialization at
// startup.
package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/neboloop/maclink/internal/logging"
)

// Mode says how module loading proceeded at startup. It is an explicit value
// handed to the dispatcher at construction, not process-wide state.
type Mode int

const (
	// ModeEager means all modules loaded within the startup budget.
	ModeEager Mode = iota
	// ModeLazy means startup fell back to loading each module on first use.
	ModeLazy
)

func (m Mode) String() string {
	if m == ModeEager {
		return "eager"
	}
	return "lazy"
}

// Module is anything with a one-time load step (access checks, store opens).
type Module interface {
	Load(ctx context.Context) error
}

// moduleState serializes load attempts for one module. The mutex is held for
// the duration of an attempt, so at most one is ever in flight; loaded turns
// true exactly once.
type moduleState struct {
	mu     sync.Mutex
	loaded bool
}

// Loader guards a set of named modules with at-most-one-in-flight loading.
type Loader struct {
	names   []string
	modules map[string]Module
	states  map[string]*moduleState
}

// New creates a loader over the given modules. Order is preserved for
// preload.
func New() *Loader {
	return &Loader{
		modules: make(map[string]Module),
		states:  make(map[string]*moduleState),
	}
}

// Register adds a named module.
func (l *Loader) Register(name string, m Module) {
	l.names = append(l.names, name)
	l.modules[name] = m
	l.states[name] = &moduleState{}
}

// Preload tries to load every module within the timeout. On success the
// returned mode is eager; on timeout or any load error it is lazy, and the
// failed modules retry on first real use.
func (l *Loader) Preload(ctx context.Context, timeout time.Duration) Mode {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		for _, name := range l.names {
			if err := l.load(ctx, name); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil {
			logging.Warnf("eager load failed, falling back to lazy loading: %v", err)
			return ModeLazy
		}
		logging.Infof("all modules preloaded")
		return ModeEager
	case <-ctx.Done():
		logging.Warnf("eager load exceeded %s, falling back to lazy loading", timeout)
		return ModeLazy
	}
}

// Ensure loads a module unless a previous attempt already succeeded. A
// caller arriving while another attempt is in flight waits for it; if that
// attempt failed, the caller runs its own with its own context rather than
// inheriting the stale error.
func (l *Loader) Ensure(ctx context.Context, name string) error {
	return l.load(ctx, name)
}

func (l *Loader) load(ctx context.Context, name string) error {
	m, ok := l.modules[name]
	if !ok {
		return fmt.Errorf("unknown module %q", name)
	}

	st := l.states[name]
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.loaded {
		return nil
	}
	if err := m.Load(ctx); err != nil {
		return err
	}
	st.loaded = true
	logging.Debugf("module %s loaded", name)
	return nil
}
