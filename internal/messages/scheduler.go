package messages

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	cronlib "github.com/robfig/cron/v3"

	"github.com/neboloop/maclink/internal/logging"
)

// SendFunc delivers a message when a scheduled entry fires.
type SendFunc func(ctx context.Context, recipient, body string) error

// Entry is a pending scheduled send. One-shot entries carry At; recurring
// entries carry the cron Spec instead.
type Entry struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Body      string    `json:"body"`
	At        time.Time `json:"at,omitempty"`
	Spec      string    `json:"spec,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Scheduler holds scheduled sends in process. Entries do not survive a
// restart; callers are told as much when they schedule.
type Scheduler struct {
	mu      sync.Mutex
	send    SendFunc
	cron    *cronlib.Cron
	entries map[string]Entry
	timers  map[string]*time.Timer
	cronIDs map[string]cronlib.EntryID
	now     func() time.Time
}

// NewScheduler creates a scheduler delivering through send.
func NewScheduler(send SendFunc) *Scheduler {
	s := &Scheduler{
		send:    send,
		cron:    cronlib.New(),
		entries: make(map[string]Entry),
		timers:  make(map[string]*time.Timer),
		cronIDs: make(map[string]cronlib.EntryID),
		now:     time.Now,
	}
	s.cron.Start()
	return s
}

// Schedule registers a one-shot send at a future time.
func (s *Scheduler) Schedule(recipient, body string, at time.Time) (Entry, error) {
	if !at.After(s.now()) {
		return Entry{}, fmt.Errorf("scheduled time %s is not in the future", at.Format(time.RFC3339))
	}

	entry := Entry{
		ID:        uuid.New().String(),
		Recipient: recipient,
		Body:      body,
		At:        at,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = entry
	s.timers[entry.ID] = time.AfterFunc(at.Sub(s.now()), func() {
		s.fire(entry)
		s.remove(entry.ID)
	})
	return entry, nil
}

// ScheduleCron registers a recurring send from a standard cron expression.
func (s *Scheduler) ScheduleCron(recipient, body, spec string) (Entry, error) {
	entry := Entry{
		ID:        uuid.New().String(),
		Recipient: recipient,
		Body:      body,
		Spec:      spec,
		CreatedAt: s.now(),
	}

	id, err := s.cron.AddFunc(spec, func() { s.fire(entry) })
	if err != nil {
		return Entry{}, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = entry
	s.cronIDs[entry.ID] = id
	return entry, nil
}

// Scheduled lists pending entries, oldest first.
func (s *Scheduler) Scheduled() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Cancel removes a pending entry. Returns false when the ID is unknown.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	_, ok := s.entries[id]
	s.mu.Unlock()
	if !ok {
		return false
	}
	s.remove(id)
	return true
}

// Stop cancels everything and stops the cron runner.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = make(map[string]*time.Timer)
	s.entries = make(map[string]Entry)
	s.cronIDs = make(map[string]cronlib.EntryID)
	s.mu.Unlock()
	s.cron.Stop()
}

func (s *Scheduler) fire(entry Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := s.send(ctx, entry.Recipient, entry.Body); err != nil {
		logging.Errorf("scheduled send %s to %s failed: %v", entry.ID, entry.Recipient, err)
		return
	}
	logging.Infof("scheduled send %s delivered to %s", entry.ID, entry.Recipient)
}

func (s *Scheduler) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	if cid, ok := s.cronIDs[id]; ok {
		s.cron.Remove(cid)
		delete(s.cronIDs, id)
	}
	delete(s.entries, id)
}
