package messages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	names map[string]string
	err   error
}

func (f *fakeResolver) NameForNumber(ctx context.Context, number string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.names[number], nil
}

func TestDisplayNameSelfIsMe(t *testing.T) {
	m := New(nil, "", "+1", &fakeResolver{names: map[string]string{"+15550102030": "Jon Smith"}})

	got := m.displayName(context.Background(), Message{Sender: "+15550102030", IsFromMe: true})
	assert.Equal(t, "Me", got)
}

func TestDisplayNameResolved(t *testing.T) {
	m := New(nil, "", "+1", &fakeResolver{names: map[string]string{"+15550102030": "Jon Smith"}})

	got := m.displayName(context.Background(), Message{Sender: "+15550102030"})
	assert.Equal(t, "Jon Smith", got)
}

func TestDisplayNameFallsBackToHandle(t *testing.T) {
	tests := []struct {
		name     string
		resolver ContactResolver
	}{
		{"no match", &fakeResolver{}},
		{"resolver error", &fakeResolver{err: errors.New("bridge down")}},
		{"nil resolver", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := New(nil, "", "+1", tc.resolver)
			got := m.displayName(context.Background(), Message{Sender: "+15550199999"})
			assert.Equal(t, "+15550199999", got)
		})
	}
}

func TestHandleForms(t *testing.T) {
	m := New(nil, "", "+1", nil)

	forms := m.handleForms("(555) 010-2030")
	assert.Equal(t, []string{"(555) 010-2030", "5550102030", "+5550102030", "+15550102030"}, forms)
}

func TestHandleFormsEmailUntouched(t *testing.T) {
	m := New(nil, "", "+1", nil)

	assert.Equal(t, []string{"jon@example.com"}, m.handleForms("jon@example.com"))
}

func TestHandleFormsAlreadyInternational(t *testing.T) {
	m := New(nil, "", "+1", nil)

	// Country prefix is not doubled up.
	forms := m.handleForms("+15550102030")
	assert.Equal(t, []string{"+15550102030", "15550102030"}, forms)
}

func TestAppleTime(t *testing.T) {
	// Nanosecond storage (modern macOS).
	ns := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	raw := ns.Sub(appleEpoch).Nanoseconds()
	assert.True(t, appleTime(raw).Equal(ns))

	// Second storage (legacy databases).
	secs := int64(700000000)
	assert.True(t, appleTime(secs).Equal(appleEpoch.Add(time.Duration(secs)*time.Second)))
}

func TestSendScriptEscapesBody(t *testing.T) {
	script := sendScript(`+1555"0102030`, `say "hi" \ bye`)
	assert.Contains(t, script, `set theBody to "say \"hi\" \\ bye"`)
	assert.Contains(t, script, `set theRecipient to "+1555\"0102030"`)
}

func TestSchedulerRejectsPastTime(t *testing.T) {
	s := NewScheduler(func(ctx context.Context, recipient, body string) error { return nil })
	defer s.Stop()

	_, err := s.Schedule("+15550102030", "hi", time.Now().Add(-time.Minute))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in the future")
	assert.Empty(t, s.Scheduled())
}

func TestSchedulerFiresOneShot(t *testing.T) {
	fired := make(chan string, 1)
	s := NewScheduler(func(ctx context.Context, recipient, body string) error {
		fired <- recipient + "|" + body
		return nil
	})
	defer s.Stop()

	_, err := s.Schedule("+15550102030", "hello", time.Now().Add(20*time.Millisecond))
	require.NoError(t, err)

	select {
	case got := <-fired:
		assert.Equal(t, "+15550102030|hello", got)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled send never fired")
	}

	// Fired entries are removed.
	require.Eventually(t, func() bool { return len(s.Scheduled()) == 0 }, time.Second, 10*time.Millisecond)
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler(func(ctx context.Context, recipient, body string) error {
		t.Error("cancelled entry fired")
		return nil
	})
	defer s.Stop()

	entry, err := s.Schedule("+15550102030", "never", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, s.Scheduled(), 1)

	assert.True(t, s.Cancel(entry.ID))
	assert.Empty(t, s.Scheduled())
	assert.False(t, s.Cancel(entry.ID))
}

func TestSchedulerCronValidation(t *testing.T) {
	s := NewScheduler(func(ctx context.Context, recipient, body string) error { return nil })
	defer s.Stop()

	_, err := s.ScheduleCron("+15550102030", "daily", "not a cron spec")
	require.Error(t, err)

	entry, err := s.ScheduleCron("+15550102030", "daily", "0 9 * * *")
	require.NoError(t, err)
	assert.Equal(t, "0 9 * * *", entry.Spec)
	require.Len(t, s.Scheduled(), 1)
	assert.True(t, s.Cancel(entry.ID))
}
