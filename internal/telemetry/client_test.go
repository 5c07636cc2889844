package telemetry

import (
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/posthog/posthog-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockEnqueuer captures events for testing.
type mockEnqueuer struct {
	mu     sync.Mutex
	events []posthog.Capture
	closes int
	err    error
}

func (m *mockEnqueuer) Enqueue(msg posthog.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if capture, ok := msg.(posthog.Capture); ok {
		m.events = append(m.events, capture)
	}
	return nil
}

func (m *mockEnqueuer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return nil
}

func (m *mockEnqueuer) captured() []posthog.Capture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]posthog.Capture(nil), m.events...)
}

func newTestClient(cfg *Config, version string) (*PostHogClient, *mockEnqueuer) {
	mock := &mockEnqueuer{}
	return newPostHogClient(mock, cfg, version, nil), mock
}

func TestPostHogClient_Track(t *testing.T) {
	cfg := &Config{Enabled: true, ConsentAsked: true, AnonymousID: "anon-123"}
	client, mock := newTestClient(cfg, "0.4.0")
	require.True(t, client.Active())

	client.Track(EventCommandExecuted, Properties{"command": "add", "success": true})

	events := mock.captured()
	require.Len(t, events, 1)
	event := events[0]
	assert.Equal(t, EventCommandExecuted, event.Event)
	assert.Equal(t, "anon-123", event.DistinctId)
	assert.Equal(t, "add", event.Properties["command"])
	assert.Equal(t, runtime.GOOS, event.Properties["os"])
	assert.Equal(t, runtime.GOARCH, event.Properties["arch"])
	assert.Equal(t, "0.4.0", event.Properties["litedo_version"])
	assert.Equal(t, false, event.Properties["$process_person_profile"])
}

func TestPostHogClient_Track_FixedPropertiesWin(t *testing.T) {
	client, mock := newTestClient(&Config{Enabled: true, AnonymousID: "a"}, "0.4.0")

	client.Track("event", Properties{"litedo_version": "spoofed", "os": "plan9"})

	events := mock.captured()
	require.Len(t, events, 1)
	if got, want := events[0].Properties["litedo_version"], "0.4.0"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	assert.Equal(t, runtime.GOOS, events[0].Properties["os"])
}

func TestPostHogClient_Track_NoOp(t *testing.T) {
	tests := []struct {
		name   string
		client func(*mockEnqueuer) *PostHogClient
	}{
		{
			name: "disabled",
			client: func(m *mockEnqueuer) *PostHogClient {
				return newPostHogClient(m, &Config{ConsentAsked: true, AnonymousID: "x"}, "1", nil)
			},
		},
		{
			name: "nil consent",
			client: func(m *mockEnqueuer) *PostHogClient {
				return newPostHogClient(m, nil, "1", nil)
			},
		},
		{
			name: "closed",
			client: func(m *mockEnqueuer) *PostHogClient {
				c := newPostHogClient(m, &Config{Enabled: true}, "1", nil)
				require.NoError(t, c.Close())
				return c
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockEnqueuer{}
			c := tt.client(mock)
			assert.False(t, c.Active())
			c.Track("event", nil)
			assert.Empty(t, mock.captured())
		})
	}
}

func TestPostHogClient_Track_EnqueueError(t *testing.T) {
	client, mock := newTestClient(&Config{Enabled: true, AnonymousID: "a"}, "1")
	mock.err = errors.New("queue full")

	assert.NotPanics(t, func() { client.Track("event", nil) })
	assert.Empty(t, mock.captured())
}

func TestPostHogClient_Close(t *testing.T) {
	client, mock := newTestClient(&Config{Enabled: true}, "1")

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	assert.Equal(t, 1, mock.closes, "SDK client is closed once")

	inert := newPostHogClient(nil, &Config{Enabled: true}, "1", nil)
	assert.NoError(t, inert.Close())
}

func TestNewPostHogClient_Inert(t *testing.T) {
	client, err := NewPostHogClient(ClientConfig{Version: "1", Config: &Config{Enabled: true}})
	require.NoError(t, err)
	assert.False(t, client.Active(), "no API key means nothing is sent")
	client.Track("event", nil)
	assert.NoError(t, client.Close())
}

func TestPostHogClient_Track_Concurrent(t *testing.T) {
	client, mock := newTestClient(&Config{Enabled: true, AnonymousID: "a"}, "1")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			client.Track("concurrent_event", Properties{"iteration": n})
		}(i)
	}
	wg.Wait()

	assert.Len(t, mock.captured(), 50)
}
