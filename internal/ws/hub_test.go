package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"job-matcher/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(h *Hub, resumeID int64) *Client {
	return &Client{hub: h, send: make(chan []byte, 4), resumeID: resumeID}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 5*time.Millisecond)
}

func TestHub_DeliversToSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(nil)
	go h.Run(ctx)

	all := newTestClient(h, 0)
	mine := newTestClient(h, 7)
	other := newTestClient(h, 8)
	h.Register(all)
	h.Register(mine)
	h.Register(other)
	waitFor(t, func() bool { return h.ClientCount() == 3 })

	require.NoError(t, h.PublishMatchCompleted(context.Background(), events.MatchCompleted{
		Type:     events.TypeMatchCompleted,
		RunID:    "run-1",
		ResumeID: 7,
		Matches:  []events.MatchScore{{JobID: 1, Title: "Software Engineer", Score: 0.9}},
	}))

	for _, c := range []*Client{all, mine} {
		select {
		case b := <-c.send:
			var ev events.MatchCompleted
			require.NoError(t, json.Unmarshal(b, &ev))
			assert.Equal(t, "run-1", ev.RunID)
			assert.Equal(t, int64(7), ev.ResumeID)
		case <-time.After(time.Second):
			t.Fatal("expected event")
		}
	}

	select {
	case <-other.send:
		t.Fatal("client subscribed to another resume got the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(nil)
	go h.Run(ctx)

	c := newTestClient(h, 0)
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Unregister(c)
	waitFor(t, func() bool { return h.ClientCount() == 0 })
	_, ok := <-c.send
	assert.False(t, ok)
}

func TestHub_ShutdownDisconnectsClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil)
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := newTestClient(h, 0)
	h.Register(c)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	cancel()
	<-done
	assert.Equal(t, 0, h.ClientCount())
	_, ok := <-c.send
	assert.False(t, ok)
}

func TestHub_RegisterAndUnregisterAfterShutdownDoNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil)
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := 0; i < 300; i++ {
			c := newTestClient(h, 0)
			h.Register(c)
			_, ok := <-c.send
			assert.False(t, ok)
			h.Unregister(c)
		}
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("register or unregister blocked after shutdown")
	}
	assert.Equal(t, 0, h.ClientCount())
}
