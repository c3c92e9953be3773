package simulate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-lobby/internal/mirror"
	"github.com/pixil98/go-testutil"
)

type recorded struct {
	event string
	data  []byte
}

type stubBroadcaster struct {
	mu     sync.Mutex
	events []recorded
	err    error
}

func (b *stubBroadcaster) Broadcast(event string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.events = append(b.events, recorded{event, data})
	return nil
}

func (b *stubBroadcaster) Close() {}

func (b *stubBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

func (b *stubBroadcaster) all() []recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recorded{}, b.events...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestFeed_BroadcastsScript(t *testing.T) {
	b := &stubBroadcaster{}
	dial := func(context.Context) (Broadcaster, error) { return b, nil }

	f := NewFeed(dial, WithInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- f.Start(ctx) }()

	cycle := len(script())
	waitFor(t, "one full cycle", func() bool { return b.count() >= cycle })
	cancel()
	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("unexpected error from Start: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for feed to stop")
	}

	got := b.all()[:cycle]
	want := script()
	testutil.AssertEqual(t, "event count", len(got), len(want))
	for i := range want {
		testutil.AssertEqual(t, fmt.Sprintf("event %d", i), got[i].event, want[i].event)
	}
}

func TestFeed_RedialsOnBroadcastError(t *testing.T) {
	var mu sync.Mutex
	dials := 0
	dial := func(context.Context) (Broadcaster, error) {
		mu.Lock()
		defer mu.Unlock()
		dials++
		return &stubBroadcaster{err: errors.New("connection closed")}, nil
	}

	f := NewFeed(dial, WithInterval(time.Millisecond), WithRetryInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- f.Start(ctx) }()

	waitFor(t, "redial", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return dials >= 3
	})
	cancel()
	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("unexpected error from Start: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for feed to stop")
	}
}

// TestScript_DrivesMirror replays one scripted cycle straight into a
// synchronizer to prove the payload shapes line up with what mirrors expect.
func TestScript_DrivesMirror(t *testing.T) {
	m := mirror.NewSynchronizer()
	handlers := map[string]func([]byte){}
	err := m.Attach(channelFunc(func(event string, handler func([]byte)) {
		handlers[event] = handler
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deliver := func(s step) {
		t.Helper()
		handler, ok := handlers[s.event]
		if !ok {
			t.Fatalf("no mirror handler for %s", s.event)
		}
		data, err := json.Marshal(s.payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		handler(data)
	}

	steps := script()
	for _, s := range steps {
		deliver(s)
	}

	testutil.AssertEqual(t, "synced", m.Synced(), true)
	testutil.AssertEqual(t, "rooms after full cycle", len(m.All()), 0)

	// A second pass through the script reopens the rooms.
	steps = script()
	for _, s := range steps[:2] {
		deliver(s)
	}
	alpha, ok := m.Get("alpha")
	if !ok {
		t.Fatal("expected alpha to exist")
	}
	testutil.AssertEqual(t, "alpha players", alpha.PlayerCount(), 2)
	if _, ok := m.Get("beta"); !ok {
		t.Fatal("expected beta to exist")
	}
}

// channelFunc adapts a subscribe callback into the mirror's channel
// interface for tests that only need inbound delivery.
type channelFunc func(event string, handler func([]byte))

func (f channelFunc) Subscribe(event string, handler func([]byte)) (func(), error) {
	f(event, handler)
	return func() {}, nil
}

func (f channelFunc) Emit(event string, data []byte, ack mirror.AckFunc) error {
	return nil
}
