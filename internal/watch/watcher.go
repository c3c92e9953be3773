package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-lobby/internal/display"
	"github.com/pixil98/go-lobby/internal/mirror"
)

const DefaultRetryInterval = 2 * time.Second

// Channel is what the watcher needs from a transport: the mirror's
// subscribe/emit surface plus connection lifecycle.
type Channel interface {
	mirror.Channel
	Done() <-chan struct{}
	Close()
}

// Dialer opens a fresh channel. The watcher dials through it on startup and
// again whenever the previous channel dies.
type Dialer func(ctx context.Context) (Channel, error)

// Watcher keeps a mirror attached to a live channel and logs the reconciled
// notification stream. When the channel dies it detaches, discards the
// mirror, and redials, so state is always rebuilt from a fresh authoritative
// snapshot.
type Watcher struct {
	mirror *mirror.Synchronizer
	dial   Dialer

	tmpl          *display.EventTemplate
	rosterOnSync  bool
	retryInterval time.Duration
}

func NewWatcher(m *mirror.Synchronizer, dial Dialer, opts ...WatcherOpt) (*Watcher, error) {
	tmpl, err := display.NewEventTemplate(display.DefaultEventFormat)
	if err != nil {
		return nil, fmt.Errorf("parsing default event template: %w", err)
	}

	w := &Watcher{
		mirror:        m,
		dial:          dial,
		tmpl:          tmpl,
		rosterOnSync:  true,
		retryInterval: DefaultRetryInterval,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start runs until ctx is done, dialing, attaching, and redialing as
// channels come and go.
func (w *Watcher) Start(ctx context.Context) error {
	logNote := func(n mirror.Notification) { w.log(ctx, n) }

	unsub := w.mirror.SubscribeAll(logNote)
	defer func() { unsub() }()

	for {
		ch, err := w.dialRetry(ctx)
		if err != nil {
			// Shutdown requested while dialing.
			return nil
		}

		if err := w.mirror.Attach(ch); err != nil {
			ch.Close()
			return fmt.Errorf("attaching mirror: %w", err)
		}
		slog.InfoContext(ctx, "lobby channel attached")

		select {
		case <-ctx.Done():
			w.mirror.Detach()
			ch.Close()
			return nil
		case <-ch.Done():
			slog.WarnContext(ctx, "lobby channel closed, redialing")
			w.mirror.Detach()
			ch.Close()
			w.mirror.Refresh()

			// Resubscribe so scoped registrations for rooms that died with
			// the channel don't pile up across reconnects.
			unsub()
			unsub = w.mirror.SubscribeAll(logNote)
		}
	}
}

func (w *Watcher) dialRetry(ctx context.Context) (Channel, error) {
	for {
		ch, err := w.dial(ctx)
		if err == nil {
			return ch, nil
		}

		slog.WarnContext(ctx, "dialing lobby channel", "error", err, "retry", w.retryInterval)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(w.retryInterval):
		}
	}
}

func (w *Watcher) log(ctx context.Context, n mirror.Notification) {
	if n.Event == mirror.EventSynced {
		rooms := w.mirror.All()
		slog.InfoContext(ctx, "lobby synced", "rooms", len(rooms))
		if !w.rosterOnSync {
			return
		}
		for _, room := range rooms {
			slog.InfoContext(ctx, display.RoomLine(room))
		}
		return
	}

	line, err := w.tmpl.Render(n)
	if err != nil {
		slog.WarnContext(ctx, "rendering event", "event", n.Event, "error", err)
		return
	}
	slog.InfoContext(ctx, line)
}
