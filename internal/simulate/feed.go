package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultInterval      = time.Second * 2
	DefaultRetryInterval = time.Second * 2
)

// Broadcaster is the server side of a lobby channel. Events published
// through it reach every attached mirror.
type Broadcaster interface {
	Broadcast(event string, data []byte) error
	Close()
}

// Dialer opens a broadcast channel. The feed dials through it on startup and
// again whenever publishing fails.
type Dialer func(ctx context.Context) (Broadcaster, error)

// A Feed plays a scripted lobby session on a loop: rooms open, players come
// and go, colors and ready flags flip, games start, rooms close. It stands in
// for a real lobby server during development.
type Feed struct {
	dial          Dialer
	interval      time.Duration
	retryInterval time.Duration
}

func NewFeed(dial Dialer, opts ...FeedOpt) *Feed {
	f := &Feed{
		dial:          dial,
		interval:      DefaultInterval,
		retryInterval: DefaultRetryInterval,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Start broadcasts one scripted step per interval until ctx is done. When the
// script runs out it starts over with fresh client ids.
func (f *Feed) Start(ctx context.Context) error {
	b, err := f.dialRetry(ctx)
	if err != nil {
		// Shutdown requested while dialing.
		return nil
	}
	defer func() { b.Close() }()

	slog.InfoContext(ctx, "lobby feed started", "interval", f.interval)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	var steps []step
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			if len(steps) == 0 {
				steps = script()
			}

			next := steps[0]
			if err := broadcast(b, next); err != nil {
				slog.WarnContext(ctx, "broadcasting lobby event", "event", next.event, "error", err)
				b.Close()
				b, err = f.dialRetry(ctx)
				if err != nil {
					return nil
				}
				// Start the script over on the fresh connection.
				steps = nil
				continue
			}
			steps = steps[1:]
		}
	}
}

func (f *Feed) dialRetry(ctx context.Context) (Broadcaster, error) {
	for {
		b, err := f.dial(ctx)
		if err == nil {
			return b, nil
		}

		slog.WarnContext(ctx, "dialing broadcast channel", "error", err, "retry", f.retryInterval)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.retryInterval):
		}
	}
}

func broadcast(b Broadcaster, s step) error {
	data, err := json.Marshal(s.payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}
	return b.Broadcast(s.event, data)
}
