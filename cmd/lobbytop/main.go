package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pixil98/go-lobby/internal/mirror"
	"github.com/pixil98/go-lobby/internal/transport"
	"github.com/pixil98/go-lobby/internal/tui"
)

// channel is the slice of a lobby connection the viewer needs.
type channel interface {
	mirror.Channel
	Done() <-chan struct{}
	Close()
}

func main() {
	url := flag.String("url", "nats://127.0.0.1:4222", "lobby server url")
	kind := flag.String("transport", "nats", "transport to dial: nats or ws")
	timeout := flag.Duration("timeout", 10*time.Second, "dial timeout")
	flag.Parse()

	if err := run(*url, *kind, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(url, kind string, timeout time.Duration) error {
	m := mirror.NewSynchronizer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ch channel
	switch kind {
	case "nats":
		nc, err := transport.DialNats(url,
			transport.WithName("lobbytop"),
			transport.WithReconnectFunc(m.Refresh),
		)
		if err != nil {
			return fmt.Errorf("dialing %s: %w", url, err)
		}
		ch = nc
	case "ws":
		dialCtx, dialCancel := context.WithTimeout(ctx, timeout)
		defer dialCancel()
		wc, err := transport.DialWs(dialCtx, url)
		if err != nil {
			return fmt.Errorf("dialing %s: %w", url, err)
		}
		ch = wc
	default:
		return fmt.Errorf("unknown transport %q", kind)
	}
	defer ch.Close()

	if err := m.Attach(ch); err != nil {
		return fmt.Errorf("attaching mirror: %w", err)
	}
	defer m.Detach()

	v, err := tui.NewViewer(m)
	if err != nil {
		return err
	}

	// Quit the viewer if the connection is lost for good.
	go func() {
		select {
		case <-ch.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := v.Run(ctx); err != nil {
		return err
	}

	select {
	case <-ch.Done():
		return fmt.Errorf("connection to %s lost", url)
	default:
	}
	return nil
}
