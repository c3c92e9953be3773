package board

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pixil98/go-lobby/internal/display"
	"github.com/pixil98/go-lobby/internal/mirror"
)

const defaultBanner = "Connected to the lobby board. Press enter to disconnect."

// eventBacklog bounds how many rendered lines can queue up for a slow
// viewer before newer ones are dropped. Mirror callbacks must never block.
const eventBacklog = 32

// A Board serves read-only lobby sessions over raw text connections. Each
// session starts with the current roster and then streams lobby events as
// they arrive, until the viewer sends any input or the context ends.
type Board struct {
	mirror *mirror.Synchronizer
	tmpl   *display.EventTemplate
	banner string
}

func NewBoard(m *mirror.Synchronizer, opts ...BoardOpt) (*Board, error) {
	tmpl, err := display.NewEventTemplate(display.DefaultEventFormat)
	if err != nil {
		return nil, fmt.Errorf("parsing default event template: %w", err)
	}

	b := &Board{
		mirror: m,
		tmpl:   tmpl,
		banner: defaultBanner,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

func (b *Board) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := b.ServeConn(ctx, conn); err != nil {
		slog.WarnContext(ctx, "board session", "error", err)
	}
}

// ServeConn runs one viewer session on conn. It returns when the viewer
// sends input, the connection drops, or ctx is canceled.
func (b *Board) ServeConn(ctx context.Context, conn io.ReadWriter) error {
	lines := make(chan string, eventBacklog)
	unsub := b.mirror.SubscribeAll(func(n mirror.Notification) {
		for _, line := range b.render(n) {
			select {
			case lines <- line:
			default:
				// Viewer is too far behind. Drop rather than stall the mirror.
			}
		}
	})
	defer unsub()

	if err := b.greet(conn); err != nil {
		return fmt.Errorf("writing greeting: %w", err)
	}

	// Any input ends the session.
	inputDone := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(conn)
		scanner.Scan()
		inputDone <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-inputDone:
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			b.writeLine(conn, "Goodbye.")
			return nil

		case line := <-lines:
			if err := b.writeLine(conn, line); err != nil {
				return fmt.Errorf("writing event: %w", err)
			}
		}
	}
}

func (b *Board) greet(conn io.ReadWriter) error {
	_, err := conn.Write([]byte(b.banner + "\n\n" + display.Roster(b.mirror.All()) + "\n"))
	return err
}

// render turns a notification into the lines a viewer should see. A synced
// notification shows the full roster since the mirror may have just replaced
// everything it knew.
func (b *Board) render(n mirror.Notification) []string {
	if n.Event == mirror.EventSynced {
		out := []string{"Lobby synced."}
		for _, room := range b.mirror.All() {
			out = append(out, display.RoomLine(room))
		}
		return out
	}

	line, err := b.tmpl.Render(n)
	if err != nil {
		slog.Warn("rendering event", "event", n.Event, "error", err)
		return nil
	}
	return []string{line}
}

func (b *Board) writeLine(conn io.ReadWriter, line string) error {
	_, err := conn.Write([]byte(line + "\n"))
	return err
}
