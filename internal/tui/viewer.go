package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/pixil98/go-lobby/internal/display"
	"github.com/pixil98/go-lobby/internal/mirror"
)

// eventBacklog bounds how many notifications can queue for the draw loop
// before newer ones are dropped. Mirror callbacks must never block.
const eventBacklog = 64

// maxEventLines caps the scrollback of the event pane.
const maxEventLines = 200

// A Viewer is a full-screen terminal view of a lobby mirror: the room roster
// on top, a scrolling event feed below. It redraws as notifications arrive.
type Viewer struct {
	app    *tview.Application
	mirror *mirror.Synchronizer
	tmpl   *display.EventTemplate
	rooms  *tview.TextView
	events *tview.TextView
}

func NewViewer(m *mirror.Synchronizer, opts ...ViewerOpt) (*Viewer, error) {
	tmpl, err := display.NewEventTemplate(display.DefaultEventFormat)
	if err != nil {
		return nil, fmt.Errorf("parsing default event template: %w", err)
	}

	v := &Viewer{
		app:    tview.NewApplication(),
		mirror: m,
		tmpl:   tmpl,
		rooms:  tview.NewTextView(),
		events: tview.NewTextView(),
	}

	for _, opt := range opts {
		opt(v)
	}

	v.rooms.SetBorder(true)
	v.events.SetBorder(true)
	v.events.SetTitle(" Events ")
	v.events.SetMaxLines(maxEventLines)
	v.events.ScrollToEnd()

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.rooms, 0, 1, false).
		AddItem(v.events, 0, 2, true)
	v.app.SetRoot(flex, true)

	v.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
			v.app.Stop()
			return nil
		}
		return ev
	})

	return v, nil
}

// Run draws until the viewer quits or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	notes := make(chan mirror.Notification, eventBacklog)
	unsub := v.mirror.SubscribeAll(func(n mirror.Notification) {
		select {
		case notes <- n:
		default:
			// Draw loop is too far behind. Drop rather than stall the mirror.
		}
	})
	defer unsub()

	stop := make(chan struct{})
	defer close(stop)

	go func() {
		for {
			select {
			case <-stop:
				return
			case n := <-notes:
				v.apply(n)
			}
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			v.app.Stop()
		case <-stop:
		}
	}()

	// The event loop isn't running yet, so draw the first roster directly.
	v.renderRooms()

	return v.app.Run()
}

func (v *Viewer) apply(n mirror.Notification) {
	line := "Lobby synced."
	if n.Event != mirror.EventSynced {
		var err error
		line, err = v.tmpl.Render(n)
		if err != nil {
			return
		}
	}

	v.app.QueueUpdateDraw(func() {
		fmt.Fprintln(v.events, line)
		v.renderRooms()
	})
}

func (v *Viewer) renderRooms() {
	title := " Rooms (syncing) "
	if v.mirror.Synced() {
		title = " Rooms "
	}
	v.rooms.SetTitle(title)
	v.rooms.SetText(display.Roster(v.mirror.All()))
}
