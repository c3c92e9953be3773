package display

import (
	"fmt"
	"testing"

	"github.com/pixil98/go-lobby/internal/mirror"
	"github.com/pixil98/go-testutil"
)

func TestEventTemplate_DefaultFormat(t *testing.T) {
	room := mirror.NewRoom("lobby1")
	alice := mirror.NewPlayer("c1", "Alice", "red")
	bob := mirror.NewPlayer("c2", "Bob", "")
	bob.SetReady(true)

	tests := map[string]struct {
		note mirror.Notification
		exp  string
	}{
		"room only": {
			note: mirror.Notification{Event: mirror.EventRoomNew, Room: room},
			exp:  fmt.Sprintf("%-18s lobby1", mirror.EventRoomNew),
		},
		"room and colored player": {
			note: mirror.Notification{Event: mirror.EventRoomJoin, Room: room, Player: alice},
			exp:  fmt.Sprintf("%-18s lobby1 Alice [red]", mirror.EventRoomJoin),
		},
		"ready player without color": {
			note: mirror.Notification{Event: mirror.EventPlayerReady, Room: room, Player: bob},
			exp:  fmt.Sprintf("%-18s lobby1 Bob ready", mirror.EventPlayerReady),
		},
		"bare signal": {
			note: mirror.Notification{Event: mirror.EventSynced},
			exp:  fmt.Sprintf("%-18s", mirror.EventSynced),
		},
	}

	tmpl, err := NewEventTemplate(DefaultEventFormat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			line, err := tmpl.Render(tt.note)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "line", line, tt.exp)
		})
	}
}

func TestEventTemplate_SprigFuncs(t *testing.T) {
	tmpl, err := NewEventTemplate(`{{ .Event | upper }}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	line, err := tmpl.Render(mirror.Notification{Event: mirror.EventRoomNew})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "line", line, "ROOM:NEW")
}

func TestNewEventTemplate_ParseError(t *testing.T) {
	if _, err := NewEventTemplate(`{{ .Event`); err == nil {
		t.Error("expected parse error")
	}
}
