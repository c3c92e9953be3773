package display

import (
	"testing"

	"github.com/pixil98/go-lobby/internal/mirror"
	"github.com/pixil98/go-testutil"
)

func TestRoomLine(t *testing.T) {
	tests := map[string]struct {
		build func() *mirror.Room
		exp   string
	}{
		"empty room": {
			build: func() *mirror.Room {
				return mirror.NewRoom("lobby1")
			},
			exp: "Lobby1 (empty)",
		},
		"single player": {
			build: func() *mirror.Room {
				r := mirror.NewRoom("lobby1")
				r.AddPlayer(mirror.NewPlayer("c1", "Alice", "red"))
				return r
			},
			exp: "Lobby1 (1 player): Alice [red]",
		},
		"multiple players with ready flag": {
			build: func() *mirror.Room {
				r := mirror.NewRoom("duel")
				r.AddPlayer(mirror.NewPlayer("c1", "Alice", "red"))
				bob := mirror.NewPlayer("c2", "Bob", "")
				bob.SetReady(true)
				r.AddPlayer(bob)
				return r
			},
			exp: "Duel (2 players): Alice [red], Bob ready",
		},
		"unnamed player falls back to client id": {
			build: func() *mirror.Room {
				r := mirror.NewRoom("lobby1")
				r.AddPlayer(mirror.NewPlayer("c9", "", ""))
				return r
			},
			exp: "Lobby1 (1 player): c9",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "line", RoomLine(tt.build()), tt.exp)
		})
	}
}

func TestRoster(t *testing.T) {
	lobby := mirror.NewRoom("lobby1")
	lobby.AddPlayer(mirror.NewPlayer("c1", "Alice", "red"))

	tests := map[string]struct {
		rooms []*mirror.Room
		exp   string
	}{
		"no rooms": {
			rooms: nil,
			exp:   "No rooms open.",
		},
		"two rooms": {
			rooms: []*mirror.Room{lobby, mirror.NewRoom("duel")},
			exp:   "Lobby1 (1 player): Alice [red]\nDuel (empty)",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "roster", Roster(tt.rooms), tt.exp)
		})
	}
}
