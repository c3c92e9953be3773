package mirror

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestPlayer_SetColor(t *testing.T) {
	p := NewPlayer("c1", "Alice", "red")
	testutil.AssertEqual(t, "initial color", p.Color(), "red")

	p.SetColor("blue")
	testutil.AssertEqual(t, "updated color", p.Color(), "blue")

	// No validation: the server is authoritative on legality.
	p.SetColor("")
	testutil.AssertEqual(t, "cleared color", p.Color(), "")
}

func TestPlayer_SetReady(t *testing.T) {
	p := NewPlayer("c1", "Alice", "red")
	testutil.AssertEqual(t, "initial ready", p.Ready(), false)

	// A set, not a toggle: repeating a value keeps it.
	p.SetReady(true)
	testutil.AssertEqual(t, "ready after set", p.Ready(), true)
	p.SetReady(true)
	testutil.AssertEqual(t, "ready after repeat", p.Ready(), true)
	p.SetReady(false)
	testutil.AssertEqual(t, "ready after clear", p.Ready(), false)
}

func TestRoom_AddPlayer(t *testing.T) {
	tests := map[string]struct {
		existing []*Player
		add      *Player
		expOk    bool
		expCount int
	}{
		"add to empty room": {
			add:      NewPlayer("c1", "Alice", "red"),
			expOk:    true,
			expCount: 1,
		},
		"add second player": {
			existing: []*Player{NewPlayer("c1", "Alice", "red")},
			add:      NewPlayer("c2", "Bob", "blue"),
			expOk:    true,
			expCount: 2,
		},
		"duplicate client is a no-op": {
			existing: []*Player{NewPlayer("c1", "Alice", "red")},
			add:      NewPlayer("c1", "Imposter", "green"),
			expOk:    false,
			expCount: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			room := NewRoom("lobby1")
			for _, p := range tt.existing {
				room.AddPlayer(p)
			}

			ok := room.AddPlayer(tt.add)

			testutil.AssertEqual(t, "add result", ok, tt.expOk)
			testutil.AssertEqual(t, "player count", room.PlayerCount(), tt.expCount)
		})
	}
}

func TestRoom_AddPlayer_KeepsOriginalOnDuplicate(t *testing.T) {
	room := NewRoom("lobby1")
	room.AddPlayer(NewPlayer("c1", "Alice", "red"))
	room.AddPlayer(NewPlayer("c1", "Imposter", "green"))

	p, ok := room.Player("c1")
	if !ok {
		t.Fatal("expected player c1")
	}
	testutil.AssertEqual(t, "name", p.Name(), "Alice")
	testutil.AssertEqual(t, "color", p.Color(), "red")
}

func TestRoom_RemovePlayer(t *testing.T) {
	alice := NewPlayer("c1", "Alice", "red")

	tests := map[string]struct {
		existing []*Player
		remove   *Player
		expOk    bool
		expCount int
	}{
		"remove present player": {
			existing: []*Player{alice, NewPlayer("c2", "Bob", "blue")},
			remove:   alice,
			expOk:    true,
			expCount: 1,
		},
		"remove absent player": {
			existing: []*Player{NewPlayer("c2", "Bob", "blue")},
			remove:   alice,
			expOk:    false,
			expCount: 1,
		},
		"remove from empty room": {
			remove: alice,
			expOk:  false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			room := NewRoom("lobby1")
			for _, p := range tt.existing {
				room.AddPlayer(p)
			}

			ok := room.RemovePlayer(tt.remove)

			testutil.AssertEqual(t, "remove result", ok, tt.expOk)
			testutil.AssertEqual(t, "player count", room.PlayerCount(), tt.expCount)
		})
	}
}

func TestRoom_Players_InsertionOrder(t *testing.T) {
	room := NewRoom("lobby1")
	room.AddPlayer(NewPlayer("c1", "Alice", "red"))
	room.AddPlayer(NewPlayer("c2", "Bob", "blue"))
	room.AddPlayer(NewPlayer("c3", "Carol", "green"))

	players := room.Players()
	testutil.AssertEqual(t, "count", len(players), 3)
	testutil.AssertEqual(t, "first", players[0].Name(), "Alice")
	testutil.AssertEqual(t, "second", players[1].Name(), "Bob")
	testutil.AssertEqual(t, "third", players[2].Name(), "Carol")
}

func TestRoom_Player(t *testing.T) {
	room := NewRoom("lobby1")
	room.AddPlayer(NewPlayer("c1", "Alice", "red"))

	p, ok := room.Player("c1")
	if !ok {
		t.Fatal("expected player c1")
	}
	testutil.AssertEqual(t, "client", p.Client(), "c1")

	_, ok = room.Player("c9")
	testutil.AssertEqual(t, "missing player found", ok, false)
}
