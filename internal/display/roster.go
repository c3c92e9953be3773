package display

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-lobby/internal/mirror"
)

// RoomLine renders a one-line summary of a room and its players.
func RoomLine(room *mirror.Room) string {
	players := room.Players()
	if len(players) == 0 {
		return fmt.Sprintf("%s (empty)", Capitalize(room.Name()))
	}

	tags := make([]string, 0, len(players))
	for _, p := range players {
		tags = append(tags, PlayerTag(p))
	}
	return fmt.Sprintf("%s (%s): %s", Capitalize(room.Name()), plural(len(players), "player"), strings.Join(tags, ", "))
}

// PlayerTag renders a player as "name [color] ready", omitting the parts
// that are unset. A player with no display name shows its client id.
func PlayerTag(p *mirror.Player) string {
	tag := p.Name()
	if tag == "" {
		tag = p.Client()
	}
	if p.Color() != "" {
		tag += " [" + p.Color() + "]"
	}
	if p.Ready() {
		tag += " ready"
	}
	return tag
}

// Roster renders the full room list, one wrapped line per room.
func Roster(rooms []*mirror.Room) string {
	if len(rooms) == 0 {
		return "No rooms open."
	}

	lines := make([]string, 0, len(rooms))
	for _, r := range rooms {
		lines = append(lines, Wrap(RoomLine(r)))
	}
	return strings.Join(lines, "\n")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
