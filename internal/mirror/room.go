package mirror

import "github.com/pixil98/go-lobby/internal/keyed"

// Room is a named lobby holding the players the server reports in it. The
// name never changes; the player list is mutated only by inbound server
// events. A player belongs to exactly one room's collection at a time.
type Room struct {
	name    string
	players *keyed.Collection[*Player]
}

// NewRoom creates an empty room.
func NewRoom(name string) *Room {
	return &Room{
		name:    name,
		players: keyed.NewCollection(func(p *Player) string { return p.client }),
	}
}

// Name returns the room's unique name.
func (r *Room) Name() string {
	return r.name
}

// AddPlayer inserts p into the room. A duplicate client id is a no-op
// returning false, so replayed join events cannot double-add.
func (r *Room) AddPlayer(p *Player) bool {
	return r.players.Add(p)
}

// RemovePlayer removes p from the room, returning false if absent.
func (r *Room) RemovePlayer(p *Player) bool {
	return r.players.Remove(p)
}

// Player looks up a player by client id.
func (r *Room) Player(client string) (*Player, bool) {
	return r.players.Get(client)
}

// Players returns the players in join order.
func (r *Room) Players() []*Player {
	return r.players.Items()
}

// PlayerCount returns the number of players in the room.
func (r *Room) PlayerCount() int {
	return r.players.Len()
}
