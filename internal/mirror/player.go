package mirror

import "sync"

// Player is a participant in a room as reported by the server. Identity
// (client id) and display name never change; color and readiness are mutated
// only in response to inbound server events, never locally.
type Player struct {
	client string
	name   string

	mu    sync.RWMutex
	color string
	ready bool
}

// NewPlayer creates a player from the identity fields of a server payload.
func NewPlayer(client, name, color string) *Player {
	return &Player{
		client: client,
		name:   name,
		color:  color,
	}
}

// Client returns the client id identifying this player within its room.
func (p *Player) Client() string {
	return p.client
}

// Name returns the display name.
func (p *Player) Name() string {
	return p.name
}

// Color returns the current color.
func (p *Player) Color() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.color
}

// Ready reports whether the player is flagged ready.
func (p *Player) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.ready
}

// SetColor overwrites the color. Legality is the server's concern; the
// mirror applies whatever value arrives.
func (p *Player) SetColor(color string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.color = color
}

// SetReady overwrites the ready flag with the server-supplied value.
// This is a set, not a toggle: the server owns the boolean.
func (p *Player) SetReady(ready bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ready = ready
}
