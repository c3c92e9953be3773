package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/pixil98/go-lobby/internal/bus"
	"github.com/pixil98/go-lobby/internal/keyed"
)

// ErrNotAttached is returned by outbound operations called before Attach.
var ErrNotAttached = errors.New("no channel attached")

// AckFunc receives the server's acknowledgement of an outbound request, or
// the transport's error when no acknowledgement arrived.
type AckFunc func(reply []byte, err error)

// Channel is the transport surface the synchronizer consumes: subscribe to a
// named inbound event, emit a named outbound request with an optional ack.
// Connection lifecycle, serialization, and timeouts are the transport's
// business.
type Channel interface {
	Subscribe(event string, handler func(data []byte)) (func(), error)
	Emit(event string, data []byte, ack AckFunc) error
}

// Notification is one reconciled event republished to local subscribers.
// Room is nil only for the synced signal; Player is set only on
// player-level events.
type Notification struct {
	Event  string
	Room   *Room
	Player *Player
}

// Synchronizer keeps a local mirror of the server's lobby state. Inbound
// events from the attached Channel are applied one at a time, each mutation
// gated by the room collection's own duplicate and absence checks, so
// replayed or raced deliveries never double-apply and never double-notify.
// Consumers subscribe to the reconciled notification stream instead of the
// raw channel. Outbound operations never touch the mirror; the server echoes
// their effect back as inbound events.
type Synchronizer struct {
	// apply serializes inbound handlers end to end, mutation through
	// notification, so no two events interleave.
	apply sync.Mutex

	mu      sync.RWMutex
	channel Channel
	unsubs  []func()
	rooms   *keyed.Collection[*Room]
	synced  bool
	syncCh  chan struct{}

	notes *bus.Bus[Notification]
}

func NewSynchronizer() *Synchronizer {
	return &Synchronizer{
		rooms:  newRoomCollection(),
		syncCh: make(chan struct{}),
		notes:  bus.New[Notification](),
	}
}

func newRoomCollection() *keyed.Collection[*Room] {
	return keyed.NewCollection(func(r *Room) string { return r.Name() })
}

// Attach subscribes the synchronizer to ch's inbound events. It returns an
// error when a channel is already attached; Detach first when reconnecting.
func (s *Synchronizer) Attach(ch Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.channel != nil {
		return errors.New("channel already attached")
	}

	handlers := map[string]func([]byte){
		EventRoomNew:     s.handleRoomNew,
		EventRoomClose:   s.handleRoomClose,
		EventRoomJoin:    s.handleRoomJoin,
		EventRoomLeave:   s.handleRoomLeave,
		EventPlayerColor: s.handlePlayerColor,
		EventPlayerReady: s.handlePlayerReady,
		EventRoomStart:   s.handleRoomStart,
	}

	unsubs := make([]func(), 0, len(handlers))
	for event, handler := range handlers {
		unsub, err := ch.Subscribe(event, handler)
		if err != nil {
			for _, u := range unsubs {
				u()
			}
			return fmt.Errorf("subscribing to %s: %w", event, err)
		}
		unsubs = append(unsubs, unsub)
	}

	s.channel = ch
	s.unsubs = unsubs
	return nil
}

// Detach runs every unsubscribe and drops the channel, leaving the mirror
// intact. Safe to call when nothing is attached.
func (s *Synchronizer) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
	s.channel = nil
}

// Subscribe registers fn for the named notification and returns its
// unsubscribe func. fn runs synchronously on the goroutine applying the
// inbound event, so it must not block and must not call Refresh.
func (s *Synchronizer) Subscribe(event string, fn func(Notification)) func() {
	return s.notes.Subscribe(event, fn)
}

// SubscribeAll delivers every notification to fn exactly once: the global
// stream plus each room's scoped color and ready streams, which have no
// global form. Scoped subscriptions cover the rooms already mirrored at call
// time and then follow room lifecycle. The returned func tears the whole set
// down; after a Refresh, tear down and resubscribe so scoped registrations
// for vanished rooms don't accumulate.
func (s *Synchronizer) SubscribeAll(fn func(Notification)) func() {
	var mu sync.Mutex
	closed := false
	scoped := map[string][]func(){}

	// follow replaces any scoped pair registered for name, so it is safe in
	// every interleaving of room announcements with the loop below.
	follow := func(name string) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		for _, unsub := range scoped[name] {
			unsub()
		}
		scoped[name] = []func(){
			s.notes.Subscribe(Scoped(EventPlayerColor, name), fn),
			s.notes.Subscribe(Scoped(EventPlayerReady, name), fn),
		}
	}

	var unsubs []func()
	for _, event := range []string{
		EventRoomNew, EventRoomClose, EventRoomJoin, EventRoomLeave,
		EventRoomStart, EventSynced,
	} {
		unsubs = append(unsubs, s.notes.Subscribe(event, fn))
	}

	unsubs = append(unsubs, s.notes.Subscribe(EventRoomNew, func(n Notification) {
		follow(n.Room.Name())
	}))
	unsubs = append(unsubs, s.notes.Subscribe(EventRoomClose, func(n Notification) {
		name := n.Room.Name()
		mu.Lock()
		defer mu.Unlock()
		for _, unsub := range scoped[name] {
			unsub()
		}
		delete(scoped, name)
	}))

	// Rooms mirrored before this call never fire room:new again; cover them
	// directly. The lifecycle subscription above is already live, so a room
	// announced while this loop runs lands either here or there.
	for _, room := range s.All() {
		follow(room.Name())
	}

	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
		mu.Lock()
		defer mu.Unlock()
		closed = true
		for name, subs := range scoped {
			for _, unsub := range subs {
				unsub()
			}
			delete(scoped, name)
		}
	}
}

// All returns the mirrored rooms in the order the server announced them.
func (s *Synchronizer) All() []*Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms.Items()
}

// Get returns the mirrored room with the given name.
func (s *Synchronizer) Get(name string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms.Get(name)
}

// Synced reports whether the initial room list has arrived since
// construction or the last Refresh.
func (s *Synchronizer) Synced() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.synced
}

// WaitSynced blocks until the initial room list arrives or ctx is done.
func (s *Synchronizer) WaitSynced(ctx context.Context) error {
	s.mu.RLock()
	ch := s.syncCh
	s.mu.RUnlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Refresh discards the mirror ahead of a fresh authoritative snapshot: the
// room collection is replaced with an empty one and the sync signal is
// re-armed. Nothing is emitted outbound; the server resends the room list on
// its own after a reconnect.
func (s *Synchronizer) Refresh() {
	s.apply.Lock()
	defer s.apply.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms = newRoomCollection()
	// Re-arm only a fired signal. An un-fired channel keeps serving waiters
	// already parked in WaitSynced; the next snapshot closes it for them.
	if s.synced {
		s.syncCh = make(chan struct{})
	}
	s.synced = false
}

// Create asks the server to open a room. The mirror is untouched; the room
// arrives later as a room:new event.
func (s *Synchronizer) Create(name string, ack AckFunc) error {
	return s.emit(RequestRoomCreate, CreatePayload{Name: name}, ack)
}

// Join asks the server to put this client in the named room.
func (s *Synchronizer) Join(room string, ack AckFunc) error {
	return s.emit(RequestRoomJoin, RoomPayload{Room: room}, ack)
}

// AddPlayer asks the server to register the local player under a display
// name.
func (s *Synchronizer) AddPlayer(name string, ack AckFunc) error {
	return s.emit(RequestPlayerAdd, AddPlayerPayload{Name: name}, ack)
}

// Leave asks the server to drop this client from its current room.
func (s *Synchronizer) Leave(ack AckFunc) error {
	return s.emit(RequestRoomLeave, nil, ack)
}

// SetColor asks the server to recolor a player.
func (s *Synchronizer) SetColor(room, player, color string, ack AckFunc) error {
	return s.emit(RequestPlayerColor, ColorPayload{Room: room, Player: player, Color: color}, ack)
}

// SetReady asks the server to flip a player's ready flag. The resulting
// value comes back in a room:player:ready event; the request carries none.
func (s *Synchronizer) SetReady(room, player string, ack AckFunc) error {
	return s.emit(RequestPlayerReady, ReadyRequest{Room: room, Player: player}, ack)
}

// emit marshals payload and sends it as the named request. A nil payload
// sends an empty body. Only local failures are returned; everything after
// the send arrives through ack.
func (s *Synchronizer) emit(request string, payload any, ack AckFunc) error {
	s.mu.RLock()
	ch := s.channel
	s.mu.RUnlock()

	if ch == nil {
		return ErrNotAttached
	}

	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling %s request: %w", request, err)
		}
	}

	return ch.Emit(request, data, ack)
}

// handleRoomNew mirrors a newly announced room, seeded with any snapshot
// players. The first announcement after construction or Refresh also fires
// the one-shot synced signal, whether or not the room itself was new to us.
func (s *Synchronizer) handleRoomNew(data []byte) {
	var state RoomState
	if err := json.Unmarshal(data, &state); err != nil || state.Name == "" {
		return
	}

	s.apply.Lock()
	defer s.apply.Unlock()

	room := NewRoom(state.Name)
	for _, p := range state.Players {
		room.AddPlayer(NewPlayer(p.Client, p.Name, p.Color))
	}

	s.mu.Lock()
	added := s.rooms.Add(room)
	s.mu.Unlock()

	if added {
		s.notes.Emit(EventRoomNew, Notification{Event: EventRoomNew, Room: room})
	}
	s.markSynced()
}

func (s *Synchronizer) handleRoomClose(data []byte) {
	var payload RoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	s.apply.Lock()
	defer s.apply.Unlock()

	s.mu.Lock()
	room, ok := s.rooms.Get(payload.Room)
	removed := ok && s.rooms.Remove(room)
	s.mu.Unlock()

	if removed {
		s.notes.Emit(EventRoomClose, Notification{Event: EventRoomClose, Room: room})
	}
}

func (s *Synchronizer) handleRoomJoin(data []byte) {
	var payload JoinPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Player.Client == "" {
		return
	}

	s.apply.Lock()
	defer s.apply.Unlock()

	room, ok := s.lookupRoom(payload.Room)
	if !ok {
		return
	}

	player := NewPlayer(payload.Player.Client, payload.Player.Name, payload.Player.Color)
	if !room.AddPlayer(player) {
		return
	}

	n := Notification{Event: EventRoomJoin, Room: room, Player: player}
	s.notes.Emit(EventRoomJoin, n)
	s.notes.Emit(Scoped(EventRoomJoin, room.Name()), n)
}

func (s *Synchronizer) handleRoomLeave(data []byte) {
	var payload LeavePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	s.apply.Lock()
	defer s.apply.Unlock()

	room, ok := s.lookupRoom(payload.Room)
	if !ok {
		return
	}

	player, ok := room.Player(payload.Player)
	if !ok || !room.RemovePlayer(player) {
		return
	}

	n := Notification{Event: EventRoomLeave, Room: room, Player: player}
	s.notes.Emit(EventRoomLeave, n)
	s.notes.Emit(Scoped(EventRoomLeave, room.Name()), n)
}

// handlePlayerColor overwrites a player's color. The player is looked up
// inside the named room only, so the scoped notification always names the
// room that actually holds the player.
func (s *Synchronizer) handlePlayerColor(data []byte) {
	var payload ColorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	s.apply.Lock()
	defer s.apply.Unlock()

	room, ok := s.lookupRoom(payload.Room)
	if !ok {
		return
	}

	player, ok := room.Player(payload.Player)
	if !ok {
		return
	}

	player.SetColor(payload.Color)
	s.notes.Emit(Scoped(EventPlayerColor, room.Name()), Notification{Event: EventPlayerColor, Room: room, Player: player})
}

// handlePlayerReady overwrites a player's ready flag with the
// server-supplied value. Room-validated like handlePlayerColor.
func (s *Synchronizer) handlePlayerReady(data []byte) {
	var payload ReadyPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	s.apply.Lock()
	defer s.apply.Unlock()

	room, ok := s.lookupRoom(payload.Room)
	if !ok {
		return
	}

	player, ok := room.Player(payload.Player)
	if !ok {
		return
	}

	player.SetReady(payload.Ready)
	s.notes.Emit(Scoped(EventPlayerReady, room.Name()), Notification{Event: EventPlayerReady, Room: room, Player: player})
}

// handleRoomStart is informational: no mutation, just the notification,
// gated on the room existing.
func (s *Synchronizer) handleRoomStart(data []byte) {
	var payload RoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	s.apply.Lock()
	defer s.apply.Unlock()

	room, ok := s.lookupRoom(payload.Room)
	if !ok {
		return
	}

	n := Notification{Event: EventRoomStart, Room: room}
	s.notes.Emit(EventRoomStart, n)
	s.notes.Emit(Scoped(EventRoomStart, room.Name()), n)
}

func (s *Synchronizer) lookupRoom(name string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms.Get(name)
}

// markSynced flips the sync flag and fires the synced notification exactly
// once per connection lifecycle.
func (s *Synchronizer) markSynced() {
	s.mu.Lock()
	if s.synced {
		s.mu.Unlock()
		return
	}
	s.synced = true
	close(s.syncCh)
	s.mu.Unlock()

	s.notes.Emit(EventSynced, Notification{Event: EventSynced})
}
