package mirror

// Inbound event names: server-to-client notifications the synchronizer
// subscribes to on its channel. Events that survive reconciliation are
// republished locally under the same names. Room-scoped variants (see
// Scoped) are local only.
const (
	EventRoomNew     = "room:new"
	EventRoomClose   = "room:close"
	EventRoomJoin    = "room:join"
	EventRoomLeave   = "room:leave"
	EventPlayerColor = "room:player:color"
	EventPlayerReady = "room:player:ready"
	EventRoomStart   = "room:start"

	// EventSynced is local only: the one-shot signal that the initial
	// authoritative room list has been received after (re)connect.
	EventSynced = "synced"
)

// Outbound request names: client-to-server messages emitted by the
// synchronizer's public operations. None of them mutate local state; the
// server echoes their effect back as inbound events.
const (
	RequestRoomCreate  = "room:create"
	RequestRoomJoin    = "room:join"
	RequestPlayerAdd   = "room:player:add"
	RequestRoomLeave   = "room:leave"
	RequestPlayerColor = "room:color"
	RequestPlayerReady = "room:ready"
)

// Scoped returns the room-scoped variant of a local notification name,
// letting a consumer subscribe to a single room instead of filtering the
// global stream.
func Scoped(event, room string) string {
	return event + ":" + room
}

// PlayerState is the wire form of one player, used inside room snapshots
// and join events.
type PlayerState struct {
	Client string `json:"client"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

// RoomState is the payload of room:new. Players may be non-empty: a room
// that existed before this client connected arrives as a full snapshot.
type RoomState struct {
	Name    string        `json:"name"`
	Players []PlayerState `json:"players"`
}

// RoomPayload names a room with no further data (room:close, room:start,
// and the outbound room:join request).
type RoomPayload struct {
	Room string `json:"room"`
}

// JoinPayload is the inbound room:join event.
type JoinPayload struct {
	Room   string      `json:"room"`
	Player PlayerState `json:"player"`
}

// LeavePayload is the inbound room:leave event; Player is the client id.
type LeavePayload struct {
	Room   string `json:"room"`
	Player string `json:"player"`
}

// ColorPayload is the room:player:color event and the outbound room:color
// request; both directions carry the same shape.
type ColorPayload struct {
	Room   string `json:"room"`
	Player string `json:"player"`
	Color  string `json:"color"`
}

// ReadyPayload is the inbound room:player:ready event.
type ReadyPayload struct {
	Room   string `json:"room"`
	Player string `json:"player"`
	Ready  bool   `json:"ready"`
}

// ReadyRequest is the outbound room:ready request. It carries no boolean:
// the server owns the flip and reports the resulting value via
// room:player:ready.
type ReadyRequest struct {
	Room   string `json:"room"`
	Player string `json:"player"`
}

// CreatePayload is the outbound room:create request.
type CreatePayload struct {
	Name string `json:"name"`
}

// AddPlayerPayload is the outbound room:player:add request carrying the
// local player's display name.
type AddPlayerPayload struct {
	Name string `json:"name"`
}
