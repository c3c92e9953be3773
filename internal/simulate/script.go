package simulate

import (
	"github.com/google/uuid"
	"github.com/pixil98/go-lobby/internal/mirror"
)

type step struct {
	event   string
	payload any
}

// script builds one full lobby session. Client ids are fresh each cycle so
// repeats look like new players. The second join for Cara is deliberate:
// servers may redeliver, and mirrors are expected to shrug duplicates off.
func script() []step {
	alice := mirror.PlayerState{Client: uuid.NewString(), Name: "Alice", Color: "red"}
	bob := mirror.PlayerState{Client: uuid.NewString(), Name: "Bob"}
	cara := mirror.PlayerState{Client: uuid.NewString(), Name: "Cara"}

	joinCara := step{mirror.EventRoomJoin, mirror.JoinPayload{Room: "beta", Player: cara}}

	return []step{
		// Alpha is announced with players already in it, the way a server
		// re-describes an ongoing room to a late subscriber.
		{mirror.EventRoomNew, mirror.RoomState{Name: "alpha", Players: []mirror.PlayerState{alice, bob}}},
		{mirror.EventRoomNew, mirror.RoomState{Name: "beta"}},
		joinCara,
		{mirror.EventPlayerColor, mirror.ColorPayload{Room: "beta", Player: cara.Client, Color: "blue"}},
		{mirror.EventPlayerReady, mirror.ReadyPayload{Room: "beta", Player: cara.Client, Ready: true}},
		joinCara,
		{mirror.EventPlayerReady, mirror.ReadyPayload{Room: "alpha", Player: alice.Client, Ready: true}},
		{mirror.EventPlayerReady, mirror.ReadyPayload{Room: "alpha", Player: bob.Client, Ready: true}},
		{mirror.EventRoomStart, mirror.RoomPayload{Room: "alpha"}},
		{mirror.EventPlayerReady, mirror.ReadyPayload{Room: "beta", Player: cara.Client, Ready: false}},
		{mirror.EventRoomLeave, mirror.LeavePayload{Room: "beta", Player: cara.Client}},
		{mirror.EventRoomClose, mirror.RoomPayload{Room: "alpha"}},
		{mirror.EventRoomClose, mirror.RoomPayload{Room: "beta"}},
	}
}
