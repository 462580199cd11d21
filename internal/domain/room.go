package domain

type (
	RoomID string
	ConnID string
)

// Room is the tracked metadata for a hosted room. An entry exists only
// while the hosting connection is alive; rooms without a host still relay
// events, they just have no recorded owner.
type Room struct {
	ID   RoomID
	Host ConnID
}
