package core

import "github.com/cinesync/cinesync/internal/domain"

// Frame is a marshaled outbound event.
type Frame []byte

// SignalConnection abstracts the messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// MemberSession binds domain.Member and its transport endpoint.
// This is what the registry stores and the relay fans out to.
type MemberSession interface {
	Meta() *domain.Member
	Signal() SignalConnection
}

// MemberView is a read-only member projection for APIs.
type MemberView struct {
	ID       domain.ConnID `json:"id"`
	Username string        `json:"username"`
	Host     bool          `json:"host"`
}

// RoomInfo is a read-only view for APIs (no transport fields).
type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	Host        domain.ConnID `json:"host"`
	MemberCount int           `json:"member_count"`
	Members     []MemberView  `json:"members"`
}
