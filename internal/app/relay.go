package app

import (
	"github.com/cinesync/cinesync/internal/core"
	"github.com/cinesync/cinesync/internal/domain"
	"github.com/rs/zerolog/log"
)

// Relay coordinates the registry and the room table. It decides what a
// join or disconnect changes; the signal adapter decides how the results
// reach the wire.
type Relay struct {
	Registry *Registry
	Rooms    *core.RoomTable
}

func NewRelay() *Relay {
	return &Relay{
		Registry: NewRegistry(),
		Rooms:    core.NewRoomTable(),
	}
}

// JoinResult carries what the adapter needs to acknowledge a join.
type JoinResult struct {
	Count  int
	Others []domain.ConnID
}

// Join adds the connection to the room's group and, for host joins,
// records it in the room table. Others lists the members that were
// already present, self excluded.
func (r *Relay) Join(cid domain.ConnID, room domain.RoomID, isHost bool) (JoinResult, bool) {
	others, count, ok := r.Registry.Admit(cid, room)
	if !ok {
		log.Warn().Str("module", "app.relay").Str("conn", string(cid)).Msg("join for unknown connection")
		return JoinResult{}, false
	}
	if isHost {
		r.Rooms.RecordHost(room, cid)
	}
	return JoinResult{Count: count, Others: others}, true
}

// RoomCount is a post-disconnect participant count for one room.
type RoomCount struct {
	Room  domain.RoomID
	Count int
}

// Disconnect reconciles state after a connection drops: the room table
// loses every entry this connection hosted, the registry forgets the
// session, and each room it had joined gets a fresh count. Tolerates
// rooms with no table entry.
func (r *Relay) Disconnect(cid domain.ConnID) []RoomCount {
	rooms := r.Registry.RoomsOf(cid)
	counts := make([]RoomCount, 0, len(rooms))
	for _, room := range rooms {
		r.Rooms.RemoveIfHost(room, cid)
		r.Registry.LeaveRoom(cid, room)
		counts = append(counts, RoomCount{Room: room, Count: r.Registry.CountOf(room)})
	}
	r.Registry.Unbind(cid)
	log.Info().Str("module", "app.relay").Str("conn", string(cid)).Int("rooms", len(rooms)).Msg("disconnected")
	return counts
}

// RoomInfos lists hosted rooms with their live members.
func (r *Relay) RoomInfos() []core.RoomInfo {
	rooms := r.Rooms.Rooms()
	out := make([]core.RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		refs := r.Registry.MembersOf(room.ID)
		members := make([]core.MemberView, 0, len(refs))
		for _, m := range refs {
			meta := m.Session.Meta()
			members = append(members, core.MemberView{
				ID:       m.ID,
				Username: meta.User.Username,
				Host:     meta.Host,
			})
		}
		out = append(out, core.RoomInfo{
			ID:          room.ID,
			Host:        room.Host,
			MemberCount: len(members),
			Members:     members,
		})
	}
	return out
}
