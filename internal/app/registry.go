package app

import (
	"context"
	"sync"

	"github.com/cinesync/cinesync/internal/core"
	"github.com/cinesync/cinesync/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Session core.MemberSession
	Rooms   map[domain.RoomID]struct{}
	Cancel  context.CancelFunc
}

// Registry owns the live-connection set and the membership relation
// (which connections are in which rooms). The room table never duplicates
// this; counts and member listings are always answered here.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.ConnID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[domain.ConnID]*sessionEntry)}
}

// MemberRef pairs a connection ID with its session for fan-out loops.
type MemberRef struct {
	ID      domain.ConnID
	Session core.MemberSession
}

func (r *Registry) BindSignal(cid domain.ConnID, sess core.MemberSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.sessions[cid]; ok && prev.Cancel != nil {
		prev.Cancel()
	}
	r.sessions[cid] = &sessionEntry{
		Session: sess,
		Rooms:   make(map[domain.RoomID]struct{}),
		Cancel:  cancel,
	}
	log.Info().Str("module", "app.registry").Str("conn", string(cid)).Msg("bound signal")
}

func (r *Registry) GetSession(cid domain.ConnID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[cid]; ok {
		return e.Session, true
	}
	return nil, false
}

func (r *Registry) Unbind(cid domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, cid)
	log.Info().Str("module", "app.registry").Str("conn", string(cid)).Msg("unbind session")
}

// JoinRoom adds cid to the room's group. Rejoining is idempotent.
func (r *Registry) JoinRoom(cid domain.ConnID, room domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[cid]
	if !ok {
		return false
	}
	e.Rooms[room] = struct{}{}
	log.Info().Str("module", "app.registry").Str("conn", string(cid)).Str("room", string(room)).Msg("joined room")
	return true
}

// Admit atomically snapshots the room's current members, adds cid to the
// group, and reports the resulting size. Snapshot, admit and count share
// one critical section so a concurrent join cannot fall between them.
func (r *Registry) Admit(cid domain.ConnID, room domain.RoomID) ([]domain.ConnID, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[cid]
	if !ok {
		return nil, 0, false
	}
	others := make([]domain.ConnID, 0)
	count := 0
	for id, se := range r.sessions {
		if _, in := se.Rooms[room]; in {
			count++
			if id != cid {
				others = append(others, id)
			}
		}
	}
	if _, in := e.Rooms[room]; !in {
		e.Rooms[room] = struct{}{}
		count++
	}
	log.Info().Str("module", "app.registry").Str("conn", string(cid)).Str("room", string(room)).Msg("joined room")
	return others, count, true
}

func (r *Registry) LeaveRoom(cid domain.ConnID, room domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[cid]; ok {
		delete(e.Rooms, room)
	}
}

// RoomsOf snapshots the rooms a connection has joined.
func (r *Registry) RoomsOf(cid domain.ConnID) []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[cid]
	if !ok {
		return nil
	}
	out := make([]domain.RoomID, 0, len(e.Rooms))
	for room := range e.Rooms {
		out = append(out, room)
	}
	return out
}

// MembersOf snapshots the current members of a room.
func (r *Registry) MembersOf(room domain.RoomID) []MemberRef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberRef, 0, len(r.sessions))
	for cid, e := range r.sessions {
		if _, in := e.Rooms[room]; in {
			out = append(out, MemberRef{ID: cid, Session: e.Session})
		}
	}
	return out
}

// CountOf reports room size. Unknown or empty rooms count as 0.
func (r *Registry) CountOf(room domain.RoomID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, e := range r.sessions {
		if _, in := e.Rooms[room]; in {
			n++
		}
	}
	return n
}

func (r *Registry) Cancel(cid domain.ConnID) bool {
	r.mu.RLock()
	e, ok := r.sessions[cid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(cid)).Msg("canceled session")
	return true
}
