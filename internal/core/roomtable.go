package core

import (
	"sync"

	"github.com/cinesync/cinesync/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomTable records which connection hosts which room. It holds only the
// host relation; membership lives in the registry, so "room has a host"
// and "room has members" are deliberately separate questions.
type RoomTable struct {
	mu    sync.RWMutex
	hosts map[domain.RoomID]domain.ConnID
}

func NewRoomTable() *RoomTable {
	return &RoomTable{hosts: make(map[domain.RoomID]domain.ConnID)}
}

// RecordHost overwrites any existing host record for the room.
// Last host-join wins; concurrent double-hosting is not validated.
func (t *RoomTable) RecordHost(room domain.RoomID, conn domain.ConnID) {
	t.mu.Lock()
	t.hosts[room] = conn
	t.mu.Unlock()
	log.Info().Str("module", "core.roomtable").Str("room", string(room)).Str("conn", string(conn)).Msg("host recorded")
}

// RemoveIfHost deletes the room entry only when conn is the recorded host.
// A non-host disconnect never removes a room still owned by someone else.
// Safe to call for rooms with no entry.
func (t *RoomTable) RemoveIfHost(room domain.RoomID, conn domain.ConnID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if host, ok := t.hosts[room]; ok && host == conn {
		delete(t.hosts, room)
		log.Info().Str("module", "core.roomtable").Str("room", string(room)).Str("conn", string(conn)).Msg("host removed")
		return true
	}
	return false
}

func (t *RoomTable) IsHost(room domain.RoomID, conn domain.ConnID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hosts[room] == conn && conn != ""
}

func (t *RoomTable) HostOf(room domain.RoomID) (domain.ConnID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	host, ok := t.hosts[room]
	return host, ok
}

// Rooms returns a snapshot of all hosted rooms.
func (t *RoomTable) Rooms() []domain.Room {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.Room, 0, len(t.hosts))
	for id, host := range t.hosts {
		out = append(out, domain.Room{ID: id, Host: host})
	}
	return out
}

func (t *RoomTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.hosts)
}
