package core

import (
	"testing"

	"github.com/cinesync/cinesync/internal/domain"
)

func TestRoomTableHostLifecycle(t *testing.T) {
	tbl := NewRoomTable()
	tbl.RecordHost("r1", "A")

	if !tbl.IsHost("r1", "A") {
		t.Fatal("A should be host of r1")
	}
	if host, ok := tbl.HostOf("r1"); !ok || host != "A" {
		t.Fatalf("HostOf(r1) = %q, %v; want A, true", host, ok)
	}

	if !tbl.RemoveIfHost("r1", "A") {
		t.Fatal("host disconnect should remove the entry")
	}
	if _, ok := tbl.HostOf("r1"); ok {
		t.Fatal("r1 should have no entry after host removal")
	}
}

func TestRoomTableLastHostWins(t *testing.T) {
	tbl := NewRoomTable()
	tbl.RecordHost("r1", "A")
	tbl.RecordHost("r1", "B")

	if tbl.IsHost("r1", "A") {
		t.Fatal("A should have been displaced by B")
	}
	if !tbl.IsHost("r1", "B") {
		t.Fatal("B should be the recorded host")
	}
}

func TestRoomTableNonHostRemovalIsNoop(t *testing.T) {
	tbl := NewRoomTable()
	tbl.RecordHost("r1", "A")

	if tbl.RemoveIfHost("r1", "B") {
		t.Fatal("non-host removal must not delete the entry")
	}
	if !tbl.IsHost("r1", "A") {
		t.Fatal("A should still own r1")
	}

	// Unknown room is a no-op, never an error.
	if tbl.RemoveIfHost("missing", "A") {
		t.Fatal("removal from an unknown room should report false")
	}
}

func TestRoomTableSnapshot(t *testing.T) {
	tbl := NewRoomTable()
	tbl.RecordHost("r1", "A")
	tbl.RecordHost("r2", "B")

	rooms := tbl.Rooms()
	if len(rooms) != 2 || tbl.Len() != 2 {
		t.Fatalf("expected 2 hosted rooms, got %d", len(rooms))
	}
	seen := map[domain.RoomID]domain.ConnID{}
	for _, r := range rooms {
		seen[r.ID] = r.Host
	}
	if seen["r1"] != "A" || seen["r2"] != "B" {
		t.Fatalf("unexpected snapshot: %v", seen)
	}
}
