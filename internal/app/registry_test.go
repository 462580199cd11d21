package app

import (
	"testing"

	"github.com/cinesync/cinesync/internal/core"
	"github.com/cinesync/cinesync/internal/domain"
)

type nopConn struct{}

func (nopConn) TrySend(core.Frame) error { return nil }
func (nopConn) Close()                   {}

func bind(t *testing.T, r *Registry, cid domain.ConnID) {
	t.Helper()
	user := domain.NewUser(cid, "")
	r.BindSignal(cid, core.NewMemberSession(domain.NewMember(user), nopConn{}), nil)
}

func TestRegistryMembership(t *testing.T) {
	r := NewRegistry()
	bind(t, r, "A")
	bind(t, r, "B")

	if !r.JoinRoom("A", "r1") || !r.JoinRoom("B", "r1") {
		t.Fatal("joins for bound connections should succeed")
	}
	if r.JoinRoom("ghost", "r1") {
		t.Fatal("join for an unbound connection should fail")
	}

	if got := r.CountOf("r1"); got != 2 {
		t.Fatalf("CountOf(r1) = %d, want 2", got)
	}
	if got := r.CountOf("unknown"); got != 0 {
		t.Fatalf("CountOf(unknown) = %d, want 0", got)
	}

	members := r.MembersOf("r1")
	if len(members) != 2 {
		t.Fatalf("MembersOf(r1) = %d members, want 2", len(members))
	}

	r.LeaveRoom("A", "r1")
	if got := r.CountOf("r1"); got != 1 {
		t.Fatalf("CountOf(r1) after leave = %d, want 1", got)
	}
}

func TestRegistryAdmit(t *testing.T) {
	r := NewRegistry()
	bind(t, r, "A")
	bind(t, r, "B")

	others, count, ok := r.Admit("A", "r1")
	if !ok || count != 1 || len(others) != 0 {
		t.Fatalf("first admit = (%v, %d, %v), want ([], 1, true)", others, count, ok)
	}

	others, count, ok = r.Admit("B", "r1")
	if !ok || count != 2 || len(others) != 1 || others[0] != "A" {
		t.Fatalf("second admit = (%v, %d, %v), want ([A], 2, true)", others, count, ok)
	}

	// Re-admitting must not double-count or list self.
	others, count, ok = r.Admit("B", "r1")
	if !ok || count != 2 || len(others) != 1 {
		t.Fatalf("re-admit = (%v, %d, %v), want ([A], 2, true)", others, count, ok)
	}

	if _, _, ok := r.Admit("ghost", "r1"); ok {
		t.Fatal("admit for an unbound connection should fail")
	}
}

// Two connections racing into the same room must agree: one of them sees
// the other in its snapshot, and the reported sizes never skip a member.
func TestRegistryAdmitConcurrent(t *testing.T) {
	for i := 0; i < 300; i++ {
		r := NewRegistry()
		bind(t, r, "A")
		bind(t, r, "B")

		type result struct {
			others []domain.ConnID
			count  int
		}
		done := make(chan result, 2)
		admit := func(cid domain.ConnID) {
			others, count, _ := r.Admit(cid, "r1")
			done <- result{others, count}
		}
		go admit("A")
		go admit("B")
		first, second := <-done, <-done

		counts := []int{first.count, second.count}
		if !((counts[0] == 1 && counts[1] == 2) || (counts[0] == 2 && counts[1] == 1)) {
			t.Fatalf("iteration %d: counts %v, want one admit to see 1 and the other 2", i, counts)
		}
		sawOther := len(first.others) + len(second.others)
		if sawOther != 1 {
			t.Fatalf("iteration %d: exactly one admit should snapshot the other, saw %d", i, sawOther)
		}

		// A third join observes the settled room.
		bind(t, r, "C")
		if _, count, _ := r.Admit("C", "r1"); count != 3 {
			t.Fatalf("iteration %d: settled count = %d, want 3", i, count)
		}
	}
}

// Rebinding a connection ID must tear down the previous session's context
// rather than strand it.
func TestRegistryBindSignalEvictsPrevious(t *testing.T) {
	r := NewRegistry()
	canceled := false
	user := domain.NewUser("A", "")
	r.BindSignal("A", core.NewMemberSession(domain.NewMember(user), nopConn{}), func() { canceled = true })

	bind(t, r, "A")
	if !canceled {
		t.Fatal("rebinding should cancel the displaced session")
	}
}

func TestRegistryCancel(t *testing.T) {
	r := NewRegistry()
	canceled := false
	user := domain.NewUser("A", "")
	r.BindSignal("A", core.NewMemberSession(domain.NewMember(user), nopConn{}), func() { canceled = true })

	if !r.Cancel("A") {
		t.Fatal("Cancel for a bound connection should report true")
	}
	if !canceled {
		t.Fatal("Cancel should invoke the session's cancel func")
	}
	if r.Cancel("ghost") {
		t.Fatal("Cancel for an unknown connection should report false")
	}
}

func TestRegistryRejoinIsIdempotent(t *testing.T) {
	r := NewRegistry()
	bind(t, r, "A")

	r.JoinRoom("A", "r1")
	r.JoinRoom("A", "r1")

	if got := r.CountOf("r1"); got != 1 {
		t.Fatalf("rejoin should not double-count: got %d", got)
	}
}

func TestRegistryRoomsOf(t *testing.T) {
	r := NewRegistry()
	bind(t, r, "A")
	r.JoinRoom("A", "r1")
	r.JoinRoom("A", "r2")

	rooms := r.RoomsOf("A")
	if len(rooms) != 2 {
		t.Fatalf("RoomsOf(A) = %v, want 2 rooms", rooms)
	}

	r.Unbind("A")
	if rooms := r.RoomsOf("A"); rooms != nil {
		t.Fatalf("RoomsOf after unbind = %v, want nil", rooms)
	}
	if got := r.CountOf("r1"); got != 0 {
		t.Fatalf("unbound connection should not count: got %d", got)
	}
}
