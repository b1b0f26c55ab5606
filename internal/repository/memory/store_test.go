package memory

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/testutil"
)

func TestNotFoundMatchesGorm(t *testing.T) {
	store := NewStore()
	users := NewUserStore(store)

	if _, err := users.FindByID(42); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("FindByID(missing) error = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestGroupHydration(t *testing.T) {
	helper := testutil.NewTestHelper(t)
	store := NewStore()
	users := NewUserStore(store)
	groups := NewGroupStore(store)
	participants := NewParticipantStore(store)

	admin := helper.CreateTestUser(0, "Rahul", "")
	admin.ID = 0
	if err := users.Create(admin); err != nil {
		t.Fatalf("create user: %v", err)
	}

	group := helper.CreateTestGroup(0, admin.ID, "")
	group.ID = 0
	if err := groups.Create(group); err != nil {
		t.Fatalf("create group: %v", err)
	}
	if err := participants.Add(group.ID, admin.ID, models.RoleAdmin); err != nil {
		t.Fatalf("add member: %v", err)
	}

	got, err := groups.FindByID(group.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.Admin.Name != "Rahul" {
		t.Errorf("Admin.Name = %q, want Rahul (joined row filled)", got.Admin.Name)
	}
	if len(got.Participants) != 1 || got.Participants[0].User.Name != "Rahul" {
		t.Error("participants are not hydrated with their users")
	}
}

func TestListActiveRequiresStudyingMember(t *testing.T) {
	helper := testutil.NewTestHelper(t)
	store := NewStore()
	users := NewUserStore(store)
	groups := NewGroupStore(store)
	participants := NewParticipantStore(store)

	seed := func(name string, studying bool) uint {
		t.Helper()
		u := helper.CreateTestUser(0, name, "")
		u.ID = 0
		if err := users.Create(u); err != nil {
			t.Fatalf("create user: %v", err)
		}
		g := helper.CreateTestGroup(0, u.ID, name+" group")
		g.ID = 0
		if err := groups.Create(g); err != nil {
			t.Fatalf("create group: %v", err)
		}
		if err := participants.Add(g.ID, u.ID, models.RoleAdmin); err != nil {
			t.Fatalf("add member: %v", err)
		}
		if studying {
			if err := participants.SetStudying(g.ID, u.ID, true); err != nil {
				t.Fatalf("set studying: %v", err)
			}
		}
		return g.ID
	}

	activeID := seed("Rahul", true)
	seed("Priya", false)

	active, err := groups.ListActive(10)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(active) != 1 || active[0].ID != activeID {
		t.Errorf("ListActive() = %d groups, want only the one with a studying member", len(active))
	}
}

func TestGroupDeleteCascades(t *testing.T) {
	helper := testutil.NewTestHelper(t)
	store := NewStore()
	users := NewUserStore(store)
	groups := NewGroupStore(store)
	participants := NewParticipantStore(store)
	readStates := NewReadStateStore(store)

	u := helper.CreateTestUser(0, "Rahul", "")
	u.ID = 0
	if err := users.Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	g := helper.CreateTestGroup(0, u.ID, "")
	g.ID = 0
	if err := groups.Create(g); err != nil {
		t.Fatalf("create group: %v", err)
	}
	if err := participants.Add(g.ID, u.ID, models.RoleAdmin); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := readStates.EnsureForMember(g.ID, u.ID); err != nil {
		t.Fatalf("ensure read state: %v", err)
	}

	if err := groups.Delete(g.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if ok, _ := participants.IsMember(g.ID, u.ID); ok {
		t.Error("membership survived group deletion")
	}
	if _, err := readStates.Get(g.ID, u.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Error("read state survived group deletion")
	}
}

func TestPendingEventOrdering(t *testing.T) {
	store := NewStore()
	events := NewPendingEventStore(store)

	// Two chat events, then a system event queued last.
	if err := events.Enqueue(1, "e-1", `{"n":1}`, 0); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if err := events.Enqueue(1, "e-2", `{"n":2}`, 0); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if err := events.Enqueue(1, "e-3", `{"n":3}`, 1); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	events.Enqueue(2, "other", `{}`, 0)

	pending, err := events.GetPendingForUser(1, 10)
	if err != nil {
		t.Fatalf("GetPendingForUser() error = %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("pending = %d, want 3", len(pending))
	}
	// Higher priority flushes first; equal priority keeps queue order.
	if pending[0].EventID != "e-3" || pending[1].EventID != "e-1" || pending[2].EventID != "e-2" {
		t.Errorf("order = %s,%s,%s, want e-3,e-1,e-2",
			pending[0].EventID, pending[1].EventID, pending[2].EventID)
	}

	if n, _ := events.CountPendingForUser(1); n != 3 {
		t.Errorf("CountPendingForUser(1) = %d, want 3", n)
	}

	if err := events.DeleteBatch([]uint{pending[0].ID, pending[1].ID}); err != nil {
		t.Fatalf("DeleteBatch() error = %v", err)
	}
	if n, _ := events.CountPendingForUser(1); n != 1 {
		t.Errorf("after DeleteBatch count = %d, want 1", n)
	}
}

func TestPendingEventCleanup(t *testing.T) {
	store := NewStore()
	events := NewPendingEventStore(store)

	events.Enqueue(1, "e-1", `{}`, 0)
	events.Enqueue(2, "e-2", `{}`, 0)

	if err := events.CleanupOld(time.Hour); err != nil {
		t.Fatalf("CleanupOld() error = %v", err)
	}
	if n, _ := events.CountPendingForUser(1); n != 1 {
		t.Errorf("fresh event pruned, count = %d, want 1", n)
	}

	// Zero retention prunes everything enqueued before the call.
	if err := events.CleanupOld(0); err != nil {
		t.Fatalf("CleanupOld() error = %v", err)
	}
	if n, _ := events.CountPendingForUser(1); n != 0 {
		t.Errorf("after zero-retention cleanup count = %d, want 0", n)
	}
	if n, _ := events.CountPendingForUser(2); n != 0 {
		t.Errorf("after zero-retention cleanup count = %d, want 0", n)
	}
}
