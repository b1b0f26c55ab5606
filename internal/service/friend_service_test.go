package service

import (
	"errors"
	"testing"

	"github.com/Symmetry7/KIITstudy/internal/models"
)

func newFriendEnv(t *testing.T) (*testEnv, *FriendService, *models.User, *models.User) {
	t.Helper()
	env := newTestEnv()
	svc := NewFriendService(env.friends, env.users)
	return env, svc, env.user(t, "Rahul"), env.user(t, "Priya")
}

func TestSendFriendRequest(t *testing.T) {
	_, svc, a, b := newFriendEnv(t)
	pub := &capturePublisher{}
	svc.SetPublisher(pub)

	req, err := svc.SendRequest(a.ID, b.ID)
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}
	if req.Status != models.FriendPending {
		t.Errorf("Status = %q, want pending", req.Status)
	}

	events := pub.byType(EventFriendRequested)
	if len(events) != 1 || len(events[0].UserIDs) != 1 || events[0].UserIDs[0] != b.ID {
		t.Error("friend.requested was not delivered to the recipient")
	}

	pending, err := svc.ListPending(b.ID)
	if err != nil {
		t.Fatalf("ListPending() error = %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pending for recipient = %d, want 1", len(pending))
	}
	if mine, _ := svc.ListPending(a.ID); len(mine) != 0 {
		t.Errorf("pending for sender = %d, want 0", len(mine))
	}
}

func TestSendFriendRequestRejections(t *testing.T) {
	_, svc, a, b := newFriendEnv(t)

	if _, err := svc.SendRequest(a.ID, a.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("self request error = %v, want ErrValidation", err)
	}
	if _, err := svc.SendRequest(a.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown recipient error = %v, want ErrNotFound", err)
	}

	if _, err := svc.SendRequest(a.ID, b.ID); err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}
	// Duplicate in the same direction.
	if _, err := svc.SendRequest(a.ID, b.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate request error = %v, want ErrValidation", err)
	}
	// And in the opposite direction while one is pending.
	if _, err := svc.SendRequest(b.ID, a.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("reverse request error = %v, want ErrValidation", err)
	}
}

func TestAcceptFriendRequest(t *testing.T) {
	_, svc, a, b := newFriendEnv(t)
	pub := &capturePublisher{}
	svc.SetPublisher(pub)

	req, err := svc.SendRequest(a.ID, b.ID)
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}

	// Only the recipient may accept.
	if err := svc.AcceptRequest(req.ID, a.ID); !errors.Is(err, ErrPermission) {
		t.Errorf("sender accepting own request error = %v, want ErrPermission", err)
	}

	if err := svc.AcceptRequest(req.ID, b.ID); err != nil {
		t.Fatalf("AcceptRequest() error = %v", err)
	}
	friends, err := svc.AreFriends(a.ID, b.ID)
	if err != nil {
		t.Fatalf("AreFriends() error = %v", err)
	}
	if !friends {
		t.Error("users are not friends after accept")
	}
	// Friendship is symmetric.
	if friends, _ = svc.AreFriends(b.ID, a.ID); !friends {
		t.Error("friendship is not symmetric")
	}

	if events := pub.byType(EventFriendAccepted); len(events) != 1 {
		t.Errorf("friend.accepted events = %d, want 1", len(events))
	}

	// Accepting twice fails: the request is no longer pending.
	if err := svc.AcceptRequest(req.ID, b.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("double accept error = %v, want ErrValidation", err)
	}

	// Friends cannot re-request each other.
	if _, err := svc.SendRequest(a.ID, b.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("request between friends error = %v, want ErrValidation", err)
	}
}

func TestRejectFriendRequest(t *testing.T) {
	_, svc, a, b := newFriendEnv(t)

	req, err := svc.SendRequest(a.ID, b.ID)
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}

	if err := svc.RejectRequest(req.ID, a.ID); !errors.Is(err, ErrPermission) {
		t.Errorf("sender rejecting own request error = %v, want ErrPermission", err)
	}
	if err := svc.RejectRequest(req.ID, b.ID); err != nil {
		t.Fatalf("RejectRequest() error = %v", err)
	}

	if friends, _ := svc.AreFriends(a.ID, b.ID); friends {
		t.Error("users became friends after a rejection")
	}
	if pending, _ := svc.ListPending(b.ID); len(pending) != 0 {
		t.Errorf("pending after rejection = %d, want 0", len(pending))
	}
}

func TestFriendRequestNotFound(t *testing.T) {
	_, svc, a, _ := newFriendEnv(t)

	if err := svc.AcceptRequest(999, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("AcceptRequest(unknown) error = %v, want ErrNotFound", err)
	}
	if err := svc.RejectRequest(999, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("RejectRequest(unknown) error = %v, want ErrNotFound", err)
	}
}
