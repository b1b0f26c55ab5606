package service

import (
	"errors"
	"testing"

	"github.com/Symmetry7/KIITstudy/internal/models"
)

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.sessions)
	user := env.user(t, "Rahul")

	name := "Rahul K."
	year := "4"
	updated, err := svc.UpdateProfile(user.ID, UpdateProfileInput{Name: &name, Year: &year})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Name != "Rahul K." || updated.Year != "4" {
		t.Errorf("profile = %q/%q, want Rahul K./4", updated.Name, updated.Year)
	}
	// Untouched fields survive a partial update.
	if updated.RollNumber != user.RollNumber {
		t.Errorf("RollNumber changed to %q", updated.RollNumber)
	}

	empty := "   "
	if _, err := svc.UpdateProfile(user.ID, UpdateProfileInput{Name: &empty}); !errors.Is(err, ErrValidation) {
		t.Errorf("blank name error = %v, want ErrValidation", err)
	}

	if _, err := svc.UpdateProfile(999, UpdateProfileInput{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user error = %v, want ErrNotFound", err)
	}
}

func TestSearchUsers(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.sessions)
	env.user(t, "Rahul Kumar")
	env.user(t, "Priya Sharma")
	env.user(t, "Rahul Verma")

	results, err := svc.SearchUsers("rahul", 20)
	if err != nil {
		t.Fatalf("SearchUsers() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("results = %d, want 2", len(results))
	}

	if _, err := svc.SearchUsers("r", 20); !errors.Is(err, ErrValidation) {
		t.Errorf("one-character query error = %v, want ErrValidation", err)
	}
}

func TestSetOnline(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.sessions)
	user := env.user(t, "Rahul")

	if err := svc.SetOnline(user.ID, true); err != nil {
		t.Fatalf("SetOnline(true) error = %v", err)
	}
	got, _ := env.users.FindByID(user.ID)
	if !got.IsOnline {
		t.Error("IsOnline = false after SetOnline(true)")
	}

	if err := svc.SetOnline(user.ID, false); err != nil {
		t.Fatalf("SetOnline(false) error = %v", err)
	}
	got, _ = env.users.FindByID(user.ID)
	if got.IsOnline {
		t.Error("IsOnline = true after SetOnline(false)")
	}
	if got.LastSeen == nil {
		t.Error("LastSeen not recorded on disconnect")
	}
}

func TestStats(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.sessions)

	admin := env.user(t, "Rahul")
	group := env.group(t, admin, CreateGroupInput{})
	if err := env.ledgerService.RecordSessionMinutes(group.ID, admin.ID, 130); err != nil {
		t.Fatalf("RecordSessionMinutes() error = %v", err)
	}

	stats, err := svc.Stats(admin.ID)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalMinutes != 130 || stats.TotalHours != 2 {
		t.Errorf("stats = %d min / %d h, want 130/2", stats.TotalMinutes, stats.TotalHours)
	}
	if stats.Streak != 1 {
		t.Errorf("Streak = %d, want 1", stats.Streak)
	}
}

func TestRecentSessions(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.sessions)
	user := env.user(t, "Rahul")

	for i := 0; i < 3; i++ {
		if err := env.sessions.Create(&models.StudySession{GroupID: 1, UserID: user.ID, Mode: models.TimerSprint, Minutes: 10 + i}); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}

	sessions, err := svc.RecentSessions(user.ID, 2)
	if err != nil {
		t.Fatalf("RecentSessions() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2 (limit respected)", len(sessions))
	}
	// Newest first.
	if sessions[0].ID < sessions[1].ID {
		t.Error("sessions are not newest first")
	}
}
