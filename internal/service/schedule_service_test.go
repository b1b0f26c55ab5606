package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/notify"
)

type sentNote struct {
	UserID uint
	Note   notify.Notification
}

type captureNotifier struct {
	mu    sync.Mutex
	notes []sentNote
}

func (c *captureNotifier) Notify(userID uint, n notify.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = append(c.notes, sentNote{UserID: userID, Note: n})
}

func (c *captureNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.notes)
}

func newScheduleEnv(t *testing.T) (*testEnv, *ScheduleService, *models.User) {
	t.Helper()
	env := newTestEnv()
	svc := NewScheduleService(env.schedule)
	return env, svc, env.user(t, "Rahul")
}

func scheduleInput(start time.Time) ScheduleItemInput {
	return ScheduleItemInput{
		Title:    "OS revision",
		Subject:  "Operating Systems",
		StartsAt: start,
		EndsAt:   start.Add(time.Hour),
	}
}

func TestCreateScheduleItem(t *testing.T) {
	_, svc, user := newScheduleEnv(t)
	start := time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC)

	item, err := svc.CreateItem(user.ID, scheduleInput(start))
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}
	if item.Status != models.ScheduleScheduled {
		t.Errorf("Status = %q, want scheduled", item.Status)
	}
	if item.Type != models.ScheduleStudy || item.Priority != models.PriorityMedium || item.Recurring != models.RecurNone {
		t.Errorf("defaults = %q/%q/%q, want study/medium/none", item.Type, item.Priority, item.Recurring)
	}
}

func TestCreateScheduleItemValidation(t *testing.T) {
	_, svc, user := newScheduleEnv(t)
	start := time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC)

	bad := scheduleInput(start)
	bad.Title = "  "
	if _, err := svc.CreateItem(user.ID, bad); !errors.Is(err, ErrValidation) {
		t.Errorf("blank title error = %v, want ErrValidation", err)
	}

	bad = scheduleInput(start)
	bad.EndsAt = start.Add(-time.Minute)
	if _, err := svc.CreateItem(user.ID, bad); !errors.Is(err, ErrValidation) {
		t.Errorf("end before start error = %v, want ErrValidation", err)
	}
}

func TestScheduleOwnership(t *testing.T) {
	env, svc, user := newScheduleEnv(t)
	other := env.user(t, "Priya")
	start := time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC)

	item, err := svc.CreateItem(user.ID, scheduleInput(start))
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}

	if _, err := svc.UpdateItem(item.ID, other.ID, scheduleInput(start)); !errors.Is(err, ErrPermission) {
		t.Errorf("foreign update error = %v, want ErrPermission", err)
	}
	if err := svc.DeleteItem(item.ID, other.ID); !errors.Is(err, ErrPermission) {
		t.Errorf("foreign delete error = %v, want ErrPermission", err)
	}
	if _, err := svc.SetStatus(999, user.ID, models.ScheduleCompleted); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown item error = %v, want ErrNotFound", err)
	}
}

func TestScheduleStatusLifecycle(t *testing.T) {
	_, svc, user := newScheduleEnv(t)
	start := time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC)

	item, err := svc.CreateItem(user.ID, scheduleInput(start))
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}

	if _, err := svc.SetStatus(item.ID, user.ID, "cancelled"); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown status error = %v, want ErrValidation", err)
	}

	if _, err := svc.SetStatus(item.ID, user.ID, models.ScheduleInProgress); err != nil {
		t.Fatalf("SetStatus(in-progress) error = %v", err)
	}
	if _, err := svc.SetStatus(item.ID, user.ID, models.ScheduleCompleted); err != nil {
		t.Fatalf("SetStatus(completed) error = %v", err)
	}

	// Completed is terminal.
	if _, err := svc.SetStatus(item.ID, user.ID, models.ScheduleScheduled); !errors.Is(err, ErrValidation) {
		t.Errorf("reopening a completed item error = %v, want ErrValidation", err)
	}
}

func TestListRange(t *testing.T) {
	_, svc, user := newScheduleEnv(t)
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	if _, err := svc.CreateItem(user.ID, scheduleInput(monday.Add(10*time.Hour))); err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}
	if _, err := svc.CreateItem(user.ID, scheduleInput(monday.AddDate(0, 0, 9))); err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}

	week, err := svc.ListRange(user.ID, monday, monday.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("ListRange() error = %v", err)
	}
	if len(week) != 1 {
		t.Errorf("items in week = %d, want 1", len(week))
	}

	if _, err := svc.ListRange(user.ID, monday, monday); !errors.Is(err, ErrValidation) {
		t.Errorf("empty range error = %v, want ErrValidation", err)
	}
}

func TestRemindersFireOnce(t *testing.T) {
	_, svc, user := newScheduleEnv(t)
	clock := newFakeClock()
	svc.now = clock.Now

	notifier := &captureNotifier{}
	svc.SetNotifier(notifier)

	input := scheduleInput(clock.Now().Add(time.Hour))
	input.ReminderMinutes = 15
	item, err := svc.CreateItem(user.ID, input)
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}

	// Too early: the reminder window opens 15 minutes before start.
	svc.fireDueReminders()
	if notifier.count() != 0 {
		t.Fatalf("reminder fired %d times before its window", notifier.count())
	}

	clock.Advance(46 * time.Minute)
	svc.fireDueReminders()
	if notifier.count() != 1 {
		t.Fatalf("reminders fired = %d, want 1", notifier.count())
	}
	if notifier.notes[0].UserID != user.ID || notifier.notes[0].Note.Ref != item.ID {
		t.Error("reminder addressed to the wrong user or item")
	}

	// Subsequent ticks never repeat a fired reminder.
	clock.Advance(5 * time.Minute)
	svc.fireDueReminders()
	if notifier.count() != 1 {
		t.Errorf("reminders fired = %d after second tick, want 1", notifier.count())
	}
}

func TestRemindersSkipItemsWithoutReminder(t *testing.T) {
	_, svc, user := newScheduleEnv(t)
	clock := newFakeClock()
	svc.now = clock.Now

	notifier := &captureNotifier{}
	svc.SetNotifier(notifier)

	// No ReminderMinutes set, so nothing should ever fire.
	if _, err := svc.CreateItem(user.ID, scheduleInput(clock.Now().Add(30*time.Minute))); err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}

	clock.Advance(29 * time.Minute)
	svc.fireDueReminders()
	if notifier.count() != 0 {
		t.Errorf("reminders fired = %d for an item without a reminder, want 0", notifier.count())
	}
}
