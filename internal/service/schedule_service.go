package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/notify"
	"github.com/Symmetry7/KIITstudy/internal/repository"
)

// ScheduleService manages a user's study calendar and fires the
// reminders attached to its items.
type ScheduleService struct {
	scheduleRepo repository.ScheduleRepositoryInterface
	notifier     notify.Notifier
	reminded     map[uint]bool
	now          func() time.Time
}

func NewScheduleService(scheduleRepo repository.ScheduleRepositoryInterface) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		notifier:     notify.Nop{},
		reminded:     make(map[uint]bool),
		now:          time.Now,
	}
}

func (s *ScheduleService) SetNotifier(n notify.Notifier) {
	if n != nil {
		s.notifier = n
	}
}

type ScheduleItemInput struct {
	Title           string                `json:"title" validate:"required,min=2,max=100"`
	Subject         string                `json:"subject" validate:"omitempty,max=100"`
	Description     string                `json:"description" validate:"omitempty,max=255"`
	Location        string                `json:"location" validate:"omitempty,max=100"`
	Type            models.ScheduleType   `json:"type" validate:"omitempty,oneof=study exam assignment group class meeting"`
	StartsAt        time.Time             `json:"startsAt" validate:"required"`
	EndsAt          time.Time             `json:"endsAt" validate:"required"`
	Priority        models.Priority       `json:"priority" validate:"omitempty,oneof=low medium high"`
	Recurring       models.Recurrence     `json:"recurring" validate:"omitempty,oneof=none daily weekly monthly"`
	ReminderMinutes int                   `json:"reminderMinutes" validate:"omitempty,min=0,max=1440"`
}

func (s *ScheduleService) CreateItem(userID uint, input ScheduleItemInput) (*models.ScheduleItem, error) {
	item := &models.ScheduleItem{UserID: userID}
	if err := applyScheduleInput(item, input); err != nil {
		return nil, err
	}
	item.Status = models.ScheduleScheduled
	if err := s.scheduleRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ScheduleService) ListItems(userID uint) ([]models.ScheduleItem, error) {
	return s.scheduleRepo.ListByUser(userID)
}

// ListRange returns items overlapping [from, to), for week and day views.
func (s *ScheduleService) ListRange(userID uint, from, to time.Time) ([]models.ScheduleItem, error) {
	if !to.After(from) {
		return nil, validationError("range end must be after start")
	}
	return s.scheduleRepo.ListByUserRange(userID, from, to)
}

func (s *ScheduleService) UpdateItem(itemID, userID uint, input ScheduleItemInput) (*models.ScheduleItem, error) {
	item, err := s.getOwned(itemID, userID)
	if err != nil {
		return nil, err
	}
	if err := applyScheduleInput(item, input); err != nil {
		return nil, err
	}
	if err := s.scheduleRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// SetStatus moves an item through its lifecycle. Completed and missed
// are terminal.
func (s *ScheduleService) SetStatus(itemID, userID uint, status models.ScheduleStatus) (*models.ScheduleItem, error) {
	switch status {
	case models.ScheduleScheduled, models.ScheduleInProgress, models.ScheduleCompleted, models.ScheduleMissed:
	default:
		return nil, validationError("unknown status %q", status)
	}
	item, err := s.getOwned(itemID, userID)
	if err != nil {
		return nil, err
	}
	if item.Status == models.ScheduleCompleted || item.Status == models.ScheduleMissed {
		return nil, validationError("item is already %s", item.Status)
	}
	item.Status = status
	if err := s.scheduleRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ScheduleService) DeleteItem(itemID, userID uint) error {
	if _, err := s.getOwned(itemID, userID); err != nil {
		return err
	}
	return s.scheduleRepo.Delete(itemID)
}

// RunReminders fires each item's reminder once, ReminderMinutes before
// it starts. The loop exits when ctx is cancelled.
func (s *ScheduleService) RunReminders(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fireDueReminders()
		}
	}
}

func (s *ScheduleService) fireDueReminders() {
	now := s.now()
	items, err := s.scheduleRepo.ListUpcoming(now, now.Add(24*time.Hour))
	if err != nil {
		log.Printf("schedule: list upcoming reminders: %v", err)
		return
	}

	for _, item := range items {
		remindAt := item.StartsAt.Add(-time.Duration(item.ReminderMinutes) * time.Minute)
		if now.Before(remindAt) || s.reminded[item.ID] {
			continue
		}
		s.reminded[item.ID] = true
		s.notifier.Notify(item.UserID, notify.Notification{
			Kind:  "schedule.reminder",
			Title: item.Title,
			Body:  fmt.Sprintf("Starts at %s", item.StartsAt.Format("15:04")),
			Ref:   item.ID,
		})
	}
}

func (s *ScheduleService) getOwned(itemID, userID uint) (*models.ScheduleItem, error) {
	item, err := s.scheduleRepo.FindByID(itemID)
	if err != nil {
		return nil, asNotFound(err, "schedule item")
	}
	if item.UserID != userID {
		return nil, fmt.Errorf("%w: schedule item belongs to another user", ErrPermission)
	}
	return item, nil
}

func applyScheduleInput(item *models.ScheduleItem, input ScheduleItemInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return validationError("title is required")
	}
	if !input.EndsAt.After(input.StartsAt) {
		return validationError("end time must be after start time")
	}
	if input.ReminderMinutes < 0 {
		return validationError("reminder minutes must be non-negative")
	}

	item.Title = title
	item.Subject = strings.TrimSpace(input.Subject)
	item.Description = strings.TrimSpace(input.Description)
	item.Location = strings.TrimSpace(input.Location)
	item.Type = input.Type
	item.StartsAt = input.StartsAt
	item.EndsAt = input.EndsAt
	item.Priority = input.Priority
	item.Recurring = input.Recurring
	item.ReminderMinutes = input.ReminderMinutes
	if item.Type == "" {
		item.Type = models.ScheduleStudy
	}
	if item.Priority == "" {
		item.Priority = models.PriorityMedium
	}
	if item.Recurring == "" {
		item.Recurring = models.RecurNone
	}
	return nil
}
