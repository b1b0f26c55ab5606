package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/repository"
)

// GoalService manages personal study goals and their milestones.
type GoalService struct {
	goalRepo repository.GoalRepositoryInterface
}

func NewGoalService(goalRepo repository.GoalRepositoryInterface) *GoalService {
	return &GoalService{goalRepo: goalRepo}
}

type CreateGoalInput struct {
	Title       string              `json:"title" validate:"required,min=2,max=100"`
	Description string              `json:"description" validate:"omitempty,max=255"`
	Category    models.GoalCategory `json:"category" validate:"omitempty,oneof=study exam skill project"`
	Priority    models.Priority     `json:"priority" validate:"omitempty,oneof=low medium high"`
	TargetValue int                 `json:"targetValue" validate:"required,min=1"`
	Unit        string              `json:"unit" validate:"omitempty,max=20"`
	Deadline    *time.Time          `json:"deadline"`
}

func (s *GoalService) CreateGoal(userID uint, input CreateGoalInput) (*models.Goal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	if input.TargetValue <= 0 {
		return nil, validationError("target value must be positive")
	}

	goal := &models.Goal{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      models.GoalActive,
		TargetValue: input.TargetValue,
		Unit:        input.Unit,
		Deadline:    input.Deadline,
	}
	if goal.Category == "" {
		goal.Category = models.GoalStudy
	}
	if goal.Priority == "" {
		goal.Priority = models.PriorityMedium
	}
	if err := s.goalRepo.Create(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) ListGoals(userID uint) ([]models.Goal, error) {
	return s.goalRepo.ListByUser(userID)
}

func (s *GoalService) GetGoal(goalID, userID uint) (*models.Goal, error) {
	goal, err := s.goalRepo.FindByID(goalID)
	if err != nil {
		return nil, asNotFound(err, "goal")
	}
	if goal.UserID != userID {
		return nil, fmt.Errorf("%w: goal belongs to another user", ErrPermission)
	}
	return goal, nil
}

// AddProgress advances a goal and completes it when the target is
// reached. Progress on a completed or paused goal is rejected.
// Milestones whose target falls within the new value are marked done.
func (s *GoalService) AddProgress(goalID, userID uint, amount int) (*models.Goal, error) {
	if amount <= 0 {
		return nil, validationError("progress must be positive")
	}
	goal, err := s.GetGoal(goalID, userID)
	if err != nil {
		return nil, err
	}
	if goal.Status != models.GoalActive {
		return nil, validationError("goal is %s", goal.Status)
	}

	goal.CurrentValue += amount
	if goal.CurrentValue >= goal.TargetValue {
		goal.CurrentValue = goal.TargetValue
		goal.Status = models.GoalCompleted
	}
	for i := range goal.Milestones {
		m := &goal.Milestones[i]
		if !m.Done && goal.CurrentValue >= m.TargetValue {
			m.Done = true
			if err := s.goalRepo.UpdateMilestone(m); err != nil {
				return nil, err
			}
		}
	}
	if err := s.goalRepo.Update(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// PauseGoal suspends an active goal; progress stays where it is.
func (s *GoalService) PauseGoal(goalID, userID uint) (*models.Goal, error) {
	return s.setStatus(goalID, userID, models.GoalActive, models.GoalPaused)
}

// ResumeGoal reactivates a paused goal.
func (s *GoalService) ResumeGoal(goalID, userID uint) (*models.Goal, error) {
	return s.setStatus(goalID, userID, models.GoalPaused, models.GoalActive)
}

func (s *GoalService) setStatus(goalID, userID uint, from, to models.GoalStatus) (*models.Goal, error) {
	goal, err := s.GetGoal(goalID, userID)
	if err != nil {
		return nil, err
	}
	if goal.Status != from {
		return nil, validationError("goal is %s", goal.Status)
	}
	goal.Status = to
	if err := s.goalRepo.Update(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) DeleteGoal(goalID, userID uint) error {
	if _, err := s.GetGoal(goalID, userID); err != nil {
		return err
	}
	return s.goalRepo.Delete(goalID)
}

// AddMilestone attaches a checkpoint to a goal. Milestones inside the
// already-reached range are created done.
func (s *GoalService) AddMilestone(goalID, userID uint, title string, targetValue int) (*models.Milestone, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validationError("milestone title is required")
	}
	goal, err := s.GetGoal(goalID, userID)
	if err != nil {
		return nil, err
	}
	if targetValue <= 0 || targetValue > goal.TargetValue {
		return nil, validationError("milestone target must be between 1 and %d", goal.TargetValue)
	}

	m := &models.Milestone{
		GoalID:      goalID,
		Title:       title,
		TargetValue: targetValue,
		Done:        goal.CurrentValue >= targetValue,
	}
	if err := s.goalRepo.CreateMilestone(m); err != nil {
		return nil, err
	}
	return m, nil
}
