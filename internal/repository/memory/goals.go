package memory

import (
	"sort"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
)

// GoalStore implements repository.GoalRepositoryInterface.
type GoalStore struct {
	s *Store
}

func NewGoalStore(s *Store) *GoalStore {
	return &GoalStore{s: s}
}

func (r *GoalStore) Create(goal *models.Goal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if goal.ID == 0 {
		goal.ID = r.s.id()
	}
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = goal.CreatedAt
	clone := *goal
	clone.Milestones = nil
	r.s.goals[goal.ID] = &clone
	return nil
}

func (r *GoalStore) FindByID(id uint) (*models.Goal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.goals[id]
	if !ok {
		return nil, notFound()
	}
	clone := *g
	clone.Milestones = r.milestonesOf(id)
	return &clone, nil
}

func (r *GoalStore) milestonesOf(goalID uint) []models.Milestone {
	var out []models.Milestone
	for _, m := range r.s.milestones {
		if m.GoalID == goalID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetValue < out[j].TargetValue })
	return out
}

func (r *GoalStore) ListByUser(userID uint) ([]models.Goal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.Goal
	for _, g := range r.s.goals {
		if g.UserID != userID {
			continue
		}
		clone := *g
		clone.Milestones = r.milestonesOf(g.ID)
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *GoalStore) Update(goal *models.Goal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.goals[goal.ID]; !ok {
		return notFound()
	}
	goal.UpdatedAt = time.Now()
	clone := *goal
	clone.Milestones = nil
	r.s.goals[goal.ID] = &clone
	return nil
}

func (r *GoalStore) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.goals[id]; !ok {
		return notFound()
	}
	delete(r.s.goals, id)
	for mid, m := range r.s.milestones {
		if m.GoalID == id {
			delete(r.s.milestones, mid)
		}
	}
	return nil
}

func (r *GoalStore) CreateMilestone(m *models.Milestone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == 0 {
		m.ID = r.s.id()
	}
	m.CreatedAt = time.Now()
	clone := *m
	r.s.milestones[m.ID] = &clone
	return nil
}

func (r *GoalStore) UpdateMilestone(m *models.Milestone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.milestones[m.ID]; !ok {
		return notFound()
	}
	clone := *m
	r.s.milestones[m.ID] = &clone
	return nil
}

// ScheduleStore implements repository.ScheduleRepositoryInterface.
type ScheduleStore struct {
	s *Store
}

func NewScheduleStore(s *Store) *ScheduleStore {
	return &ScheduleStore{s: s}
}

func (r *ScheduleStore) Create(item *models.ScheduleItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item.ID == 0 {
		item.ID = r.s.id()
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	clone := *item
	r.s.schedule[item.ID] = &clone
	return nil
}

func (r *ScheduleStore) FindByID(id uint) (*models.ScheduleItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	item, ok := r.s.schedule[id]
	if !ok {
		return nil, notFound()
	}
	clone := *item
	return &clone, nil
}

func (r *ScheduleStore) ListByUser(userID uint) ([]models.ScheduleItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.ScheduleItem
	for _, item := range r.s.schedule {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	sortByStart(out)
	return out, nil
}

func (r *ScheduleStore) ListByUserRange(userID uint, from, to time.Time) ([]models.ScheduleItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.ScheduleItem
	for _, item := range r.s.schedule {
		if item.UserID == userID && !item.StartsAt.Before(from) && item.StartsAt.Before(to) {
			out = append(out, *item)
		}
	}
	sortByStart(out)
	return out, nil
}

func (r *ScheduleStore) ListUpcoming(from, to time.Time) ([]models.ScheduleItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.ScheduleItem
	for _, item := range r.s.schedule {
		if item.Status == models.ScheduleScheduled && item.ReminderMinutes > 0 &&
			item.StartsAt.After(from) && item.StartsAt.Before(to) {
			out = append(out, *item)
		}
	}
	sortByStart(out)
	return out, nil
}

func (r *ScheduleStore) Update(item *models.ScheduleItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.schedule[item.ID]; !ok {
		return notFound()
	}
	item.UpdatedAt = time.Now()
	clone := *item
	r.s.schedule[item.ID] = &clone
	return nil
}

func (r *ScheduleStore) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.schedule[id]; !ok {
		return notFound()
	}
	delete(r.s.schedule, id)
	return nil
}

func sortByStart(items []models.ScheduleItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].StartsAt.Before(items[j].StartsAt) })
}
