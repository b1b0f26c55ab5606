package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
)

// UserStore implements repository.UserRepositoryInterface.
type UserStore struct {
	s *Store
}

func NewUserStore(s *Store) *UserStore {
	return &UserStore{s: s}
}

func (r *UserStore) Create(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user.ID == 0 {
		user.ID = r.s.id()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.s.users[user.ID] = &clone
	return nil
}

func (r *UserStore) FindByEmail(email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, notFound()
}

func (r *UserStore) FindByRollNumber(roll string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.RollNumber == roll {
			clone := *u
			return &clone, nil
		}
	}
	return nil, notFound()
}

func (r *UserStore) FindByID(id uint) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, notFound()
	}
	clone := *u
	return &clone, nil
}

func (r *UserStore) Update(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return notFound()
	}
	user.UpdatedAt = time.Now()
	clone := *user
	r.s.users[user.ID] = &clone
	return nil
}

func (r *UserStore) UpdateOnlineStatus(userID uint, isOnline bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return notFound()
	}
	u.IsOnline = isOnline
	now := time.Now()
	u.LastSeen = &now
	return nil
}

func (r *UserStore) SearchUsers(query string, limit int) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q := strings.ToLower(query)
	var out []models.User
	for _, u := range r.s.users {
		if strings.Contains(strings.ToLower(u.Name), q) ||
			strings.Contains(strings.ToLower(u.Email), q) ||
			strings.Contains(u.RollNumber, query) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *UserStore) AddStudyCredit(userID uint, minutes int, streak int, studyDay time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return notFound()
	}
	u.TotalStudyMinutes += minutes
	u.Streak = streak
	day := studyDay
	u.LastStudyDay = &day
	return nil
}
