package memory

import (
	"sort"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
)

// ParticipantStore implements repository.ParticipantRepositoryInterface.
type ParticipantStore struct {
	s *Store
}

func NewParticipantStore(s *Store) *ParticipantStore {
	return &ParticipantStore{s: s}
}

func (r *ParticipantStore) Add(groupID, userID uint, role models.GroupRole) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.members[memberKey{groupID, userID}] = &models.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	return nil
}

func (r *ParticipantStore) Remove(groupID, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := memberKey{groupID, userID}
	if _, ok := r.s.members[key]; !ok {
		return notFound()
	}
	delete(r.s.members, key)
	return nil
}

func (r *ParticipantStore) Get(groupID, userID uint) (*models.GroupMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.members[memberKey{groupID, userID}]
	if !ok {
		return nil, notFound()
	}
	clone := *m
	if u, ok := r.s.users[userID]; ok {
		clone.User = *u
	}
	return &clone, nil
}

func (r *ParticipantStore) List(groupID uint) ([]models.GroupMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.GroupMember
	for key, m := range r.s.members {
		if key.GroupID != groupID {
			continue
		}
		clone := *m
		if u, ok := r.s.users[key.UserID]; ok {
			clone.User = *u
		}
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (r *ParticipantStore) Count(groupID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for key := range r.s.members {
		if key.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

func (r *ParticipantStore) IsMember(groupID, userID uint) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.members[memberKey{groupID, userID}]
	return ok, nil
}

func (r *ParticipantStore) Role(groupID, userID uint) (models.GroupRole, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.members[memberKey{groupID, userID}]
	if !ok {
		return "", notFound()
	}
	return m.Role, nil
}

func (r *ParticipantStore) SetRole(groupID, userID uint, role models.GroupRole) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[memberKey{groupID, userID}]
	if !ok {
		return notFound()
	}
	m.Role = role
	return nil
}

func (r *ParticipantStore) AddStudyMinutes(groupID, userID uint, minutes int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[memberKey{groupID, userID}]
	if !ok {
		return notFound()
	}
	m.StudyTime += minutes
	m.IsStudying = false
	return nil
}

func (r *ParticipantStore) SetStudying(groupID, userID uint, studying bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[memberKey{groupID, userID}]
	if !ok {
		return notFound()
	}
	m.IsStudying = studying
	return nil
}

func (r *ParticipantStore) LongestTenured(groupID uint) (*models.GroupMember, error) {
	members, err := r.List(groupID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, notFound()
	}
	// List is already ordered by tenure then user ID
	return &members[0], nil
}

func (r *ParticipantStore) UserIDs(groupID uint) ([]uint, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []uint
	for key := range r.s.members {
		if key.GroupID == groupID {
			out = append(out, key.UserID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
