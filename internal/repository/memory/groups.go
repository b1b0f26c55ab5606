package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
)

// GroupStore implements repository.GroupRepositoryInterface.
type GroupStore struct {
	s *Store
}

func NewGroupStore(s *Store) *GroupStore {
	return &GroupStore{s: s}
}

func (r *GroupStore) Create(group *models.Group) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if group.ID == 0 {
		group.ID = r.s.id()
	}
	group.CreatedAt = time.Now()
	group.UpdatedAt = group.CreatedAt
	clone := *group
	clone.Participants = nil
	clone.JoinRequests = nil
	r.s.groups[group.ID] = &clone
	return nil
}

func (r *GroupStore) FindByID(id uint) (*models.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.groups[id]
	if !ok {
		return nil, notFound()
	}
	return r.hydrate(g), nil
}

// hydrate fills the joined fields a preload would. Callers hold mu.
func (r *GroupStore) hydrate(g *models.Group) *models.Group {
	clone := *g
	if admin, ok := r.s.users[g.AdminID]; ok {
		clone.Admin = *admin
	}
	clone.Participants = r.membersOf(g.ID)
	return &clone
}

func (r *GroupStore) membersOf(groupID uint) []models.GroupMember {
	var members []models.GroupMember
	for key, m := range r.s.members {
		if key.GroupID != groupID {
			continue
		}
		clone := *m
		if u, ok := r.s.users[key.UserID]; ok {
			clone.User = *u
		}
		members = append(members, clone)
	}
	sort.Slice(members, func(i, j int) bool {
		if !members[i].JoinedAt.Equal(members[j].JoinedAt) {
			return members[i].JoinedAt.Before(members[j].JoinedAt)
		}
		return members[i].UserID < members[j].UserID
	})
	return members
}

func (r *GroupStore) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.groups[id]; !ok {
		return notFound()
	}
	delete(r.s.groups, id)
	for key := range r.s.members {
		if key.GroupID == id {
			delete(r.s.members, key)
		}
	}
	for reqID, req := range r.s.joinRequests {
		if req.GroupID == id {
			delete(r.s.joinRequests, reqID)
		}
	}
	for key := range r.s.readStates {
		if key.GroupID == id {
			delete(r.s.readStates, key)
		}
	}
	return nil
}

func (r *GroupStore) ListActive(limit int) ([]models.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	studying := make(map[uint]bool)
	for key, m := range r.s.members {
		if m.IsStudying {
			studying[key.GroupID] = true
		}
	}

	var out []models.Group
	for id, g := range r.s.groups {
		if studying[id] {
			out = append(out, *r.hydrate(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastActive.After(out[j].LastActive) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *GroupStore) SearchGroups(query string, limit int) ([]models.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q := strings.ToLower(query)
	var out []models.Group
	for _, g := range r.s.groups {
		if g.IsPrivate {
			continue
		}
		if strings.Contains(strings.ToLower(g.Name), q) || strings.Contains(strings.ToLower(g.Subject), q) {
			out = append(out, *r.hydrate(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *GroupStore) GetUserGroups(userID uint) ([]models.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.Group
	for key := range r.s.members {
		if key.UserID != userID {
			continue
		}
		if g, ok := r.s.groups[key.GroupID]; ok {
			out = append(out, *r.hydrate(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *GroupStore) UpdateLastActive(groupID uint, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.groups[groupID]
	if !ok {
		return notFound()
	}
	g.LastActive = at
	return nil
}

func (r *GroupStore) UpdateAdmin(groupID, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.groups[groupID]
	if !ok {
		return notFound()
	}
	g.AdminID = userID
	return nil
}

func (r *GroupStore) AddSessionStats(groupID uint, minutes int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.groups[groupID]
	if !ok {
		return notFound()
	}
	g.TotalSessions++
	g.TotalStudyMinutes += minutes
	return nil
}
