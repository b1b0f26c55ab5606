package memory

import (
	"sort"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
)

// SessionStore implements repository.SessionRepositoryInterface.
type SessionStore struct {
	s *Store
}

func NewSessionStore(s *Store) *SessionStore {
	return &SessionStore{s: s}
}

func (r *SessionStore) Create(session *models.StudySession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if session.ID == 0 {
		session.ID = r.s.id()
	}
	session.CreatedAt = time.Now()
	clone := *session
	r.s.sessions = append(r.s.sessions, &clone)
	return nil
}

func (r *SessionStore) ListByGroup(groupID uint, limit int) ([]models.StudySession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.StudySession
	for _, sess := range r.s.sessions {
		if sess.GroupID == groupID {
			out = append(out, *sess)
		}
	}
	sortSessionsDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *SessionStore) ListByUser(userID uint, limit int) ([]models.StudySession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.StudySession
	for _, sess := range r.s.sessions {
		if sess.UserID == userID {
			out = append(out, *sess)
		}
	}
	sortSessionsDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortSessionsDesc(sessions []models.StudySession) {
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID > sessions[j].ID })
}

// JoinRequestStore implements repository.JoinRequestRepositoryInterface.
type JoinRequestStore struct {
	s *Store
}

func NewJoinRequestStore(s *Store) *JoinRequestStore {
	return &JoinRequestStore{s: s}
}

func (r *JoinRequestStore) Create(req *models.JoinRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if req.ID == 0 {
		req.ID = r.s.id()
	}
	req.RequestedAt = time.Now()
	clone := *req
	r.s.joinRequests[req.ID] = &clone
	return nil
}

func (r *JoinRequestStore) FindByID(id uint) (*models.JoinRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	req, ok := r.s.joinRequests[id]
	if !ok {
		return nil, notFound()
	}
	clone := *req
	return &clone, nil
}

func (r *JoinRequestStore) FindByGroupAndUser(groupID, userID uint) (*models.JoinRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, req := range r.s.joinRequests {
		if req.GroupID == groupID && req.UserID == userID {
			clone := *req
			return &clone, nil
		}
	}
	return nil, notFound()
}

func (r *JoinRequestStore) ListByGroup(groupID uint) ([]models.JoinRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.JoinRequest
	for _, req := range r.s.joinRequests {
		if req.GroupID != groupID {
			continue
		}
		clone := *req
		if u, ok := r.s.users[req.UserID]; ok {
			clone.User = *u
		}
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *JoinRequestStore) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.joinRequests[id]; !ok {
		return notFound()
	}
	delete(r.s.joinRequests, id)
	return nil
}

// ReadStateStore implements repository.GroupReadStateRepositoryInterface.
type ReadStateStore struct {
	s *Store
}

func NewReadStateStore(s *Store) *ReadStateStore {
	return &ReadStateStore{s: s}
}

func (r *ReadStateStore) EnsureForMember(groupID, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := memberKey{groupID, userID}
	if _, ok := r.s.readStates[key]; !ok {
		r.s.readStates[key] = &models.GroupReadState{GroupID: groupID, UserID: userID}
	}
	return nil
}

func (r *ReadStateStore) DeleteForMember(groupID, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.readStates, memberKey{groupID, userID})
	return nil
}

func (r *ReadStateStore) UpsertMonotonic(groupID, userID uint, lastReadMessageID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := memberKey{groupID, userID}
	state, ok := r.s.readStates[key]
	if !ok {
		state = &models.GroupReadState{GroupID: groupID, UserID: userID}
		r.s.readStates[key] = state
	}
	// only ever moves forward
	if lastReadMessageID > state.LastReadMessageID {
		state.LastReadMessageID = lastReadMessageID
	}
	return nil
}

func (r *ReadStateStore) Get(groupID, userID uint) (*models.GroupReadState, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	state, ok := r.s.readStates[memberKey{groupID, userID}]
	if !ok {
		return nil, notFound()
	}
	clone := *state
	return &clone, nil
}

func (r *ReadStateStore) ListByGroup(groupID uint) ([]models.GroupReadState, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.GroupReadState
	for key, state := range r.s.readStates {
		if key.GroupID == groupID {
			out = append(out, *state)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
