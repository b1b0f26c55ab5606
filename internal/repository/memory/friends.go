package memory

import (
	"sort"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
)

// FriendStore implements repository.FriendRequestRepositoryInterface.
type FriendStore struct {
	s *Store
}

func NewFriendStore(s *Store) *FriendStore {
	return &FriendStore{s: s}
}

func (r *FriendStore) Create(req *models.FriendRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if req.ID == 0 {
		req.ID = r.s.id()
	}
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	clone := *req
	r.s.friendRequests[req.ID] = &clone
	return nil
}

func (r *FriendStore) FindByID(id uint) (*models.FriendRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	req, ok := r.s.friendRequests[id]
	if !ok {
		return nil, notFound()
	}
	clone := *req
	return &clone, nil
}

func (r *FriendStore) FindBetween(fromUserID, toUserID uint) (*models.FriendRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, req := range r.s.friendRequests {
		if req.FromUserID == fromUserID && req.ToUserID == toUserID {
			clone := *req
			return &clone, nil
		}
	}
	return nil, notFound()
}

func (r *FriendStore) ListPendingFor(userID uint) ([]models.FriendRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.FriendRequest
	for _, req := range r.s.friendRequests {
		if req.ToUserID != userID || req.Status != models.FriendPending {
			continue
		}
		clone := *req
		if u, ok := r.s.users[req.FromUserID]; ok {
			clone.FromUser = *u
		}
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FriendStore) UpdateStatus(id uint, status models.FriendRequestStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.friendRequests[id]
	if !ok {
		return notFound()
	}
	req.Status = status
	req.UpdatedAt = time.Now()
	return nil
}

func (r *FriendStore) CreateFriendship(userID, friendID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// both directions, matching the database layout
	r.s.friendships[memberKey{userID, friendID}] = true
	r.s.friendships[memberKey{friendID, userID}] = true
	return nil
}

func (r *FriendStore) AreFriends(userID, friendID uint) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.friendships[memberKey{userID, friendID}], nil
}

// RefreshTokenStore implements repository.RefreshTokenRepositoryInterface.
type RefreshTokenStore struct {
	s *Store
}

func NewRefreshTokenStore(s *Store) *RefreshTokenStore {
	return &RefreshTokenStore{s: s}
}

func (r *RefreshTokenStore) Create(token *models.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if token.ID == 0 {
		token.ID = r.s.id()
	}
	token.CreatedAt = time.Now()
	clone := *token
	r.s.refreshTokens[token.TokenHash] = &clone
	return nil
}

func (r *RefreshTokenStore) FindValidByHash(tokenHash string) (*models.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	token, ok := r.s.refreshTokens[tokenHash]
	if !ok || token.IsRevoked() {
		return nil, notFound()
	}
	clone := *token
	return &clone, nil
}

func (r *RefreshTokenStore) RevokeByHash(tokenHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token, ok := r.s.refreshTokens[tokenHash]
	if !ok {
		return nil // revoking an unknown token is a no-op
	}
	now := time.Now()
	token.RevokedAt = &now
	return nil
}

// PendingEventStore implements repository.PendingEventRepositoryInterface.
type PendingEventStore struct {
	s *Store
}

func NewPendingEventStore(s *Store) *PendingEventStore {
	return &PendingEventStore{s: s}
}

func (r *PendingEventStore) Enqueue(userID uint, eventID string, payload string, priority int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id := r.s.id()
	r.s.pendingEvents[id] = &models.PendingEvent{
		ID:        id,
		UserID:    userID,
		EventID:   eventID,
		Payload:   payload,
		Priority:  priority,
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *PendingEventStore) GetPendingForUser(userID uint, limit int) ([]models.PendingEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.PendingEvent
	for _, pe := range r.s.pendingEvents {
		if pe.UserID == userID {
			out = append(out, *pe)
		}
	}
	sortPending(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *PendingEventStore) GetRetryable(limit int) ([]models.PendingEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	now := time.Now()
	var out []models.PendingEvent
	for _, pe := range r.s.pendingEvents {
		if pe.NextRetry == nil || pe.NextRetry.Before(now) {
			out = append(out, *pe)
		}
	}
	sortPending(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *PendingEventStore) MarkAttempted(id uint, attempts int, nextRetry *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pe, ok := r.s.pendingEvents[id]
	if !ok {
		return notFound()
	}
	pe.Attempts = attempts
	now := time.Now()
	pe.LastAttempt = &now
	pe.NextRetry = nextRetry
	return nil
}

func (r *PendingEventStore) Delete(id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.pendingEvents, id)
	return nil
}

func (r *PendingEventStore) DeleteBatch(ids []uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		delete(r.s.pendingEvents, id)
	}
	return nil
}

func (r *PendingEventStore) CountPendingForUser(userID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, pe := range r.s.pendingEvents {
		if pe.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *PendingEventStore) CleanupOld(olderThan time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	for id, pe := range r.s.pendingEvents {
		if pe.CreatedAt.Before(cutoff) {
			delete(r.s.pendingEvents, id)
		}
	}
	return nil
}

func sortPending(events []models.PendingEvent) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Priority != events[j].Priority {
			return events[i].Priority > events[j].Priority
		}
		return events[i].ID < events[j].ID
	})
}
