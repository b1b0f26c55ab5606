package memory

import (
	"sort"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
)

// MessageStore implements repository.MessageRepositoryInterface.
type MessageStore struct {
	s *Store
}

func NewMessageStore(s *Store) *MessageStore {
	return &MessageStore{s: s}
}

func (r *MessageStore) Create(message *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if message.ID == 0 {
		message.ID = r.s.id()
	}
	message.CreatedAt = time.Now()
	clone := *message
	r.s.messages[message.ID] = &clone
	return nil
}

func (r *MessageStore) FindByID(id uint) (*models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.messages[id]
	if !ok {
		return nil, notFound()
	}
	clone := *m
	return &clone, nil
}

func (r *MessageStore) FindByClientID(clientID string, senderID uint) (*models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.messages {
		if m.ClientID == clientID && m.SenderID != nil && *m.SenderID == senderID {
			clone := *m
			return &clone, nil
		}
	}
	return nil, notFound()
}

func (r *MessageStore) FindGroupMessages(groupID uint, cursor uint, limit int) ([]models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.Message
	for _, m := range r.s.messages {
		if m.GroupID == nil || *m.GroupID != groupID {
			continue
		}
		if cursor != 0 && m.ID >= cursor {
			continue
		}
		out = append(out, *m)
	}
	// newest first, matching the keyset query
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MessageStore) FindGroupMessagesSince(groupID uint, sinceID uint, limit int) ([]models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.Message
	for _, m := range r.s.messages {
		if m.GroupID == nil || *m.GroupID != groupID || m.ID <= sinceID {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MessageStore) FindConversation(userID1, userID2 uint, limit int) ([]models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.Message
	for _, m := range r.s.messages {
		if m.SenderID == nil || m.RecipientID == nil {
			continue
		}
		if (*m.SenderID == userID1 && *m.RecipientID == userID2) ||
			(*m.SenderID == userID2 && *m.RecipientID == userID1) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *MessageStore) LatestGroupMessageID(groupID uint) (uint, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var latest uint
	for _, m := range r.s.messages {
		if m.GroupID != nil && *m.GroupID == groupID && m.ID > latest {
			latest = m.ID
		}
	}
	return latest, nil
}
