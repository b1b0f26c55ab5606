package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/Symmetry7/KIITstudy/internal/cache"
	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/repository"
	"github.com/Symmetry7/KIITstudy/internal/validation"
)

// MessageService implements the group chat feed and direct messages.
// Group messages append in insertion order; system notices share the
// feed so session and membership events show up inline.
type MessageService struct {
	messageRepo     repository.MessageRepositoryInterface
	participantRepo repository.ParticipantRepositoryInterface
	groupRepo       repository.GroupRepositoryInterface
	friendRepo      repository.FriendRequestRepositoryInterface
	readStateRepo   repository.GroupReadStateRepositoryInterface
	messageCache    *cache.MessageCache
	publisher       EventPublisher
}

func NewMessageService(
	messageRepo repository.MessageRepositoryInterface,
	participantRepo repository.ParticipantRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
	friendRepo repository.FriendRequestRepositoryInterface,
	readStateRepo repository.GroupReadStateRepositoryInterface,
) *MessageService {
	return &MessageService{
		messageRepo:     messageRepo,
		participantRepo: participantRepo,
		groupRepo:       groupRepo,
		friendRepo:      friendRepo,
		readStateRepo:   readStateRepo,
	}
}

func (s *MessageService) SetCache(c *cache.MessageCache) { s.messageCache = c }
func (s *MessageService) SetPublisher(p EventPublisher) { s.publisher = p }

// PostGroupMessage appends a text message to a group feed. ClientID
// deduplicates retried sends: re-posting the same clientID returns the
// original message instead of a duplicate.
func (s *MessageService) PostGroupMessage(groupID, senderID uint, clientID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if !validation.ValidateMessageContent(content) {
		return nil, validationError("message must be 1 to %d characters", validation.MaxMessageLength())
	}

	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return nil, asNotFound(err, "study group")
	}
	if !group.AllowChat {
		return nil, fmt.Errorf("%w: chat is disabled for this group", ErrPermission)
	}
	if ok, err := s.participantRepo.IsMember(groupID, senderID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: not a participant of this group", ErrNotMember)
	}

	if clientID != "" {
		if existing, err := s.messageRepo.FindByClientID(clientID, senderID); err == nil {
			return existing, nil
		}
	}

	message := &models.Message{
		ClientID:    clientID,
		SenderID:    &senderID,
		GroupID:     &groupID,
		Content:     content,
		MessageType: models.TextMessage,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}
	s.invalidateFeed(groupID)
	s.fanOut(groupID, EventChatMessage, message, PriorityChat)
	return message, nil
}

// PostSystemMessage appends a system notice to a group feed. System
// messages have no sender and are never deduplicated.
func (s *MessageService) PostSystemMessage(groupID uint, content string) (*models.Message, error) {
	message := &models.Message{
		GroupID:     &groupID,
		Content:     content,
		MessageType: models.SystemMessage,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}
	s.invalidateFeed(groupID)
	s.fanOut(groupID, EventSystemMessage, message, PrioritySystem)
	return message, nil
}

// GetGroupMessages returns a page of the feed in chronological order.
// cursor 0 means the newest page; older pages are fetched by passing
// the lowest message ID of the previous page.
func (s *MessageService) GetGroupMessages(groupID, userID uint, cursor uint, limit int) ([]models.Message, error) {
	if ok, err := s.participantRepo.IsMember(groupID, userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: not a participant of this group", ErrNotMember)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	// Only the tier sizes are cached; Invalidate deletes exactly those
	// keys, so caching other limits would serve stale head pages.
	cacheable := cursor == 0 && cachedPageSize(limit)

	if cacheable && s.messageCache != nil {
		var cached []models.Message
		if ok, err := s.messageCache.Get(groupID, limit, &cached); err == nil && ok {
			return cached, nil
		}
	}

	messages, err := s.messageRepo.FindGroupMessages(groupID, cursor, limit)
	if err != nil {
		return nil, err
	}
	// stored newest-first for keyset paging, served oldest-first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	if cacheable && s.messageCache != nil {
		if err := s.messageCache.Set(groupID, limit, messages); err != nil {
			log.Printf("chat: cache page for group %d: %v", groupID, err)
		}
	}
	return messages, nil
}

func cachedPageSize(limit int) bool {
	return limit == 20 || limit == 50 || limit == 100
}

// GetGroupMessagesSince returns everything after sinceID in ascending
// order. Used by reconnecting clients to catch up without re-paging.
func (s *MessageService) GetGroupMessagesSince(groupID, userID uint, sinceID uint, limit int) ([]models.Message, error) {
	if ok, err := s.participantRepo.IsMember(groupID, userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: not a participant of this group", ErrNotMember)
	}
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	return s.messageRepo.FindGroupMessagesSince(groupID, sinceID, limit)
}

// SendDirectMessage delivers a private message between friends.
func (s *MessageService) SendDirectMessage(senderID, recipientID uint, clientID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if !validation.ValidateMessageContent(content) {
		return nil, validationError("message must be 1 to %d characters", validation.MaxMessageLength())
	}
	if senderID == recipientID {
		return nil, validationError("cannot message yourself")
	}

	friends, err := s.friendRepo.AreFriends(senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, fmt.Errorf("%w: you can only message friends", ErrPermission)
	}

	if clientID != "" {
		if existing, err := s.messageRepo.FindByClientID(clientID, senderID); err == nil {
			return existing, nil
		}
	}

	message := &models.Message{
		ClientID:    clientID,
		SenderID:    &senderID,
		RecipientID: &recipientID,
		Content:     content,
		MessageType: models.TextMessage,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}
	if s.publisher != nil {
		s.publisher.PublishToUsers([]uint{recipientID}, EventChatMessage, message.ToResponse(), PriorityChat)
	}
	return message, nil
}

// GetConversation returns the direct-message history between two users.
func (s *MessageService) GetConversation(userID, otherID uint, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.messageRepo.FindConversation(userID, otherID, limit)
}

// MarkGroupRead advances the reader's high-water mark. The stored value
// only moves forward, so a stale client cannot roll read progress back.
func (s *MessageService) MarkGroupRead(groupID, userID uint, lastReadMessageID uint) error {
	if ok, err := s.participantRepo.IsMember(groupID, userID); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: not a participant of this group", ErrNotMember)
	}
	return s.readStateRepo.UpsertMonotonic(groupID, userID, lastReadMessageID)
}

// UnreadCount reports how far behind the feed the reader is.
func (s *MessageService) UnreadCount(groupID, userID uint) (uint, error) {
	latest, err := s.messageRepo.LatestGroupMessageID(groupID)
	if err != nil {
		return 0, err
	}
	state, err := s.readStateRepo.Get(groupID, userID)
	if err != nil {
		return 0, asNotMember(err)
	}
	if latest <= state.LastReadMessageID {
		return 0, nil
	}
	return latest - state.LastReadMessageID, nil
}

func (s *MessageService) invalidateFeed(groupID uint) {
	if s.messageCache != nil {
		if err := s.messageCache.Invalidate(groupID); err != nil {
			log.Printf("chat: invalidate cache for group %d: %v", groupID, err)
		}
	}
}

func (s *MessageService) fanOut(groupID uint, eventType string, message *models.Message, priority int) {
	if s.publisher == nil {
		return
	}
	ids, err := s.participantRepo.UserIDs(groupID)
	if err != nil {
		return
	}
	s.publisher.PublishToUsers(ids, eventType, message.ToResponse(), priority)
}
