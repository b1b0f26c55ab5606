package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/repository"
	"github.com/Symmetry7/KIITstudy/internal/validation"
)

type GroupService struct {
	groupRepo       repository.GroupRepositoryInterface
	participantRepo repository.ParticipantRepositoryInterface
	joinRequestRepo repository.JoinRequestRepositoryInterface
	readStateRepo   repository.GroupReadStateRepositoryInterface
	userRepo        repository.UserRepositoryInterface
	messages        *MessageService
	publisher       EventPublisher
	now             func() time.Time
}

func NewGroupService(
	groupRepo repository.GroupRepositoryInterface,
	participantRepo repository.ParticipantRepositoryInterface,
	joinRequestRepo repository.JoinRequestRepositoryInterface,
	readStateRepo repository.GroupReadStateRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
) *GroupService {
	return &GroupService{
		groupRepo:       groupRepo,
		participantRepo: participantRepo,
		joinRequestRepo: joinRequestRepo,
		readStateRepo:   readStateRepo,
		userRepo:        userRepo,
		now:             time.Now,
	}
}

// SetMessages wires the chat service used for lifecycle narration.
// Optional; without it membership changes are silent.
func (s *GroupService) SetMessages(messages *MessageService) {
	s.messages = messages
}

func (s *GroupService) SetPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

type CreateGroupInput struct {
	Name            string `json:"name" validate:"required,min=3,max=100"`
	Subject         string `json:"subject" validate:"required,max=100"`
	Description     string `json:"description" validate:"required,max=255"`
	IsPrivate       bool   `json:"is_private"`
	RequireApproval bool   `json:"require_approval"`
	MaxParticipants int    `json:"max_participants"`
	AllowChat       *bool  `json:"allow_chat"`
}

func (s *GroupService) CreateGroup(creatorID uint, input CreateGroupInput) (*models.Group, error) {
	name := strings.TrimSpace(input.Name)
	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	if name == "" || subject == "" || description == "" {
		return nil, validationError("name, subject and description are required")
	}

	maxParticipants := input.MaxParticipants
	if maxParticipants == 0 {
		maxParticipants = 10
	}
	if maxParticipants < 2 || maxParticipants > validation.MaxGroupParticipants() {
		return nil, validationError("max_participants must be between 2 and %d", validation.MaxGroupParticipants())
	}

	allowChat := true
	if input.AllowChat != nil {
		allowChat = *input.AllowChat
	}

	group := &models.Group{
		Name:            name,
		Subject:         subject,
		Description:     description,
		AdminID:         creatorID,
		IsPrivate:       input.IsPrivate,
		RequireApproval: input.RequireApproval,
		MaxParticipants: maxParticipants,
		AllowChat:       allowChat,
		LastActive:      s.now(),
	}

	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}

	if err := s.participantRepo.Add(group.ID, creatorID, models.RoleAdmin); err != nil {
		return nil, err
	}

	if s.readStateRepo != nil {
		_ = s.readStateRepo.EnsureForMember(group.ID, creatorID)
	}

	return s.groupRepo.FindByID(group.ID)
}

func (s *GroupService) GetGroup(groupID uint) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		return nil, asNotFound(err, "study group")
	}
	return group, nil
}

func (s *GroupService) ListActiveGroups(limit int) ([]models.Group, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.groupRepo.ListActive(limit)
}

func (s *GroupService) SearchGroups(query string, limit int) ([]models.Group, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.groupRepo.SearchGroups(query, limit)
}

func (s *GroupService) GetUserGroups(userID uint) ([]models.Group, error) {
	return s.groupRepo.GetUserGroups(userID)
}

func (s *GroupService) GetGroupMembers(groupID uint) ([]models.GroupMember, error) {
	if _, err := s.GetGroup(groupID); err != nil {
		return nil, err
	}
	return s.participantRepo.List(groupID)
}

// JoinGroup adds the user as a member, or files a join request when the
// group requires approval. Returns true when the join is pending.
func (s *GroupService) JoinGroup(groupID, userID uint) (bool, error) {
	group, err := s.GetGroup(groupID)
	if err != nil {
		return false, err
	}

	isMember, err := s.participantRepo.IsMember(groupID, userID)
	if err != nil {
		return false, err
	}
	if isMember {
		return false, ErrAlreadyMember
	}

	count, err := s.participantRepo.Count(groupID)
	if err != nil {
		return false, err
	}
	if count >= int64(group.MaxParticipants) {
		return false, ErrGroupFull
	}

	if group.RequireApproval {
		if _, err := s.joinRequestRepo.FindByGroupAndUser(groupID, userID); err == nil {
			return false, fmt.Errorf("join request already pending: %w", ErrAlreadyMember)
		}
		req := &models.JoinRequest{GroupID: groupID, UserID: userID}
		if err := s.joinRequestRepo.Create(req); err != nil {
			return false, err
		}
		s.publishToAdmin(group, EventJoinRequested, req)
		s.touch(groupID)
		return true, nil
	}

	if err := s.addMember(group, userID); err != nil {
		return false, err
	}
	s.touch(groupID)
	return false, nil
}

func (s *GroupService) ApproveJoinRequest(groupID, requestID, actingUserID uint) error {
	group, err := s.GetGroup(groupID)
	if err != nil {
		return err
	}
	if group.AdminID != actingUserID {
		return fmt.Errorf("only the group admin can approve join requests: %w", ErrPermission)
	}

	req, err := s.joinRequestRepo.FindByID(requestID)
	if err != nil {
		return asNotFound(err, "join request")
	}
	if req.GroupID != groupID {
		return notFoundError("join request")
	}

	// Capacity may have filled while the request sat in the queue.
	count, err := s.participantRepo.Count(groupID)
	if err != nil {
		return err
	}
	if count >= int64(group.MaxParticipants) {
		return ErrGroupFull
	}

	if err := s.addMember(group, req.UserID); err != nil {
		return err
	}
	if err := s.joinRequestRepo.Delete(requestID); err != nil {
		return err
	}
	s.publishToUser(req.UserID, EventRequestApproved, group.ToResponse())
	s.touch(groupID)
	return nil
}

func (s *GroupService) RejectJoinRequest(groupID, requestID, actingUserID uint) error {
	group, err := s.GetGroup(groupID)
	if err != nil {
		return err
	}
	if group.AdminID != actingUserID {
		return fmt.Errorf("only the group admin can reject join requests: %w", ErrPermission)
	}

	req, err := s.joinRequestRepo.FindByID(requestID)
	if err != nil {
		return asNotFound(err, "join request")
	}
	if req.GroupID != groupID {
		return notFoundError("join request")
	}

	if err := s.joinRequestRepo.Delete(requestID); err != nil {
		return err
	}
	s.publishToUser(req.UserID, EventRequestRejected, group.ToResponse())
	s.touch(groupID)
	return nil
}

func (s *GroupService) ListJoinRequests(groupID, actingUserID uint) ([]models.JoinRequest, error) {
	group, err := s.GetGroup(groupID)
	if err != nil {
		return nil, err
	}
	if group.AdminID != actingUserID {
		return nil, fmt.Errorf("only the group admin can view join requests: %w", ErrPermission)
	}
	return s.joinRequestRepo.ListByGroup(groupID)
}

// LeaveGroup removes the participant. When the admin leaves, the
// longest-tenured remaining member is promoted; when the last member
// leaves, the group is deleted.
func (s *GroupService) LeaveGroup(groupID, userID uint) error {
	group, err := s.GetGroup(groupID)
	if err != nil {
		return err
	}

	member, err := s.participantRepo.Get(groupID, userID)
	if err != nil {
		return asNotMember(err)
	}

	if err := s.participantRepo.Remove(groupID, userID); err != nil {
		return err
	}
	if s.readStateRepo != nil {
		_ = s.readStateRepo.DeleteForMember(groupID, userID)
	}

	count, err := s.participantRepo.Count(groupID)
	if err != nil {
		return err
	}
	if count == 0 {
		return s.groupRepo.Delete(groupID)
	}

	if group.AdminID == userID {
		if err := s.promoteSuccessor(groupID); err != nil {
			return err
		}
	}

	s.narrate(groupID, fmt.Sprintf("%s left the group", member.User.Name))
	s.publishToGroup(groupID, EventMemberLeft, member)
	s.touch(groupID)
	return nil
}

// RemoveParticipant is the admin-only forced removal. Admins leave via
// LeaveGroup so succession always runs.
func (s *GroupService) RemoveParticipant(groupID, targetUserID, actingUserID uint) error {
	group, err := s.GetGroup(groupID)
	if err != nil {
		return err
	}
	if group.AdminID != actingUserID {
		return fmt.Errorf("only the group admin can remove participants: %w", ErrPermission)
	}
	if targetUserID == actingUserID {
		return validationError("admin cannot remove themselves; leave the group instead")
	}

	member, err := s.participantRepo.Get(groupID, targetUserID)
	if err != nil {
		return asNotMember(err)
	}

	if err := s.participantRepo.Remove(groupID, targetUserID); err != nil {
		return err
	}
	if s.readStateRepo != nil {
		_ = s.readStateRepo.DeleteForMember(groupID, targetUserID)
	}

	s.narrate(groupID, fmt.Sprintf("%s was removed from the group", member.User.Name))
	s.publishToGroup(groupID, EventMemberRemoved, member)
	s.publishToUser(targetUserID, EventMemberRemoved, group.ToResponse())
	s.touch(groupID)
	return nil
}

func (s *GroupService) IsMember(groupID, userID uint) (bool, error) {
	return s.participantRepo.IsMember(groupID, userID)
}

func (s *GroupService) IsAdmin(groupID, userID uint) (bool, error) {
	role, err := s.participantRepo.Role(groupID, userID)
	if err != nil {
		return false, nil
	}
	return role == models.RoleAdmin, nil
}

func (s *GroupService) addMember(group *models.Group, userID uint) error {
	if err := s.participantRepo.Add(group.ID, userID, models.RoleMember); err != nil {
		return err
	}
	if s.readStateRepo != nil {
		_ = s.readStateRepo.EnsureForMember(group.ID, userID)
	}

	name := fmt.Sprintf("user %d", userID)
	if user, err := s.userRepo.FindByID(userID); err == nil {
		name = user.Name
	}
	s.narrate(group.ID, fmt.Sprintf("%s joined the group", name))
	s.publishToGroup(group.ID, EventMemberJoined, map[string]interface{}{
		"group_id": group.ID,
		"user_id":  userID,
		"name":     name,
	})
	return nil
}

// promoteSuccessor hands the admin role to the earliest-joined
// remaining member and keeps Group.AdminID and the member role in sync.
func (s *GroupService) promoteSuccessor(groupID uint) error {
	successor, err := s.participantRepo.LongestTenured(groupID)
	if err != nil {
		return err
	}
	if err := s.participantRepo.SetRole(groupID, successor.UserID, models.RoleAdmin); err != nil {
		return err
	}
	if err := s.groupRepo.UpdateAdmin(groupID, successor.UserID); err != nil {
		return err
	}

	name := fmt.Sprintf("user %d", successor.UserID)
	if user, err := s.userRepo.FindByID(successor.UserID); err == nil {
		name = user.Name
	}
	s.narrate(groupID, fmt.Sprintf("%s is now the group admin", name))
	s.publishToGroup(groupID, EventAdminChanged, map[string]interface{}{
		"group_id": groupID,
		"admin_id": successor.UserID,
	})
	return nil
}

func (s *GroupService) touch(groupID uint) {
	_ = s.groupRepo.UpdateLastActive(groupID, s.now())
}

func (s *GroupService) narrate(groupID uint, content string) {
	if s.messages == nil {
		return
	}
	// Best-effort: a failed system message never fails the mutation.
	_, _ = s.messages.PostSystemMessage(groupID, content)
}

func (s *GroupService) publishToGroup(groupID uint, eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	ids, err := s.participantRepo.UserIDs(groupID)
	if err != nil {
		return
	}
	s.publisher.PublishToUsers(ids, eventType, payload, PrioritySystem)
}

func (s *GroupService) publishToUser(userID uint, eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishToUsers([]uint{userID}, eventType, payload, PrioritySystem)
}

func (s *GroupService) publishToAdmin(group *models.Group, eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishToUsers([]uint{group.AdminID}, eventType, payload, PrioritySystem)
}
