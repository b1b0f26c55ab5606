package service

import (
	"fmt"

	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/repository"
)

// FriendService handles friend requests and the friendship graph.
type FriendService struct {
	friendRepo repository.FriendRequestRepositoryInterface
	userRepo   repository.UserRepositoryInterface
	publisher  EventPublisher
}

func NewFriendService(friendRepo repository.FriendRequestRepositoryInterface, userRepo repository.UserRepositoryInterface) *FriendService {
	return &FriendService{friendRepo: friendRepo, userRepo: userRepo}
}

func (s *FriendService) SetPublisher(p EventPublisher) { s.publisher = p }

// SendRequest creates a pending friend request. Duplicate requests in
// either direction and requests between existing friends are rejected.
func (s *FriendService) SendRequest(fromUserID, toUserID uint) (*models.FriendRequest, error) {
	if fromUserID == toUserID {
		return nil, validationError("cannot befriend yourself")
	}
	if _, err := s.userRepo.FindByID(toUserID); err != nil {
		return nil, asNotFound(err, "user")
	}

	friends, err := s.friendRepo.AreFriends(fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, validationError("already friends")
	}
	if existing, err := s.friendRepo.FindBetween(fromUserID, toUserID); err == nil && existing.Status == models.FriendPending {
		return nil, validationError("request already pending")
	}
	if existing, err := s.friendRepo.FindBetween(toUserID, fromUserID); err == nil && existing.Status == models.FriendPending {
		return nil, validationError("this user has already sent you a request")
	}

	req := &models.FriendRequest{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     models.FriendPending,
	}
	if err := s.friendRepo.Create(req); err != nil {
		return nil, err
	}
	if s.publisher != nil {
		s.publisher.PublishToUsers([]uint{toUserID}, EventFriendRequested, map[string]interface{}{
			"request_id":   req.ID,
			"from_user_id": fromUserID,
		}, PrioritySystem)
	}
	return req, nil
}

// AcceptRequest turns a pending request into a friendship. Only the
// recipient may accept.
func (s *FriendService) AcceptRequest(requestID, userID uint) error {
	req, err := s.pendingFor(requestID, userID)
	if err != nil {
		return err
	}
	if err := s.friendRepo.UpdateStatus(req.ID, models.FriendAccepted); err != nil {
		return err
	}
	if err := s.friendRepo.CreateFriendship(req.FromUserID, req.ToUserID); err != nil {
		return err
	}
	if s.publisher != nil {
		s.publisher.PublishToUsers([]uint{req.FromUserID}, EventFriendAccepted, map[string]interface{}{
			"user_id": req.ToUserID,
		}, PrioritySystem)
	}
	return nil
}

// RejectRequest declines a pending request. Only the recipient may
// reject.
func (s *FriendService) RejectRequest(requestID, userID uint) error {
	req, err := s.pendingFor(requestID, userID)
	if err != nil {
		return err
	}
	return s.friendRepo.UpdateStatus(req.ID, models.FriendRejected)
}

func (s *FriendService) ListPending(userID uint) ([]models.FriendRequest, error) {
	return s.friendRepo.ListPendingFor(userID)
}

func (s *FriendService) AreFriends(userID, otherID uint) (bool, error) {
	return s.friendRepo.AreFriends(userID, otherID)
}

func (s *FriendService) pendingFor(requestID, userID uint) (*models.FriendRequest, error) {
	req, err := s.friendRepo.FindByID(requestID)
	if err != nil {
		return nil, asNotFound(err, "friend request")
	}
	if req.ToUserID != userID {
		return nil, fmt.Errorf("%w: request is addressed to another user", ErrPermission)
	}
	if req.Status != models.FriendPending {
		return nil, validationError("request is already %s", req.Status)
	}
	return req, nil
}
