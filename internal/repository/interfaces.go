package repository

import (
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByRollNumber(roll string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	Update(user *models.User) error
	UpdateOnlineStatus(userID uint, isOnline bool) error
	SearchUsers(query string, limit int) ([]models.User, error)
	// AddStudyCredit accumulates total study minutes and records the
	// streak state computed by the ledger service.
	AddStudyCredit(userID uint, minutes int, streak int, studyDay time.Time) error
}

// GroupRepositoryInterface defines the contract for group repository operations
type GroupRepositoryInterface interface {
	Create(group *models.Group) error
	FindByID(id uint) (*models.Group, error)
	Delete(id uint) error
	ListActive(limit int) ([]models.Group, error)
	SearchGroups(query string, limit int) ([]models.Group, error)
	GetUserGroups(userID uint) ([]models.Group, error)
	UpdateLastActive(groupID uint, at time.Time) error
	UpdateAdmin(groupID, userID uint) error
	// AddSessionStats bumps total_sessions and accumulates minutes.
	AddSessionStats(groupID uint, minutes int) error
}

// ParticipantRepositoryInterface is the storage behind group membership
// and the per-member study-time ledger.
type ParticipantRepositoryInterface interface {
	Add(groupID, userID uint, role models.GroupRole) error
	Remove(groupID, userID uint) error
	Get(groupID, userID uint) (*models.GroupMember, error)
	List(groupID uint) ([]models.GroupMember, error)
	Count(groupID uint) (int64, error)
	IsMember(groupID, userID uint) (bool, error)
	Role(groupID, userID uint) (models.GroupRole, error)
	SetRole(groupID, userID uint, role models.GroupRole) error
	// AddStudyMinutes atomically increments study_time and clears
	// is_studying; minutes must be non-negative.
	AddStudyMinutes(groupID, userID uint, minutes int) error
	SetStudying(groupID, userID uint, studying bool) error
	// LongestTenured returns the earliest-joined member, used for admin
	// succession when the admin leaves.
	LongestTenured(groupID uint) (*models.GroupMember, error)
	UserIDs(groupID uint) ([]uint, error)
}

// JoinRequestRepositoryInterface defines the contract for pending join requests
type JoinRequestRepositoryInterface interface {
	Create(req *models.JoinRequest) error
	FindByID(id uint) (*models.JoinRequest, error)
	FindByGroupAndUser(groupID, userID uint) (*models.JoinRequest, error)
	ListByGroup(groupID uint) ([]models.JoinRequest, error)
	Delete(id uint) error
}

// MessageRepositoryInterface defines the contract for chat storage
type MessageRepositoryInterface interface {
	Create(message *models.Message) error
	FindByID(id uint) (*models.Message, error)
	FindByClientID(clientID string, senderID uint) (*models.Message, error)
	// FindGroupMessages pages backwards: messages with ID below cursor
	// (0 = newest), newest first.
	FindGroupMessages(groupID uint, cursor uint, limit int) ([]models.Message, error)
	// FindGroupMessagesSince pages forwards in insertion order, for
	// reconnect catch-up.
	FindGroupMessagesSince(groupID uint, sinceID uint, limit int) ([]models.Message, error)
	FindConversation(userID1, userID2 uint, limit int) ([]models.Message, error)
	LatestGroupMessageID(groupID uint) (uint, error)
}

// SessionRepositoryInterface persists finished study sessions
type SessionRepositoryInterface interface {
	Create(session *models.StudySession) error
	ListByGroup(groupID uint, limit int) ([]models.StudySession, error)
	ListByUser(userID uint, limit int) ([]models.StudySession, error)
}

// GoalRepositoryInterface defines the contract for goals and milestones
type GoalRepositoryInterface interface {
	Create(goal *models.Goal) error
	FindByID(id uint) (*models.Goal, error)
	ListByUser(userID uint) ([]models.Goal, error)
	Update(goal *models.Goal) error
	Delete(id uint) error
	CreateMilestone(m *models.Milestone) error
	UpdateMilestone(m *models.Milestone) error
}

// ScheduleRepositoryInterface defines the contract for schedule items
type ScheduleRepositoryInterface interface {
	Create(item *models.ScheduleItem) error
	FindByID(id uint) (*models.ScheduleItem, error)
	ListByUser(userID uint) ([]models.ScheduleItem, error)
	ListByUserRange(userID uint, from, to time.Time) ([]models.ScheduleItem, error)
	// ListUpcoming returns scheduled items with a reminder set, across
	// all users, starting inside (from, to). Feeds the reminder loop.
	ListUpcoming(from, to time.Time) ([]models.ScheduleItem, error)
	Update(item *models.ScheduleItem) error
	Delete(id uint) error
}

// FriendRequestRepositoryInterface defines the contract for friend requests
type FriendRequestRepositoryInterface interface {
	Create(req *models.FriendRequest) error
	FindByID(id uint) (*models.FriendRequest, error)
	FindBetween(fromUserID, toUserID uint) (*models.FriendRequest, error)
	ListPendingFor(userID uint) ([]models.FriendRequest, error)
	UpdateStatus(id uint, status models.FriendRequestStatus) error
	CreateFriendship(userID, friendID uint) error
	AreFriends(userID, friendID uint) (bool, error)
}

// RefreshTokenRepositoryInterface defines the contract for refresh token operations
type RefreshTokenRepositoryInterface interface {
	Create(token *models.RefreshToken) error
	FindValidByHash(tokenHash string) (*models.RefreshToken, error)
	RevokeByHash(tokenHash string) error
}

// GroupReadStateRepositoryInterface defines the contract for chat read progress
type GroupReadStateRepositoryInterface interface {
	EnsureForMember(groupID, userID uint) error
	DeleteForMember(groupID, userID uint) error
	UpsertMonotonic(groupID, userID uint, lastReadMessageID uint) error
	Get(groupID, userID uint) (*models.GroupReadState, error)
	ListByGroup(groupID uint) ([]models.GroupReadState, error)
}

// PendingEventRepositoryInterface queues websocket events for offline users
type PendingEventRepositoryInterface interface {
	Enqueue(userID uint, eventID string, payload string, priority int) error
	GetPendingForUser(userID uint, limit int) ([]models.PendingEvent, error)
	GetRetryable(limit int) ([]models.PendingEvent, error)
	MarkAttempted(id uint, attempts int, nextRetry *time.Time) error
	Delete(id uint) error
	DeleteBatch(ids []uint) error
	CountPendingForUser(userID uint) (int64, error)
	CleanupOld(olderThan time.Duration) error
}
