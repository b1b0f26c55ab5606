// Package memory implements the repository interfaces on in-process
// maps. It backs demo mode, where the server runs without Postgres,
// and doubles as a fixture store in service tests. Not-found lookups
// return gorm.ErrRecordNotFound so error classification matches the
// database-backed repositories.
package memory

import (
	"sync"

	"gorm.io/gorm"

	"github.com/Symmetry7/KIITstudy/internal/models"
)

type memberKey struct {
	GroupID uint
	UserID  uint
}

// Store holds all tables behind one lock. Demo traffic is light; a
// single RWMutex keeps the cross-table operations trivially consistent.
type Store struct {
	mu sync.RWMutex

	users  map[uint]*models.User
	groups map[uint]*models.Group

	members      map[memberKey]*models.GroupMember
	joinRequests map[uint]*models.JoinRequest
	messages     map[uint]*models.Message
	sessions     []*models.StudySession
	goals        map[uint]*models.Goal
	milestones   map[uint]*models.Milestone
	schedule     map[uint]*models.ScheduleItem

	friendRequests map[uint]*models.FriendRequest
	friendships    map[memberKey]bool

	refreshTokens map[string]*models.RefreshToken
	readStates    map[memberKey]*models.GroupReadState
	pendingEvents map[uint]*models.PendingEvent

	nextID uint
}

func NewStore() *Store {
	return &Store{
		users:          make(map[uint]*models.User),
		groups:         make(map[uint]*models.Group),
		members:        make(map[memberKey]*models.GroupMember),
		joinRequests:   make(map[uint]*models.JoinRequest),
		messages:       make(map[uint]*models.Message),
		goals:          make(map[uint]*models.Goal),
		milestones:     make(map[uint]*models.Milestone),
		schedule:       make(map[uint]*models.ScheduleItem),
		friendRequests: make(map[uint]*models.FriendRequest),
		friendships:    make(map[memberKey]bool),
		refreshTokens:  make(map[string]*models.RefreshToken),
		readStates:     make(map[memberKey]*models.GroupReadState),
		pendingEvents:  make(map[uint]*models.PendingEvent),
	}
}

// id hands out the next primary key. Callers must hold mu.
func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

func notFound() error {
	return gorm.ErrRecordNotFound
}
