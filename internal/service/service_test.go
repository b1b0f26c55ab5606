package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/repository/memory"
)

// testEnv wires every service against the in-memory stores so the
// service layer is exercised end to end without a database.
type testEnv struct {
	users        *memory.UserStore
	groups       *memory.GroupStore
	participants *memory.ParticipantStore
	joinRequests *memory.JoinRequestStore
	readStates   *memory.ReadStateStore
	messages     *memory.MessageStore
	sessions     *memory.SessionStore
	friends      *memory.FriendStore
	tokens       *memory.RefreshTokenStore
	goals        *memory.GoalStore
	schedule     *memory.ScheduleStore

	groupService   *GroupService
	ledgerService  *LedgerService
	messageService *MessageService

	nextUser int
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	env := &testEnv{
		users:        memory.NewUserStore(store),
		groups:       memory.NewGroupStore(store),
		participants: memory.NewParticipantStore(store),
		joinRequests: memory.NewJoinRequestStore(store),
		readStates:   memory.NewReadStateStore(store),
		messages:     memory.NewMessageStore(store),
		sessions:     memory.NewSessionStore(store),
		friends:      memory.NewFriendStore(store),
		tokens:       memory.NewRefreshTokenStore(store),
		goals:        memory.NewGoalStore(store),
		schedule:     memory.NewScheduleStore(store),
	}

	env.groupService = NewGroupService(env.groups, env.participants, env.joinRequests, env.readStates, env.users)
	env.ledgerService = NewLedgerService(env.participants, env.users, env.groups)
	env.messageService = NewMessageService(env.messages, env.participants, env.groups, env.friends, env.readStates)
	env.groupService.SetMessages(env.messageService)
	return env
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()
	e.nextUser++
	u := &models.User{
		Email:        fmt.Sprintf("22050%02d@kiit.ac.in", e.nextUser),
		PasswordHash: "x",
		Name:         name,
		RollNumber:   fmt.Sprintf("22050%02d", e.nextUser),
		Year:         "3",
	}
	if err := e.users.Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// group creates a group through the service so the creator ends up as
// admin member, the same path production takes.
func (e *testEnv) group(t *testing.T, admin *models.User, input CreateGroupInput) *models.Group {
	t.Helper()
	if input.Name == "" {
		input.Name = "DSA grind"
	}
	if input.Subject == "" {
		input.Subject = "Data Structures"
	}
	if input.Description == "" {
		input.Description = "daily practice"
	}
	g, err := e.groupService.CreateGroup(admin.ID, input)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	return g
}

func (e *testEnv) join(t *testing.T, groupID uint, users ...*models.User) {
	t.Helper()
	for _, u := range users {
		if _, err := e.groupService.JoinGroup(groupID, u.ID); err != nil {
			t.Fatalf("join group: user %d: %v", u.ID, err)
		}
	}
}

type capturedEvent struct {
	UserIDs   []uint
	EventType string
	Payload   interface{}
	Priority  int
}

// capturePublisher records fan-out instead of pushing to websockets.
type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (p *capturePublisher) PublishToUsers(userIDs []uint, eventType string, payload interface{}, priority int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{
		UserIDs:   userIDs,
		EventType: eventType,
		Payload:   payload,
		Priority:  priority,
	})
}

func (p *capturePublisher) byType(eventType string) []capturedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []capturedEvent
	for _, e := range p.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

// fakeClock mirrors the one in the timer package tests; services take a
// timer.Clock or a now func, both satisfied by Now.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
