package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/notify"
	"github.com/Symmetry7/KIITstudy/internal/repository"
	"github.com/Symmetry7/KIITstudy/internal/timer"
)

type sessionKey struct {
	GroupID uint
	UserID  uint
}

type liveSession struct {
	timer     *timer.Timer
	mode      models.TimerMode
	startedAt time.Time
}

// SessionStatus is a point-in-time view of a running session.
type SessionStatus struct {
	GroupID          uint             `json:"groupId"`
	UserID           uint             `json:"userId"`
	Mode             models.TimerMode `json:"mode"`
	State            string           `json:"state"`
	StartedAt        time.Time        `json:"startedAt"`
	ElapsedSeconds   int              `json:"elapsedSeconds"`
	RemainingSeconds int              `json:"remainingSeconds,omitempty"`
}

// SessionService owns the live timers. Sessions exist only in memory
// while running; nothing is persisted until a session stops, at which
// point the elapsed minutes are committed to the ledger in one pass.
type SessionService struct {
	mu     sync.Mutex
	active map[sessionKey]*liveSession

	sessionRepo     repository.SessionRepositoryInterface
	groupRepo       repository.GroupRepositoryInterface
	participantRepo repository.ParticipantRepositoryInterface
	ledger          *LedgerService
	leaderboard     *LeaderboardService
	messages        *MessageService
	publisher       EventPublisher
	notifier        notify.Notifier
	clock           timer.Clock
}

func NewSessionService(
	sessionRepo repository.SessionRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
	participantRepo repository.ParticipantRepositoryInterface,
	ledger *LedgerService,
) *SessionService {
	return &SessionService{
		active:          make(map[sessionKey]*liveSession),
		sessionRepo:     sessionRepo,
		groupRepo:       groupRepo,
		participantRepo: participantRepo,
		ledger:          ledger,
		notifier:        notify.Nop{},
		clock:           time.Now,
	}
}

func (s *SessionService) SetLeaderboard(lb *LeaderboardService) { s.leaderboard = lb }

func (s *SessionService) SetMessages(m *MessageService) { s.messages = m }

func (s *SessionService) SetPublisher(p EventPublisher) { s.publisher = p }

func (s *SessionService) SetNotifier(n notify.Notifier) {
	if n != nil {
		s.notifier = n
	}
}

func (s *SessionService) SetClock(clock timer.Clock) { s.clock = clock }

// StartSession begins a timed session for a member. A user runs at most
// one session per group at a time.
func (s *SessionService) StartSession(groupID, userID uint, mode models.TimerMode) (*SessionStatus, error) {
	if !mode.Valid() {
		return nil, validationError("unknown timer mode %q", mode)
	}
	if ok, err := s.participantRepo.IsMember(groupID, userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: not a participant of this group", ErrNotMember)
	}

	key := sessionKey{GroupID: groupID, UserID: userID}

	s.mu.Lock()
	if _, exists := s.active[key]; exists {
		s.mu.Unlock()
		return nil, validationError("a session is already running in this group")
	}
	t := timer.New(mode.Duration(), s.clock)
	if err := t.Start(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	live := &liveSession{timer: t, mode: mode, startedAt: s.clock()}
	s.active[key] = live
	s.mu.Unlock()

	if err := s.ledger.SetStudying(groupID, userID, true); err != nil {
		log.Printf("session: mark studying failed for user %d in group %d: %v", userID, groupID, err)
	}
	s.publish(groupID, EventSessionStarted, map[string]interface{}{
		"group_id": groupID,
		"user_id":  userID,
		"mode":     mode,
	})

	status := s.statusLocked(key, live)
	return &status, nil
}

// PauseSession freezes the clock. Pausing a paused or missing session
// is not an error for a session that exists but is already paused; a
// session that was never started is not found.
func (s *SessionService) PauseSession(groupID, userID uint) (*SessionStatus, error) {
	return s.withLive(groupID, userID, func(live *liveSession) {
		live.timer.Pause()
	})
}

// ResumeSession restarts a paused clock. Resuming a running session is
// a no-op.
func (s *SessionService) ResumeSession(groupID, userID uint) (*SessionStatus, error) {
	return s.withLive(groupID, userID, func(live *liveSession) {
		live.timer.Resume()
	})
}

// Status reports the current session without touching it.
func (s *SessionService) Status(groupID, userID uint) (*SessionStatus, error) {
	return s.withLive(groupID, userID, func(*liveSession) {})
}

// StopSession ends the session and commits the earned minutes.
func (s *SessionService) StopSession(groupID, userID uint) (*models.StudySession, error) {
	key := sessionKey{GroupID: groupID, UserID: userID}

	s.mu.Lock()
	live, exists := s.active[key]
	if !exists {
		s.mu.Unlock()
		return nil, notFoundError("active session")
	}
	delete(s.active, key)
	s.mu.Unlock()

	elapsed, err := live.timer.Stop()
	if err != nil {
		return nil, err
	}
	return s.commit(groupID, userID, live, elapsed, live.timer.Expired())
}

// Run drives countdown expiry: once a pomodoro or deep-focus timer runs
// out, the session is committed automatically as completed. The loop
// exits when ctx is cancelled.
func (s *SessionService) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reapExpired()
		}
	}
}

func (s *SessionService) reapExpired() {
	type expired struct {
		key  sessionKey
		live *liveSession
	}

	s.mu.Lock()
	var done []expired
	for key, live := range s.active {
		if live.timer.Expired() {
			done = append(done, expired{key: key, live: live})
			delete(s.active, key)
		}
	}
	s.mu.Unlock()

	for _, e := range done {
		elapsed, err := e.live.timer.Stop()
		if err != nil {
			log.Printf("session: stop expired timer for user %d in group %d: %v", e.key.UserID, e.key.GroupID, err)
			continue
		}
		if _, err := s.commit(e.key.GroupID, e.key.UserID, e.live, elapsed, true); err != nil {
			log.Printf("session: commit expired session for user %d in group %d: %v", e.key.UserID, e.key.GroupID, err)
		}
	}
}

// commit writes the finished session through the ledger and records it.
// Only whole minutes count; the remainder is discarded.
func (s *SessionService) commit(groupID, userID uint, live *liveSession, elapsed time.Duration, completed bool) (*models.StudySession, error) {
	minutes := timer.Minutes(elapsed)

	if err := s.ledger.RecordSessionMinutes(groupID, userID, minutes); err != nil {
		return nil, err
	}

	session := &models.StudySession{
		GroupID:   groupID,
		UserID:    userID,
		Mode:      live.mode,
		StartedAt: live.startedAt,
		EndedAt:   s.clock(),
		Minutes:   minutes,
		Completed: completed,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	if err := s.groupRepo.AddSessionStats(groupID, minutes); err != nil {
		log.Printf("session: update group stats for group %d: %v", groupID, err)
	}
	if s.leaderboard != nil {
		s.leaderboard.Invalidate(groupID)
	}

	if minutes > 0 && s.messages != nil {
		user := "A member"
		if member, err := s.participantRepo.Get(groupID, userID); err == nil && member.User.Name != "" {
			user = member.User.Name
		}
		_, _ = s.messages.PostSystemMessage(groupID, fmt.Sprintf("%s studied for %d min", user, minutes))
	}

	event := EventSessionStopped
	if completed {
		event = EventSessionCompleted
		s.notifier.Notify(userID, notify.Notification{
			Kind:  "session.completed",
			Title: "Focus session complete",
			Body:  fmt.Sprintf("You studied for %d min", minutes),
			Ref:   groupID,
		})
	}
	s.publish(groupID, event, map[string]interface{}{
		"group_id":  groupID,
		"user_id":   userID,
		"mode":      live.mode,
		"minutes":   minutes,
		"completed": completed,
	})
	return session, nil
}

func (s *SessionService) withLive(groupID, userID uint, fn func(*liveSession)) (*SessionStatus, error) {
	key := sessionKey{GroupID: groupID, UserID: userID}

	s.mu.Lock()
	defer s.mu.Unlock()
	live, exists := s.active[key]
	if !exists {
		return nil, notFoundError("active session")
	}
	fn(live)
	status := s.statusLocked(key, live)
	return &status, nil
}

func (s *SessionService) statusLocked(key sessionKey, live *liveSession) SessionStatus {
	status := SessionStatus{
		GroupID:        key.GroupID,
		UserID:         key.UserID,
		Mode:           live.mode,
		State:          string(live.timer.State()),
		StartedAt:      live.startedAt,
		ElapsedSeconds: int(live.timer.Elapsed().Seconds()),
	}
	if remaining := live.timer.Remaining(); remaining > 0 {
		status.RemainingSeconds = int(remaining.Seconds())
	}
	return status
}

func (s *SessionService) publish(groupID uint, eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	ids, err := s.participantRepo.UserIDs(groupID)
	if err != nil {
		return
	}
	s.publisher.PublishToUsers(ids, eventType, payload, PrioritySystem)
}
