package service

import (
	"time"

	"github.com/Symmetry7/KIITstudy/internal/cache"
	"github.com/Symmetry7/KIITstudy/internal/repository"
)

// LedgerService is the single writer of study-time accounting: a
// participant's per-group minutes, the user's lifetime total, and the
// daily streak. Minutes only ever accumulate.
type LedgerService struct {
	participantRepo repository.ParticipantRepositoryInterface
	userRepo        repository.UserRepositoryInterface
	groupRepo       repository.GroupRepositoryInterface
	presenceCache   *cache.PresenceCache
	publisher       EventPublisher
	now             func() time.Time
}

func NewLedgerService(
	participantRepo repository.ParticipantRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
) *LedgerService {
	return &LedgerService{
		participantRepo: participantRepo,
		userRepo:        userRepo,
		groupRepo:       groupRepo,
		now:             time.Now,
	}
}

func (s *LedgerService) SetPresenceCache(pc *cache.PresenceCache) {
	s.presenceCache = pc
}

func (s *LedgerService) SetPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

// RecordSessionMinutes commits a finished session to the participant's
// ledger and clears the studying flag. Zero minutes is legal (a session
// shorter than a minute earns nothing) but still ends the session.
func (s *LedgerService) RecordSessionMinutes(groupID, userID uint, minutes int) error {
	if minutes < 0 {
		return validationError("minutes must be non-negative")
	}

	if _, err := s.participantRepo.Get(groupID, userID); err != nil {
		return asNotMember(err)
	}

	if err := s.participantRepo.AddStudyMinutes(groupID, userID, minutes); err != nil {
		return err
	}
	s.clearStudyingPresence(groupID, userID)

	if minutes == 0 {
		return nil
	}
	return s.creditUser(userID, minutes)
}

// SetStudying toggles live presence. It is display state only and never
// touches the minute accounting.
func (s *LedgerService) SetStudying(groupID, userID uint, studying bool) error {
	if _, err := s.participantRepo.Get(groupID, userID); err != nil {
		return asNotMember(err)
	}
	if err := s.participantRepo.SetStudying(groupID, userID, studying); err != nil {
		return err
	}

	if s.presenceCache != nil {
		if studying {
			_ = s.presenceCache.SetStudying(groupID, userID)
		} else {
			_ = s.presenceCache.ClearStudying(groupID, userID)
		}
	}
	if s.publisher != nil {
		if ids, err := s.participantRepo.UserIDs(groupID); err == nil {
			s.publisher.PublishToUsers(ids, EventPresenceChanged, map[string]interface{}{
				"group_id":    groupID,
				"user_id":     userID,
				"is_studying": studying,
			}, PriorityChat)
		}
	}
	return nil
}

// creditUser accumulates lifetime minutes and advances the daily
// streak: same day keeps it, the day after extends it, a gap resets it.
func (s *LedgerService) creditUser(userID uint, minutes int) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return asNotFound(err, "user")
	}

	today := midnightUTC(s.now())
	streak := 1
	if user.LastStudyDay != nil {
		last := midnightUTC(*user.LastStudyDay)
		switch {
		case last.Equal(today):
			streak = user.Streak
		case last.Equal(today.AddDate(0, 0, -1)):
			streak = user.Streak + 1
		}
	}

	return s.userRepo.AddStudyCredit(userID, minutes, streak, today)
}

func (s *LedgerService) clearStudyingPresence(groupID, userID uint) {
	if s.presenceCache != nil {
		_ = s.presenceCache.ClearStudying(groupID, userID)
	}
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
