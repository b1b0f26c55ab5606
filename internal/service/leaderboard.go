package service

import (
	"sort"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/cache"
	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/repository"
)

// LeaderboardEntry is one ranked row of a group leaderboard.
type LeaderboardEntry struct {
	Position   int                  `json:"position"`
	UserID     uint                 `json:"userId"`
	User       *models.UserResponse `json:"user,omitempty"`
	StudyTime  int                  `json:"studyTime"`
	IsStudying bool                 `json:"isStudying"`
	JoinedAt   time.Time            `json:"joinedAt"`
}

// RankParticipants orders members by accumulated study time, most
// first. Ties fall back to tenure (earlier join wins), then user ID, so
// the ordering is total and stable across calls.
func RankParticipants(members []models.GroupMember) []LeaderboardEntry {
	sorted := make([]models.GroupMember, len(members))
	copy(sorted, members)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.StudyTime != b.StudyTime {
			return a.StudyTime > b.StudyTime
		}
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.UserID < b.UserID
	})

	entries := make([]LeaderboardEntry, len(sorted))
	for i, m := range sorted {
		entry := LeaderboardEntry{
			Position:   i + 1,
			UserID:     m.UserID,
			StudyTime:  m.StudyTime,
			IsStudying: m.IsStudying,
			JoinedAt:   m.JoinedAt,
		}
		if m.User.ID != 0 {
			resp := m.User.ToResponse()
			entry.User = &resp
		}
		entries[i] = entry
	}
	return entries
}

// LeaderboardService serves ranked standings per group, with an
// optional Redis snapshot in front of the database.
type LeaderboardService struct {
	participantRepo repository.ParticipantRepositoryInterface
	groupRepo       repository.GroupRepositoryInterface
	cache           *cache.LeaderboardCache
}

func NewLeaderboardService(
	participantRepo repository.ParticipantRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
) *LeaderboardService {
	return &LeaderboardService{
		participantRepo: participantRepo,
		groupRepo:       groupRepo,
	}
}

func (s *LeaderboardService) SetCache(c *cache.LeaderboardCache) {
	s.cache = c
}

// GroupLeaderboard returns the current standings for a group. Cached
// snapshots are served when fresh; the database is always the source
// of truth after a session commits.
func (s *LeaderboardService) GroupLeaderboard(groupID uint) ([]LeaderboardEntry, error) {
	if s.cache != nil {
		var cached []LeaderboardEntry
		if ok, err := s.cache.Get(groupID, &cached); err == nil && ok {
			return cached, nil
		}
	}

	if _, err := s.groupRepo.FindByID(groupID); err != nil {
		return nil, asNotFound(err, "study group")
	}
	members, err := s.participantRepo.List(groupID)
	if err != nil {
		return nil, err
	}

	entries := RankParticipants(members)
	if s.cache != nil {
		_ = s.cache.Set(groupID, entries)
	}
	return entries, nil
}

// Invalidate drops the cached snapshot after a ledger write.
func (s *LeaderboardService) Invalidate(groupID uint) {
	if s.cache != nil {
		_ = s.cache.Delete(groupID)
	}
}
