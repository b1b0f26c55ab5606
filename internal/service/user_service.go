package service

import (
	"strings"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/cache"
	"github.com/Symmetry7/KIITstudy/internal/models"
	"github.com/Symmetry7/KIITstudy/internal/repository"
)

// UserService covers profiles, search, and online presence.
type UserService struct {
	userRepo      repository.UserRepositoryInterface
	sessionRepo   repository.SessionRepositoryInterface
	presenceCache *cache.PresenceCache
}

func NewUserService(userRepo repository.UserRepositoryInterface, sessionRepo repository.SessionRepositoryInterface) *UserService {
	return &UserService{userRepo: userRepo, sessionRepo: sessionRepo}
}

func (s *UserService) SetPresenceCache(pc *cache.PresenceCache) { s.presenceCache = pc }

func (s *UserService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, asNotFound(err, "user")
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=100"`
	Course     *string `json:"course" validate:"omitempty,max=100"`
	Year       *string `json:"year" validate:"omitempty,max=10"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Avatar     *string `json:"avatar" validate:"omitempty,url,max=500"`
}

func (s *UserService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationError("name cannot be empty")
		}
		user.Name = name
	}
	if input.Course != nil {
		user.Course = *input.Course
	}
	if input.Year != nil {
		user.Year = *input.Year
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) SearchUsers(query string, limit int) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, validationError("search query must be at least 2 characters")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.userRepo.SearchUsers(query, limit)
}

// SetOnline flips the stored online flag and mirrors it into the
// presence cache when one is wired.
func (s *UserService) SetOnline(userID uint, online bool) error {
	if err := s.userRepo.UpdateOnlineStatus(userID, online); err != nil {
		return err
	}
	if s.presenceCache != nil {
		if online {
			_ = s.presenceCache.SetOnline(userID)
		} else {
			_ = s.presenceCache.ClearOnline(userID)
		}
	}
	return nil
}

// RecentSessions returns a user's latest finished sessions, newest first.
func (s *UserService) RecentSessions(userID uint, limit int) ([]models.StudySession, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.sessionRepo.ListByUser(userID, limit)
}

// StudyStats summarizes a user's accumulated effort.
type StudyStats struct {
	TotalMinutes int        `json:"totalMinutes"`
	TotalHours   int        `json:"totalHours"`
	Streak       int        `json:"streak"`
	LastStudyDay *time.Time `json:"lastStudyDay"`
}

func (s *UserService) Stats(userID uint) (*StudyStats, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	return &StudyStats{
		TotalMinutes: user.TotalStudyMinutes,
		TotalHours:   user.TotalStudyMinutes / 60,
		Streak:       user.Streak,
		LastStudyDay: user.LastStudyDay,
	}, nil
}
