package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/Symmetry7/KIITstudy/internal/models"
)

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestUser creates a test user with default values
func (h *TestHelper) CreateTestUser(id uint, name, email string) *models.User {
	if id == 0 {
		id = 1
	}
	if name == "" {
		name = "Test Student"
	}
	if email == "" {
		email = fmt.Sprintf("2205%03d@kiit.ac.in", id)
	}

	return &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: "hashed_password_123",
		Name:         name,
		RollNumber:   fmt.Sprintf("2205%03d", id),
		Course:       "B.Tech CSE",
		Year:         "3",
		Department:   "CSE",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// CreateTestGroup creates a study group with a given admin
func (h *TestHelper) CreateTestGroup(id, adminID uint, name string) *models.Group {
	if id == 0 {
		id = 1
	}
	if name == "" {
		name = "DSA Study Group"
	}

	return &models.Group{
		ID:              id,
		Name:            name,
		Subject:         "Data Structures",
		Description:     "Daily DSA practice",
		AdminID:         adminID,
		MaxParticipants: 10,
		AllowChat:       true,
		LastActive:      time.Now(),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

// CreateTestMember creates a group membership row
func (h *TestHelper) CreateTestMember(groupID, userID uint, role models.GroupRole, studyTime int) *models.GroupMember {
	return &models.GroupMember{
		GroupID:   groupID,
		UserID:    userID,
		Role:      role,
		StudyTime: studyTime,
		JoinedAt:  time.Now(),
	}
}
