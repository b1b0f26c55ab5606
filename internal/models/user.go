package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `gorm:"size:100;not null" json:"name"`
	RollNumber   string `gorm:"uniqueIndex;not null" json:"roll_number"`
	Course       string `gorm:"size:100" json:"course"`
	Year         string `gorm:"size:10" json:"year"`
	Department   string `gorm:"size:100" json:"department"`
	Avatar       string `json:"avatar"`

	// Study accounting across all groups. TotalStudyMinutes only ever
	// grows. Streak counts consecutive days with at least one committed
	// session; LastStudyDay is the most recent such day (midnight UTC).
	TotalStudyMinutes int        `gorm:"not null;default:0" json:"total_study_minutes"`
	Streak            int        `gorm:"not null;default:0" json:"streak"`
	LastStudyDay      *time.Time `json:"last_study_day"`

	IsOnline bool       `gorm:"default:false" json:"is_online"`
	LastSeen *time.Time `json:"last_seen"`
}

type UserResponse struct {
	ID                uint       `json:"id"`
	Email             string     `json:"email"`
	Name              string     `json:"name"`
	RollNumber        string     `json:"roll_number"`
	Course            string     `json:"course"`
	Year              string     `json:"year"`
	Department        string     `json:"department"`
	Avatar            string     `json:"avatar"`
	TotalStudyMinutes int        `json:"total_study_minutes"`
	TotalStudyHours   int        `json:"total_study_hours"`
	Streak            int        `json:"streak"`
	IsOnline          bool       `json:"is_online"`
	LastSeen          *time.Time `json:"last_seen"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		RollNumber:        u.RollNumber,
		Course:            u.Course,
		Year:              u.Year,
		Department:        u.Department,
		Avatar:            u.Avatar,
		TotalStudyMinutes: u.TotalStudyMinutes,
		TotalStudyHours:   u.TotalStudyMinutes / 60,
		Streak:            u.Streak,
		IsOnline:          u.IsOnline,
		LastSeen:          u.LastSeen,
	}
}
