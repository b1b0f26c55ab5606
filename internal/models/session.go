package models

import (
	"time"

	"gorm.io/gorm"
)

// TimerMode selects the countdown behavior of a study session.
// Pomodoro and deep-focus are fixed countdowns that auto-complete at
// zero; sprint is an endless count-up stopped by the participant.
type TimerMode string

const (
	TimerPomodoro  TimerMode = "pomodoro"
	TimerDeepFocus TimerMode = "deep-focus"
	TimerSprint    TimerMode = "sprint"
)

const (
	PomodoroMinutes  = 25
	DeepFocusMinutes = 50
)

// Duration returns the countdown length for fixed modes, 0 for sprint.
func (m TimerMode) Duration() time.Duration {
	switch m {
	case TimerPomodoro:
		return PomodoroMinutes * time.Minute
	case TimerDeepFocus:
		return DeepFocusMinutes * time.Minute
	default:
		return 0
	}
}

func (m TimerMode) Valid() bool {
	switch m {
	case TimerPomodoro, TimerDeepFocus, TimerSprint:
		return true
	}
	return false
}

// StudySession is the durable record of one finished study interval.
// Live timer state is in-memory only; a row is written when a session
// stops and its minutes are committed to the ledger.
type StudySession struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	GroupID uint `gorm:"not null;index" json:"group_id"`
	UserID  uint `gorm:"not null;index" json:"user_id"`

	Mode      TimerMode `gorm:"type:varchar(20);not null" json:"mode"`
	StartedAt time.Time `gorm:"not null" json:"started_at"`
	EndedAt   time.Time `gorm:"not null" json:"ended_at"`

	// Minutes committed to the ledger: elapsed seconds / 60, floored.
	Minutes int `gorm:"not null" json:"minutes"`

	// Completed is true when a fixed countdown ran to zero rather than
	// being stopped early.
	Completed bool `gorm:"not null;default:false" json:"completed"`
}
