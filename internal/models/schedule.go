package models

import (
	"time"

	"gorm.io/gorm"
)

type ScheduleType string

const (
	ScheduleStudy      ScheduleType = "study"
	ScheduleExam       ScheduleType = "exam"
	ScheduleAssignment ScheduleType = "assignment"
	ScheduleGroup      ScheduleType = "group"
	ScheduleClass      ScheduleType = "class"
	ScheduleMeeting    ScheduleType = "meeting"
)

type ScheduleStatus string

const (
	ScheduleScheduled  ScheduleStatus = "scheduled"
	ScheduleInProgress ScheduleStatus = "in-progress"
	ScheduleCompleted  ScheduleStatus = "completed"
	ScheduleMissed     ScheduleStatus = "missed"
)

type Recurrence string

const (
	RecurNone    Recurrence = "none"
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
)

type ScheduleItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID      uint         `gorm:"not null;index" json:"user_id"`
	Title       string       `gorm:"size:100;not null" json:"title"`
	Subject     string       `gorm:"size:100" json:"subject"`
	Description string       `gorm:"size:255" json:"description"`
	Location    string       `gorm:"size:100" json:"location"`
	Type        ScheduleType `gorm:"type:varchar(20);default:'study'" json:"type"`

	StartsAt time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt   time.Time `gorm:"not null" json:"ends_at"`

	Priority  Priority       `gorm:"type:varchar(10);default:'medium'" json:"priority"`
	Status    ScheduleStatus `gorm:"type:varchar(20);default:'scheduled'" json:"status"`
	Recurring Recurrence     `gorm:"type:varchar(10);default:'none'" json:"recurring"`

	// Minutes before StartsAt at which a reminder should fire.
	ReminderMinutes int `gorm:"not null;default:0" json:"reminder_minutes"`
}
