package models

import (
	"time"

	"gorm.io/gorm"
)

type GoalCategory string

const (
	GoalStudy   GoalCategory = "study"
	GoalExam    GoalCategory = "exam"
	GoalSkill   GoalCategory = "skill"
	GoalProject GoalCategory = "project"
)

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Goal struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID      uint         `gorm:"not null;index" json:"user_id"`
	Title       string       `gorm:"size:100;not null" json:"title"`
	Description string       `gorm:"size:255" json:"description"`
	Category    GoalCategory `gorm:"type:varchar(20);default:'study'" json:"category"`
	Priority    Priority     `gorm:"type:varchar(10);default:'medium'" json:"priority"`
	Status      GoalStatus   `gorm:"type:varchar(20);default:'active';index" json:"status"`

	// Numeric progress; the goal auto-completes when CurrentValue
	// reaches TargetValue.
	TargetValue  int    `gorm:"not null" json:"target_value"`
	CurrentValue int    `gorm:"not null;default:0" json:"current_value"`
	Unit         string `gorm:"size:20" json:"unit"`

	Deadline *time.Time `json:"deadline"`

	Milestones []Milestone `gorm:"foreignKey:GoalID" json:"milestones"`
}

type Milestone struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	GoalID      uint   `gorm:"not null;index" json:"goal_id"`
	Title       string `gorm:"size:100;not null" json:"title"`
	TargetValue int    `gorm:"not null" json:"target_value"`
	Done        bool   `gorm:"not null;default:false" json:"done"`
}
