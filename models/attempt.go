package models

import (
	"time"
)

type Attempt struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	TaskID     uint      `json:"task_id" gorm:"not null"`
	UserAnswer string    `json:"user_answer" gorm:"not null"`
	IsCorrect  bool      `json:"is_correct" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	User User `json:"user,omitempty"`
	Task Task `json:"task,omitempty"`
}
