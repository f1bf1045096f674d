package models

import (
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	TelegramID   int64     `json:"telegram_id" gorm:"uniqueIndex;not null"`
	Username     string    `json:"username"`
	Score        int       `json:"score" gorm:"not null;default:0"`
	RegisteredAt time.Time `json:"registered_at" gorm:"autoCreateTime"`

	// Relationships
	Attempts []Attempt `json:"attempts,omitempty" gorm:"foreignKey:UserID"`
}
