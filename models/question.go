package models

import (
	"time"
)

// Question is an answered user question. Rows are only ever appended; they
// disappear with their Game.
type Question struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	GameID      uint      `json:"game_id" gorm:"not null;index"`
	Question    string    `json:"question" gorm:"not null"`
	Answer      string    `json:"answer" gorm:"not null"`
	ContextUsed string    `json:"context_used,omitempty" gorm:"not null;default:''"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
