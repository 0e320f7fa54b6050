package models

import (
	"time"
)

type Game struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	Description   string    `json:"description" gorm:"not null"`
	OfficialRules string    `json:"official_rules" gorm:"not null;default:''"`
	CustomRules   string    `json:"custom_rules" gorm:"not null;default:''"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Questions []Question `json:"-" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}

// GameSummary is a Game as listed, annotated with how many questions it has.
type GameSummary struct {
	Game
	QuestionCount int64 `json:"question_count"`
}
