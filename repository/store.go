package repository

import (
	"context"
	"errors"

	"rulesbot/models"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("record not found")

// Store is the persistence contract shared by the local-file and networked
// databases. Writes target a single row by primary key, so the engine's
// default isolation is enough.
type Store interface {
	ListGames(ctx context.Context) ([]models.GameSummary, error)
	GetGame(ctx context.Context, id uint) (*models.Game, error)
	CreateGame(ctx context.Context, game *models.Game) error
	// UpdateGame overwrites the text fields of game.ID and refreshes game
	// from the stored row.
	UpdateGame(ctx context.Context, game *models.Game) error
	// DeleteGame removes the game and every question that belongs to it.
	DeleteGame(ctx context.Context, id uint) error
	CountGames(ctx context.Context) (int64, error)

	ListQuestions(ctx context.Context, gameID uint, limit int) ([]models.Question, error)
	AppendQuestion(ctx context.Context, question *models.Question) error

	Ping(ctx context.Context) error
	Close() error
}
