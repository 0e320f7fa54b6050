package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"rulesbot/models"
	"rulesbot/repository"
)

type GameService struct {
	store repository.Store
}

func NewGameService(store repository.Store) *GameService {
	return &GameService{store: store}
}

type GameRequest struct {
	Name          string `json:"name" binding:"required,notblank"`
	Description   string `json:"description" binding:"required,notblank"`
	OfficialRules string `json:"official_rules"`
	CustomRules   string `json:"custom_rules"`
}

// toGame trims every field and rejects a blank name or description.
func (r *GameRequest) toGame() (*models.Game, error) {
	game := &models.Game{
		Name:          strings.TrimSpace(r.Name),
		Description:   strings.TrimSpace(r.Description),
		OfficialRules: strings.TrimSpace(r.OfficialRules),
		CustomRules:   strings.TrimSpace(r.CustomRules),
	}
	if game.Name == "" {
		return nil, NewValidationError("missing_fields", "Game name is required")
	}
	if game.Description == "" {
		return nil, NewValidationError("missing_fields", "Game description is required")
	}
	return game, nil
}

func (s *GameService) ListGames(ctx context.Context) ([]models.GameSummary, error) {
	games, err := s.store.ListGames(ctx)
	if err != nil {
		return nil, NewStorageError("Unable to fetch games", err)
	}
	return games, nil
}

func (s *GameService) GetGame(ctx context.Context, id uint) (*models.Game, error) {
	game, err := s.store.GetGame(ctx, id)
	if err != nil {
		return nil, gameLookupError(id, err, "Unable to fetch game")
	}
	return game, nil
}

func (s *GameService) CreateGame(ctx context.Context, req *GameRequest) (*models.Game, error) {
	game, err := req.toGame()
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateGame(ctx, game); err != nil {
		return nil, NewStorageError("Unable to create game", err)
	}
	log.Printf("Game %d created: %s", game.ID, game.Name)
	return game, nil
}

func (s *GameService) UpdateGame(ctx context.Context, id uint, req *GameRequest) (*models.Game, error) {
	game, err := req.toGame()
	if err != nil {
		return nil, err
	}
	game.ID = id
	if err := s.store.UpdateGame(ctx, game); err != nil {
		return nil, gameLookupError(id, err, "Unable to update game")
	}
	return game, nil
}

func (s *GameService) DeleteGame(ctx context.Context, id uint) error {
	if err := s.store.DeleteGame(ctx, id); err != nil {
		return gameLookupError(id, err, "Unable to delete game")
	}
	log.Printf("Game %d deleted", id)
	return nil
}

func gameLookupError(id uint, err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NewNotFoundError(fmt.Sprintf("No game found with id %d", id))
	}
	return NewStorageError(message, err)
}
