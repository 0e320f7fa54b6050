package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rulesbot/models"

	"gorm.io/gorm"
)

// GormStore backs the Store with gorm, either on a local SQLite file or on
// Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the games and questions tables.
func (s *GormStore) Migrate() error {
	if s.db == nil {
		return errors.New("db connection is nil")
	}
	if err := s.db.AutoMigrate(&models.Game{}, &models.Question{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *GormStore) ListGames(ctx context.Context) ([]models.GameSummary, error) {
	var games []models.Game
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&games).Error
	if err != nil {
		return nil, err
	}

	var counts []struct {
		GameID uint
		Total  int64
	}
	err = s.db.WithContext(ctx).
		Model(&models.Question{}).
		Select("game_id, COUNT(*) AS total").
		Group("game_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	byGame := make(map[uint]int64, len(counts))
	for _, row := range counts {
		byGame[row.GameID] = row.Total
	}

	summaries := make([]models.GameSummary, 0, len(games))
	for _, game := range games {
		summaries = append(summaries, models.GameSummary{
			Game:          game,
			QuestionCount: byGame[game.ID],
		})
	}
	return summaries, nil
}

func (s *GormStore) GetGame(ctx context.Context, id uint) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &game, nil
}

func (s *GormStore) CreateGame(ctx context.Context, game *models.Game) error {
	game.ID = 0
	if err := s.db.WithContext(ctx).Create(game).Error; err != nil {
		return err
	}
	stored, err := s.GetGame(ctx, game.ID)
	if err != nil {
		return err
	}
	*game = *stored
	return nil
}

func (s *GormStore) UpdateGame(ctx context.Context, game *models.Game) error {
	result := s.db.WithContext(ctx).
		Model(&models.Game{}).
		Where("id = ?", game.ID).
		Updates(map[string]any{
			"name":           game.Name,
			"description":    game.Description,
			"official_rules": game.OfficialRules,
			"custom_rules":   game.CustomRules,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	stored, err := s.GetGame(ctx, game.ID)
	if err != nil {
		return err
	}
	*game = *stored
	return nil
}

func (s *GormStore) DeleteGame(ctx context.Context, id uint) error {
	// Questions are removed explicitly so the cascade holds even where
	// foreign keys are not enforced.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Game{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *GormStore) CountGames(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.Game{}).Count(&total).Error
	return total, err
}

func (s *GormStore) ListQuestions(ctx context.Context, gameID uint, limit int) ([]models.Question, error) {
	questions := make([]models.Question, 0)
	err := s.db.WithContext(ctx).
		Select("id", "game_id", "question", "answer", "created_at").
		Where("game_id = ?", gameID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

func (s *GormStore) AppendQuestion(ctx context.Context, question *models.Question) error {
	question.ID = 0
	return s.db.WithContext(ctx).Create(question).Error
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
