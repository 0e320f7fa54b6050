package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rulesbot/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxStore backs the Store with plain parameterized SQL on a pgx pool.
type PgxStore struct {
	pool *pgxpool.Pool
}

// NewPgxStore connects to the Postgres database at dsn.
func NewPgxStore(ctx context.Context, dsn string, maxConns int) (*PgxStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &PgxStore{pool: pool}, nil
}

const gameColumns = "id, name, description, official_rules, custom_rules, created_at, updated_at"

func scanGame(row pgx.Row, extra ...any) (*models.Game, error) {
	var (
		id   int64
		game models.Game
	)
	dest := append([]any{&id, &game.Name, &game.Description, &game.OfficialRules, &game.CustomRules, &game.CreatedAt, &game.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	game.ID = uint(id)
	return &game, nil
}

func (s *PgxStore) ListGames(ctx context.Context) ([]models.GameSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT g.id, g.name, g.description, g.official_rules, g.custom_rules, g.created_at, g.updated_at,
		       COUNT(q.id) AS question_count
		FROM games g
		LEFT JOIN questions q ON q.game_id = g.id
		GROUP BY g.id
		ORDER BY g.created_at DESC, g.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.GameSummary, 0)
	for rows.Next() {
		var count int64
		game, err := scanGame(rows, &count)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.GameSummary{Game: *game, QuestionCount: count})
	}
	return summaries, rows.Err()
}

func (s *PgxStore) GetGame(ctx context.Context, id uint) (*models.Game, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+gameColumns+" FROM games WHERE id = $1", int64(id))
	return scanGame(row)
}

func (s *PgxStore) CreateGame(ctx context.Context, game *models.Game) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO games (name, description, official_rules, custom_rules)
		VALUES ($1, $2, $3, $4)
		RETURNING `+gameColumns,
		game.Name, game.Description, game.OfficialRules, game.CustomRules)
	stored, err := scanGame(row)
	if err != nil {
		return err
	}
	*game = *stored
	return nil
}

func (s *PgxStore) UpdateGame(ctx context.Context, game *models.Game) error {
	row := s.pool.QueryRow(ctx, `
		UPDATE games
		SET name = $1, description = $2, official_rules = $3, custom_rules = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+gameColumns,
		game.Name, game.Description, game.OfficialRules, game.CustomRules, int64(game.ID))
	stored, err := scanGame(row)
	if err != nil {
		return err
	}
	*game = *stored
	return nil
}

// DeleteGame relies on the ON DELETE CASCADE foreign key of questions.
func (s *PgxStore) DeleteGame(ctx context.Context, id uint) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM games WHERE id = $1", int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PgxStore) CountGames(ctx context.Context) (int64, error) {
	var total int64
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM games").Scan(&total)
	return total, err
}

func (s *PgxStore) ListQuestions(ctx context.Context, gameID uint, limit int) ([]models.Question, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, game_id, question, answer, created_at
		FROM questions
		WHERE game_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, int64(gameID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]models.Question, 0)
	for rows.Next() {
		var (
			id, game int64
			q        models.Question
		)
		if err := rows.Scan(&id, &game, &q.Question, &q.Answer, &q.CreatedAt); err != nil {
			return nil, err
		}
		q.ID = uint(id)
		q.GameID = uint(game)
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *PgxStore) AppendQuestion(ctx context.Context, question *models.Question) error {
	var (
		id        int64
		createdAt time.Time
	)
	err := s.pool.QueryRow(ctx, `
		INSERT INTO questions (game_id, question, answer, context_used)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		int64(question.GameID), question.Question, question.Answer, question.ContextUsed).
		Scan(&id, &createdAt)
	if err != nil {
		return err
	}
	question.ID = uint(id)
	question.CreatedAt = createdAt
	return nil
}

func (s *PgxStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PgxStore) Close() error {
	s.pool.Close()
	return nil
}
