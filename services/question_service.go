package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"rulesbot/llm"
	"rulesbot/models"
	"rulesbot/repository"
)

const (
	DefaultQuestionLimit = 50
	MaxQuestionLimit     = 500

	// TimestampLayout is ISO-8601 in UTC with millisecond precision.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Completer produces an answer from a system instruction and a user prompt.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Notifier is told about every persisted answer.
type Notifier interface {
	BroadcastToGame(gameID uint, messageType string, payload any)
}

type AskRequest struct {
	Question string `json:"question" binding:"required,notblank"`
}

type AskResult struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	GameName  string `json:"game_name"`
	Timestamp string `json:"timestamp"`
}

type QuestionService struct {
	store     repository.Store
	completer Completer
	notifier  Notifier
	timeout   time.Duration
	now       func() time.Time
}

func NewQuestionService(store repository.Store, completer Completer, notifier Notifier, timeout time.Duration) *QuestionService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &QuestionService{
		store:     store,
		completer: completer,
		notifier:  notifier,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Ask answers question about the game gameID from its stored rules and
// records the exchange. Nothing is written unless an answer came back.
func (s *QuestionService) Ask(ctx context.Context, gameID uint, question string) (*AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, NewValidationError("missing_question", "A question is required")
	}

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, gameLookupError(gameID, err, "Unable to fetch game")
	}

	gameContext := BuildGameContext(game)
	prompt := BuildQuestionPrompt(game, gameContext, question)

	completeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	answer, err := s.completer.Complete(completeCtx, SystemInstruction, prompt)
	cancel()
	if err != nil {
		log.Printf("Completion failed for game %d: %v", gameID, err)
		return nil, completionError(err)
	}
	if strings.TrimSpace(answer) == "" {
		return nil, NewUpstreamError("ai_error", "The completion service returned no answer", nil)
	}

	record := &models.Question{
		GameID:      game.ID,
		Question:    question,
		Answer:      answer,
		ContextUsed: gameContext,
	}
	if err := s.store.AppendQuestion(ctx, record); err != nil {
		return nil, NewStorageError("Unable to save the answer", err)
	}

	result := &AskResult{
		Question:  question,
		Answer:    answer,
		GameName:  game.Name,
		Timestamp: FormatTimestamp(s.now()),
	}
	if s.notifier != nil {
		s.notifier.BroadcastToGame(game.ID, "question_answered", map[string]any{
			"id":         record.ID,
			"game_id":    record.GameID,
			"question":   record.Question,
			"answer":     record.Answer,
			"created_at": FormatTimestamp(record.CreatedAt),
		})
	}
	return result, nil
}

func (s *QuestionService) ListQuestions(ctx context.Context, gameID uint, limit int) ([]models.Question, error) {
	questions, err := s.store.ListQuestions(ctx, gameID, ClampQuestionLimit(limit))
	if err != nil {
		return nil, NewStorageError("Unable to fetch question history", err)
	}
	return questions, nil
}

// ClampQuestionLimit maps non-positive limits to the default and caps large
// ones.
func ClampQuestionLimit(limit int) int {
	if limit <= 0 {
		return DefaultQuestionLimit
	}
	if limit > MaxQuestionLimit {
		return MaxQuestionLimit
	}
	return limit
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func completionError(err error) error {
	switch {
	case errors.Is(err, llm.ErrInsufficientQuota):
		return NewUpstreamQuotaError(err)
	case errors.Is(err, llm.ErrInvalidAPIKey):
		return NewUpstreamAuthError(err)
	case errors.Is(err, llm.ErrNoAnswer):
		return NewUpstreamError("ai_error", "The completion service returned no answer", err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewUpstreamError("server_error", "The completion service timed out", err)
	default:
		return NewUpstreamError("server_error", "Error while processing the question", err)
	}
}
