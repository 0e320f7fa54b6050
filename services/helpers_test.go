package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"rulesbot/config"
	"rulesbot/models"
	"rulesbot/repository"
)

func newTestStore(t *testing.T) *repository.GormStore {
	t.Helper()
	cfg := config.Default()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "rules.db")
	db, err := config.InitDB(cfg)
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	store := repository.NewGormStore(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createTestGame(t *testing.T, store repository.Store, game models.Game) *models.Game {
	t.Helper()
	if err := store.CreateGame(context.Background(), &game); err != nil {
		t.Fatalf("create game: %v", err)
	}
	return &game
}

type stubCompleter struct {
	mu     sync.Mutex
	answer string
	err    error
	calls  int
	system string
	user   string
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.system = system
	s.user = user
	return s.answer, s.err
}

func (s *stubCompleter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordedEvent struct {
	gameID      uint
	messageType string
	payload     any
}

type recordingNotifier struct {
	events []recordedEvent
}

func (n *recordingNotifier) BroadcastToGame(gameID uint, messageType string, payload any) {
	n.events = append(n.events, recordedEvent{gameID: gameID, messageType: messageType, payload: payload})
}
