package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"rulesbot/config"
	"rulesbot/handlers"
	"rulesbot/middleware"
	"rulesbot/repository"
	"rulesbot/routes"
	"rulesbot/services"

	"github.com/gin-gonic/gin"
)

const testVersion = "1.0.0-test"

type stubCompleter struct {
	mu     sync.Mutex
	answer string
	err    error
	calls  int
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.answer, s.err
}

func (s *stubCompleter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type testAPI struct {
	router    *gin.Engine
	store     *repository.GormStore
	completer *stubCompleter
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	completer := &stubCompleter{answer: "Yes, during your own turn."}
	hub := services.NewHub(false)
	gameService := services.NewGameService(store)
	questionService := services.NewQuestionService(store, completer, hub, time.Second)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery())
	routes.SetupRoutes(router,
		handlers.NewGameHandler(gameService, false),
		handlers.NewQuestionHandler(questionService, false),
		handlers.NewHealthHandler(store, handlers.ServerInfo{
			Version:  testVersion,
			Env:      "test",
			Database: "SQLite",
		}),
		handlers.NewChatHandler(gameService, questionService, hub, middleware.NewOriginMatcher(cfg.CORSOrigins), false),
		handlers.NewPageHandler(testVersion),
	)

	return &testAPI{router: router, store: store, completer: completer}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	body := decodeBody[errorBody](t, rec)
	if body.Error != code {
		t.Fatalf("error code = %q, want %q", body.Error, code)
	}
	if body.Message == "" {
		t.Fatal("error message is empty")
	}
}

type gameBody struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	OfficialRules string `json:"official_rules"`
	CustomRules   string `json:"custom_rules"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	QuestionCount int64  `json:"question_count"`
}

func (a *testAPI) createGame(t *testing.T, body map[string]string) gameBody {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/games", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create game status = %d (body %s)", rec.Code, rec.Body.String())
	}
	return decodeBody[gameBody](t, rec)
}
