package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"rulesbot/config"
	"rulesbot/handlers"
	"rulesbot/llm"
	"rulesbot/middleware"
	"rulesbot/repository"
	"rulesbot/routes"
	"rulesbot/services"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

func main() {
	// Load configuration
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatal("Failed to load .env:", err)
	}
	cfg := config.Load()

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if cfg.SeedSampleGames {
		if _, err := repository.SeedSampleGames(ctx, store); err != nil {
			log.Printf("Failed to seed sample games: %v", err)
		}
	}

	completer := llm.NewClient(llm.Config{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.OpenAIModel,
		BaseURL:     cfg.OpenAIBaseURL,
		MaxTokens:   cfg.OpenAIMaxTokens,
		Temperature: cfg.OpenAITemperature,
	})
	if !completer.Configured() {
		log.Printf("WARNING: OPENAI_API_KEY is not set, questions will be rejected")
	}

	detailed := cfg.IsDevelopment()

	// Initialize WebSocket hub
	hub := services.NewHub(detailed)

	// Initialize services
	gameService := services.NewGameService(store)
	questionService := services.NewQuestionService(store, completer, hub, cfg.OpenAITimeout())

	// Initialize handlers
	gameHandler := handlers.NewGameHandler(gameService, detailed)
	questionHandler := handlers.NewQuestionHandler(questionService, detailed)
	healthHandler := handlers.NewHealthHandler(store, handlers.ServerInfo{
		Version:          version,
		Env:              cfg.Env,
		Database:         cfg.DatabaseLabel(),
		CORSEnabled:      len(cfg.CORSOrigins) > 0,
		OpenAIConfigured: completer.Configured(),
	})
	chatHandler := handlers.NewChatHandler(gameService, questionService, hub, middleware.NewOriginMatcher(cfg.CORSOrigins), detailed)
	pageHandler := handlers.NewPageHandler(version)

	// Setup Gin router
	router := gin.New()
	router.Use(middleware.RequestID())
	if cfg.IsDevelopment() {
		router.Use(middleware.Logger())
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	routes.SetupRoutes(router, gameHandler, questionHandler, healthHandler, chatHandler, pageHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s (database: %s, env: %s)", cfg.Port, cfg.DatabaseLabel(), cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	stop()
	log.Printf("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}

// openStore connects to the database selected by DB_DRIVER and brings its
// schema up to date.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPgx:
		dsn := cfg.PostgresURL()
		if err := repository.MigratePostgres(dsn); err != nil {
			return nil, err
		}
		store, err := repository.NewPgxStore(ctx, dsn, cfg.DBMaxOpenConns)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.DriverSQLite, config.DriverPostgres:
		db, err := config.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		store := repository.NewGormStore(db)
		if err := store.Migrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
