package routes

import (
	"net/http"

	"rulesbot/handlers"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	gameHandler *handlers.GameHandler,
	questionHandler *handlers.QuestionHandler,
	healthHandler *handlers.HealthHandler,
	chatHandler *handlers.ChatHandler,
	pageHandler *handlers.PageHandler,
) {
	handlers.RegisterValidators()

	router.GET("/", pageHandler.Index)

	// API routes
	api := router.Group("/api")
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/test", healthHandler.Test)

		games := api.Group("/games")
		{
			games.GET("", gameHandler.ListGames)
			games.POST("", gameHandler.CreateGame)
			games.GET("/:id", gameHandler.GetGame)
			games.PUT("/:id", gameHandler.UpdateGame)
			games.DELETE("/:id", gameHandler.DeleteGame)

			games.POST("/:id/ask", questionHandler.Ask)
			games.GET("/:id/questions", questionHandler.ListQuestions)
		}
	}

	// WebSocket endpoint for the per-game chat
	router.GET("/ws/games/:id/chat", chatHandler.Connect)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Route not found"})
	})
}
