package handlers

import (
	"net/http"

	"rulesbot/models"
	"rulesbot/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService *services.GameService
	detailed    bool
}

func NewGameHandler(gameService *services.GameService, detailed bool) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		detailed:    detailed,
	}
}

type gameResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	OfficialRules string `json:"official_rules"`
	CustomRules   string `json:"custom_rules"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type gameSummaryResponse struct {
	gameResponse
	QuestionCount int64 `json:"question_count"`
}

func newGameResponse(game *models.Game) gameResponse {
	return gameResponse{
		ID:            game.ID,
		Name:          game.Name,
		Description:   game.Description,
		OfficialRules: game.OfficialRules,
		CustomRules:   game.CustomRules,
		CreatedAt:     services.FormatTimestamp(game.CreatedAt),
		UpdatedAt:     services.FormatTimestamp(game.UpdatedAt),
	}
}

const gameFieldsMessage = "Game name and description are required"

func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.gameService.ListGames(c.Request.Context())
	if err != nil {
		respondError(c, err, h.detailed)
		return
	}

	resp := make([]gameSummaryResponse, 0, len(games))
	for i := range games {
		resp = append(resp, gameSummaryResponse{
			gameResponse:  newGameResponse(&games[i].Game),
			QuestionCount: games[i].QuestionCount,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GameHandler) GetGame(c *gin.Context) {
	id, err := parseGameID(c)
	if err != nil {
		respondError(c, err, h.detailed)
		return
	}

	game, err := h.gameService.GetGame(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, h.detailed)
		return
	}

	c.JSON(http.StatusOK, newGameResponse(game))
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	var req services.GameRequest
	if err := bindJSON(c, &req, "missing_fields", gameFieldsMessage); err != nil {
		respondError(c, err, h.detailed)
		return
	}

	game, err := h.gameService.CreateGame(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, h.detailed)
		return
	}

	c.JSON(http.StatusCreated, newGameResponse(game))
}

func (h *GameHandler) UpdateGame(c *gin.Context) {
	id, err := parseGameID(c)
	if err != nil {
		respondError(c, err, h.detailed)
		return
	}

	var req services.GameRequest
	if err := bindJSON(c, &req, "missing_fields", gameFieldsMessage); err != nil {
		respondError(c, err, h.detailed)
		return
	}

	game, err := h.gameService.UpdateGame(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, h.detailed)
		return
	}

	c.JSON(http.StatusOK, newGameResponse(game))
}

func (h *GameHandler) DeleteGame(c *gin.Context) {
	id, err := parseGameID(c)
	if err != nil {
		respondError(c, err, h.detailed)
		return
	}

	if err := h.gameService.DeleteGame(c.Request.Context(), id); err != nil {
		respondError(c, err, h.detailed)
		return
	}

	c.Status(http.StatusNoContent)
}
