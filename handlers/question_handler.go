package handlers

import (
	"net/http"
	"strconv"

	"rulesbot/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questionService *services.QuestionService
	detailed        bool
}

func NewQuestionHandler(questionService *services.QuestionService, detailed bool) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		detailed:        detailed,
	}
}

// questionResponse leaves out the stored context block.
type questionResponse struct {
	ID        uint   `json:"id"`
	GameID    uint   `json:"game_id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"created_at"`
}

func (h *QuestionHandler) Ask(c *gin.Context) {
	id, err := parseGameID(c)
	if err != nil {
		respondError(c, err, h.detailed)
		return
	}

	var req services.AskRequest
	if err := bindJSON(c, &req, "missing_question", "A question is required"); err != nil {
		respondError(c, err, h.detailed)
		return
	}

	result, err := h.questionService.Ask(c.Request.Context(), id, req.Question)
	if err != nil {
		respondError(c, err, h.detailed)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	id, err := parseGameID(c)
	if err != nil {
		respondError(c, err, h.detailed)
		return
	}

	// Unparseable limits fall back to the default like non-positive ones.
	limit, _ := strconv.Atoi(c.Query("limit"))

	questions, err := h.questionService.ListQuestions(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err, h.detailed)
		return
	}

	resp := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		resp = append(resp, questionResponse{
			ID:        q.ID,
			GameID:    q.GameID,
			Question:  q.Question,
			Answer:    q.Answer,
			CreatedAt: services.FormatTimestamp(q.CreatedAt),
		})
	}
	c.JSON(http.StatusOK, resp)
}
