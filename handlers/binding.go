package handlers

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"

	"rulesbot/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validatorOnce sync.Once

// RegisterValidators adds the "notblank" tag used by request structs. It must
// run before the first request is bound.
func RegisterValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}

// bindJSON decodes the body into req. A missing body or failed field rule
// yields fieldCode, anything unparseable yields invalid_request.
func bindJSON(c *gin.Context, req any, fieldCode, fieldMessage string) error {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) || errors.Is(err, io.EOF) {
		return services.NewValidationError(fieldCode, fieldMessage)
	}
	return services.NewValidationError("invalid_request", "Request body must be valid JSON")
}

func parseGameID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, services.NewValidationError("invalid_id", "Game id must be a positive integer")
	}
	return uint(id), nil
}
