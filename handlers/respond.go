package handlers

import (
	"log"
	"net/http"

	"rulesbot/middleware"
	"rulesbot/services"

	"github.com/gin-gonic/gin"
)

// respondError writes the {error, message} body for err. Server-side and
// upstream failures are logged with the request they belong to.
func respondError(c *gin.Context, err error, detailed bool) {
	status, code, message := services.DescribeError(err, detailed)
	if status >= http.StatusInternalServerError || status == http.StatusUnauthorized || status == http.StatusTooManyRequests {
		log.Printf("%s %s (request %s) failed with %d %s: %v",
			c.Request.Method, c.Request.URL.Path, c.GetString(middleware.RequestIDKey), status, code, err)
	}
	c.JSON(status, gin.H{"error": code, "message": message})
}
