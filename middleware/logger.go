package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger is the development request log: one line per request with its id.
func Logger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(p gin.LogFormatterParams) string {
		requestID, _ := p.Keys[RequestIDKey].(string)
		return fmt.Sprintf("%s %s %s %d %s %s\n",
			p.TimeStamp.UTC().Format(time.RFC3339),
			p.Method,
			p.Path,
			p.StatusCode,
			p.Latency,
			requestID,
		)
	})
}
