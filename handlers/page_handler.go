package handlers

import (
	"rulesbot/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

type PageHandler struct {
	version string
}

func NewPageHandler(version string) *PageHandler {
	return &PageHandler{version: version}
}

func (h *PageHandler) Index(c *gin.Context) {
	templ.Handler(web.ChatPage(web.ChatPageData{Version: h.version})).ServeHTTP(c.Writer, c.Request)
}
