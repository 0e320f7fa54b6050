package handlers

import (
	"log"
	"net/http"
	"net/url"

	"rulesbot/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type ChatHandler struct {
	gameService *services.GameService
	asker       services.Asker
	hub         *services.Hub
	upgrader    websocket.Upgrader
	detailed    bool
}

// NewChatHandler accepts websocket connections from the same host, from
// clients that send no Origin, and from origins allowedOrigin accepts.
func NewChatHandler(gameService *services.GameService, asker services.Asker, hub *services.Hub, allowedOrigin func(string) bool, detailed bool) *ChatHandler {
	return &ChatHandler{
		gameService: gameService,
		asker:       asker,
		hub:         hub,
		detailed:    detailed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
					return true
				}
				return allowedOrigin != nil && allowedOrigin(origin)
			},
		},
	}
}

func (h *ChatHandler) Connect(c *gin.Context) {
	id, err := parseGameID(c)
	if err != nil {
		respondError(c, err, h.detailed)
		return
	}

	if _, err := h.gameService.GetGame(c.Request.Context(), id); err != nil {
		respondError(c, err, h.detailed)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		log.Printf("WebSocket upgrade failed for game %d: %v", id, err)
		return
	}

	h.hub.RegisterClient(conn, id, h.asker)
}
