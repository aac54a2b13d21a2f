package app

import (
	"github.com/gin-gonic/gin"

	"github.com/davidcw/studyhall-backend/internal/server"
)

func wireRouter(handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:     handlerset.Auth,
		AuthMiddleware:  middlewareset.Auth,
		RoomHandler:     handlerset.Room,
		ActivityHandler: handlerset.Activity,
		MessageHandler:  handlerset.Message,
		AgentHandler:    handlerset.Agent,
		SSEHandler:      handlerset.SSE,
	})
}
