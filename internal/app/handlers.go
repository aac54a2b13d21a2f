package app

import (
	"github.com/davidcw/studyhall-backend/internal/handlers"
	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/sse"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Room     *handlers.RoomHandler
	Activity *handlers.ActivityHandler
	Message  *handlers.MessageHandler
	Agent    *handlers.AgentHandler
	SSE      *handlers.SSEHandler
}

func wireHandlers(log *logger.Logger, reposet Repos, serviceset Services, hub *sse.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:     handlers.NewAuthHandler(serviceset.Auth),
		Room:     handlers.NewRoomHandler(serviceset.Room, serviceset.Activity),
		Activity: handlers.NewActivityHandler(serviceset.Activity),
		Message:  handlers.NewMessageHandler(serviceset.Room, serviceset.Post),
		Agent:    handlers.NewAgentHandler(reposet.Agent),
		SSE:      handlers.NewSSEHandler(log, hub, serviceset.Room),
	}
}
