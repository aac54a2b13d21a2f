package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/davidcw/studyhall-backend/internal/handlers"
	"github.com/davidcw/studyhall-backend/internal/middleware"
	"github.com/davidcw/studyhall-backend/internal/utils"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	RoomHandler     *handlers.RoomHandler
	ActivityHandler *handlers.ActivityHandler
	MessageHandler  *handlers.MessageHandler
	AgentHandler    *handlers.AgentHandler
	SSEHandler      *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/api/auth/temp-login", cfg.AuthHandler.TempLogin)
	router.POST("/api/auth/refresh", cfg.AuthHandler.Refresh)

	// Protected
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/auth/logout", cfg.AuthHandler.Logout)

	protected.GET("/activities", cfg.ActivityHandler.List)

	protected.POST("/rooms", cfg.RoomHandler.Rooms)
	protected.GET("/rooms/:code", cfg.RoomHandler.GetRoom)
	protected.POST("/rooms/:code/start-activity", cfg.RoomHandler.StartActivity)

	protected.GET("/messages", cfg.MessageHandler.GetMessages)
	protected.POST("/messages", cfg.MessageHandler.PostMessage)

	protected.GET("/agents", cfg.AgentHandler.List)
	protected.POST("/agents/active", cfg.AgentHandler.SetActive)

	protected.GET("/sse/stream", cfg.SSEHandler.Stream)
	protected.POST("/sse/subscribe", cfg.SSEHandler.Subscribe)
	protected.POST("/sse/unsubscribe", cfg.SSEHandler.Unsubscribe)

	return router
}

func allowedOrigins() []string {
	raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", nil)
	if strings.TrimSpace(raw) == "" {
		return []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
