package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/requestdata"
	"github.com/davidcw/studyhall-backend/internal/services"
	"github.com/davidcw/studyhall-backend/internal/sse"
)

type SSEHandler struct {
	log         *logger.Logger
	hub         *sse.Hub
	roomService services.RoomService

	mu      sync.RWMutex
	clients map[uuid.UUID]*sse.Client // keyed by user id; one stream per user
}

func NewSSEHandler(log *logger.Logger, hub *sse.Hub, roomService services.RoomService) *SSEHandler {
	return &SSEHandler{
		log:         log.With("handler", "SSEHandler"),
		hub:         hub,
		roomService: roomService,
		clients:     make(map[uuid.UUID]*sse.Client),
	}
}

// Stream opens the long-lived event stream. An optional ?room=CODE query
// subscribes the client to that room's channel before the stream starts.
func (h *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	h.mu.Lock()
	if existing, ok := h.clients[rd.UserID]; ok {
		h.hub.CloseClient(existing)
		delete(h.clients, rd.UserID)
	}
	client := h.hub.NewClient(rd.UserID)
	h.clients[rd.UserID] = client
	h.mu.Unlock()

	if code := c.Query("room"); code != "" {
		room, err := h.roomService.GetByCode(c.Request.Context(), code)
		if err != nil {
			h.dropClient(rd.UserID, client)
			respondServiceError(c, err)
			return
		}
		if err := h.roomService.RequireMember(c.Request.Context(), room.ID, rd.UserID); err != nil {
			h.dropClient(rd.UserID, client)
			respondServiceError(c, err)
			return
		}
		h.hub.Subscribe(client, sse.RoomChannel(room.Code))
	}

	h.log.Info("SSE stream open", "user_id", rd.UserID)
	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.dropClient(rd.UserID, client)
}

func (h *SSEHandler) Subscribe(c *gin.Context) {
	client, code, ok := h.resolveSubscription(c)
	if !ok {
		return
	}
	h.hub.Subscribe(client, sse.RoomChannel(code))
	c.JSON(http.StatusOK, gin.H{"message": "subscribed", "channel": sse.RoomChannel(code)})
}

func (h *SSEHandler) Unsubscribe(c *gin.Context) {
	client, code, ok := h.resolveSubscription(c)
	if !ok {
		return
	}
	h.hub.Unsubscribe(client, sse.RoomChannel(code))
	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed", "channel": sse.RoomChannel(code)})
}

func (h *SSEHandler) resolveSubscription(c *gin.Context) (*sse.Client, string, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, "", false
	}

	var req struct {
		Room string `json:"room"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Room == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room is required"})
		return nil, "", false
	}

	room, err := h.roomService.GetByCode(c.Request.Context(), req.Room)
	if err != nil {
		respondServiceError(c, err)
		return nil, "", false
	}
	if err := h.roomService.RequireMember(c.Request.Context(), room.ID, rd.UserID); err != nil {
		respondServiceError(c, err)
		return nil, "", false
	}

	h.mu.RLock()
	client, exists := h.clients[rd.UserID]
	h.mu.RUnlock()
	if !exists {
		c.JSON(http.StatusConflict, gin.H{"error": "no active event stream"})
		return nil, "", false
	}
	return client, room.Code, true
}

func (h *SSEHandler) dropClient(userID uuid.UUID, client *sse.Client) {
	h.mu.Lock()
	if h.clients[userID] == client {
		delete(h.clients, userID)
	}
	h.mu.Unlock()
	h.hub.CloseClient(client)
}
