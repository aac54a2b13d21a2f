package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/davidcw/studyhall-backend/internal/requestdata"
	"github.com/davidcw/studyhall-backend/internal/services"
	"github.com/davidcw/studyhall-backend/internal/types"
)

type MessageHandler struct {
	roomService services.RoomService
	postService services.PostService
}

func NewMessageHandler(roomService services.RoomService, postService services.PostService) *MessageHandler {
	return &MessageHandler{roomService: roomService, postService: postService}
}

// GetMessages returns the room's merged feed of posts and interventions,
// ordered by created_at. Fetching the feed doubles as the poll trigger for
// time-based rules, so quiet rooms still receive nudges.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	room, rd, ok := h.resolveRoom(c)
	if !ok {
		return
	}
	if err := h.roomService.RequireMember(c.Request.Context(), room.ID, rd.UserID); err != nil {
		respondServiceError(c, err)
		return
	}
	items, fired, err := h.postService.Feed(c.Request.Context(), room)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"fired": fired,
	})
}

func (h *MessageHandler) PostMessage(c *gin.Context) {
	room, rd, ok := h.resolveRoom(c)
	if !ok {
		return
	}
	if err := h.roomService.RequireMember(c.Request.Context(), room.ID, rd.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	post, fired, err := h.postService.CreatePost(c.Request.Context(), room, rd.UserID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"post":  post,
		"fired": fired,
	})
}

func (h *MessageHandler) resolveRoom(c *gin.Context) (*types.Room, *requestdata.RequestData, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, nil, false
	}
	code := c.Query("room")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room is required"})
		return nil, nil, false
	}
	room, err := h.roomService.GetByCode(c.Request.Context(), code)
	if err != nil {
		respondServiceError(c, err)
		return nil, nil, false
	}
	return room, rd, true
}
