package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/davidcw/studyhall-backend/internal/requestdata"
	"github.com/davidcw/studyhall-backend/internal/services"
	"github.com/davidcw/studyhall-backend/internal/types"
)

type RoomHandler struct {
	roomService     services.RoomService
	activityService services.ActivityService
}

func NewRoomHandler(roomService services.RoomService, activityService services.ActivityService) *RoomHandler {
	return &RoomHandler{roomService: roomService, activityService: activityService}
}

// Rooms handles the single action-dispatch endpoint the web client uses:
// {"action":"create","name":...} or {"action":"join","code":...}.
func (h *RoomHandler) Rooms(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		Action string `json:"action"`
		Name   string `json:"name"`
		Code   string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	switch strings.TrimSpace(req.Action) {
	case "create":
		room, err := h.roomService.CreateRoom(c.Request.Context(), req.Name, rd.UserID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, roomPayload(room))
	case "join":
		if strings.TrimSpace(req.Code) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
			return
		}
		room, err := h.roomService.JoinRoom(c.Request.Context(), req.Code, rd.UserID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, roomPayload(room))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action"})
	}
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	room, err := h.roomService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	members, err := h.roomService.Members(c.Request.Context(), room.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	phase, err := h.activityService.CurrentPhase(c.Request.Context(), room)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	memberPayload := make([]gin.H, 0, len(members))
	for _, m := range members {
		memberPayload = append(memberPayload, gin.H{
			"user_id":      m.UserID,
			"display_name": m.DisplayName,
			"joined_at":    m.JoinedAt,
		})
	}
	payload := roomPayload(room)
	payload["members"] = memberPayload
	payload["current_phase_index"] = phase
	c.JSON(http.StatusOK, payload)
}

func (h *RoomHandler) StartActivity(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if rd.Role != types.RoleFacilitator {
		c.JSON(http.StatusForbidden, gin.H{"error": "only facilitators can start activities"})
		return
	}

	var req struct {
		ActivitySlug string `json:"activity_slug"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	room, err := h.roomService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.roomService.RequireMember(c.Request.Context(), room.ID, rd.UserID); err != nil {
		respondServiceError(c, err)
		return
	}
	room, err = h.activityService.Start(c.Request.Context(), room, req.ActivitySlug)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, roomPayload(room))
}

func roomPayload(room *types.Room) gin.H {
	return gin.H{
		"code":                room.Code,
		"name":                room.Name,
		"activity_id":         room.ActivityID,
		"activity_started_at": room.ActivityStartedAt,
		"activity_run_id":     room.ActivityRunID,
	}
}
