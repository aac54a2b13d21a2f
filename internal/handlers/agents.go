package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/davidcw/studyhall-backend/internal/pkg/dbctx"
	"github.com/davidcw/studyhall-backend/internal/repos"
	"github.com/davidcw/studyhall-backend/internal/requestdata"
	"github.com/davidcw/studyhall-backend/internal/types"
)

// AgentHandler exposes the facilitator controls for the intervention
// agents: listing them and muting/unmuting an agent role.
type AgentHandler struct {
	agents repos.AgentRepo
}

func NewAgentHandler(agents repos.AgentRepo) *AgentHandler {
	return &AgentHandler{agents: agents}
}

func (h *AgentHandler) List(c *gin.Context) {
	if !requireFacilitator(c) {
		return
	}
	rows, err := h.agents.List(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, a := range rows {
		out = append(out, gin.H{
			"role_key":  a.RoleKey,
			"name":      a.Name,
			"is_active": a.IsActive,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *AgentHandler) SetActive(c *gin.Context) {
	if !requireFacilitator(c) {
		return
	}
	var req struct {
		RoleKey  string `json:"role_key"`
		IsActive *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RoleKey == "" || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role_key and is_active are required"})
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	agent, err := h.agents.GetByRoleKey(dbc, req.RoleKey)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if agent == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown agent role"})
		return
	}
	if err := h.agents.SetActive(dbc, req.RoleKey, *req.IsActive); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role_key": req.RoleKey, "is_active": *req.IsActive})
}

func requireFacilitator(c *gin.Context) bool {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return false
	}
	if rd.Role != types.RoleFacilitator {
		c.JSON(http.StatusForbidden, gin.H{"error": "facilitator role required"})
		return false
	}
	return true
}
