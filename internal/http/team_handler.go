package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"estimapp/internal/domain"
	"estimapp/internal/repository"
)

// TeamHandler maneja los endpoints del equipo de trabajo.
type TeamHandler struct {
	logger *zap.Logger
	team   repository.TeamRepository
}

func NewTeamHandler(logger *zap.Logger, team repository.TeamRepository) *TeamHandler {
	return &TeamHandler{logger: logger, team: team}
}

// Add maneja POST /team.
func (h *TeamHandler) Add(c *gin.Context) {
	var req struct {
		Email     string      `json:"email"`
		FirstName string      `json:"firstName"`
		LastName  string      `json:"lastName"`
		Role      domain.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid team member request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email required"})
		return
	}

	member := domain.TeamMember{
		ID:        uuid.NewString(),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.team.Add(c.Request.Context(), member); err != nil {
		h.logger.Error("add team member failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add team member"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// List maneja GET /team.
func (h *TeamHandler) List(c *gin.Context) {
	members, err := h.team.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list team failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list team"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// Remove maneja DELETE /team/:id.
func (h *TeamHandler) Remove(c *gin.Context) {
	if err := h.team.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("remove team member failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove team member"})
		return
	}
	c.Status(http.StatusNoContent)
}
