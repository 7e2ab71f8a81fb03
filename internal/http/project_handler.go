package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"estimapp/internal/domain"
	"estimapp/internal/repository"
)

// ProjectHandler mantiene dependencias para endpoints de proyectos.
type ProjectHandler struct {
	logger   *zap.Logger
	projects repository.ProjectRepository
}

func NewProjectHandler(logger *zap.Logger, projects repository.ProjectRepository) *ProjectHandler {
	return &ProjectHandler{logger: logger, projects: projects}
}

type projectRequest struct {
	Name       string  `json:"name" binding:"required"`
	Client     string  `json:"client"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"status"`
	Completion int     `json:"completion"`
}

// Create maneja POST /projects.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid project request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	status := domain.ProjectStatus(req.Status)
	if status == "" {
		status = domain.StatusPlanning
	}
	now := time.Now().UTC()
	project := domain.Project{
		ID:         uuid.NewString(),
		OwnerID:    claims.UserID,
		Name:       req.Name,
		Client:     req.Client,
		Amount:     req.Amount,
		Status:     status,
		Completion: req.Completion,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.projects.Create(c.Request.Context(), project); err != nil {
		h.logger.Error("create project failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create project"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// My maneja GET /projects/my.
func (h *ProjectHandler) My(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	projects, err := h.projects.ListByOwner(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list projects failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Recent maneja GET /projects/recent?limit=N.
func (h *ProjectHandler) Recent(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	projects, err := h.projects.ListRecent(c.Request.Context(), claims.UserID, limit)
	if err != nil {
		h.logger.Error("recent projects failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Count maneja GET /projects/count.
func (h *ProjectHandler) Count(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	n, err := h.projects.Count(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("count projects failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not count projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// Stats maneja GET /projects/stats.
func (h *ProjectHandler) Stats(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	stats, err := h.projects.Stats(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("project stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// Monthly maneja GET /projects/monthly.
func (h *ProjectHandler) Monthly(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	months, err := h.projects.Monthly(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("monthly projects failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load monthly data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": months})
}

// Get maneja GET /projects/:id.
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projects.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("get project failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// Update maneja PUT /projects/:id.
func (h *ProjectHandler) Update(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid project request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	project, err := h.projects.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("get project failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load project"})
		return
	}

	project.Name = req.Name
	project.Client = req.Client
	project.Amount = req.Amount
	if req.Status != "" {
		project.Status = domain.ProjectStatus(req.Status)
	}
	project.Completion = req.Completion
	if err := h.projects.Update(c.Request.Context(), project); err != nil {
		h.logger.Error("update project failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// Delete maneja DELETE /projects/:id.
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("delete project failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete project"})
		return
	}
	c.Status(http.StatusNoContent)
}
