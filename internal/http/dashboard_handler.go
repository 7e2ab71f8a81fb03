package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"estimapp/internal/repository"
)

// DashboardHandler arma los contadores compuestos del tablero a partir de
// los repositorios de cada recurso.
type DashboardHandler struct {
	logger   *zap.Logger
	projects repository.ProjectRepository
	boq      repository.BoqRepository
	team     repository.TeamRepository
	reports  repository.ReportRepository
}

func NewDashboardHandler(
	logger *zap.Logger,
	projects repository.ProjectRepository,
	boq repository.BoqRepository,
	team repository.TeamRepository,
	reports repository.ReportRepository,
) *DashboardHandler {
	return &DashboardHandler{
		logger:   logger,
		projects: projects,
		boq:      boq,
		team:     team,
		reports:  reports,
	}
}

// Stats maneja GET /dashboard/stats.
func (h *DashboardHandler) Stats(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth claims"})
		return
	}
	ctx := c.Request.Context()

	projectCount, err := h.projects.Count(ctx, claims.UserID)
	if err != nil {
		h.logger.Error("dashboard project count failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dashboard stats"})
		return
	}
	boqStats, err := h.boq.Stats(ctx)
	if err != nil {
		h.logger.Error("dashboard boq stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dashboard stats"})
		return
	}
	teamCount, err := h.team.CountMembers(ctx)
	if err != nil {
		h.logger.Error("dashboard team count failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dashboard stats"})
		return
	}
	reportStats, err := h.reports.Stats(ctx)
	if err != nil {
		h.logger.Error("dashboard report stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dashboard stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalProjects":    projectCount,
		"totalEstimations": boqStats.TotalEstimations,
		"teamMembers":      teamCount,
		"reports":          reportStats.TotalReports,
	})
}

// Monthly maneja GET /dashboard/monthly.
func (h *DashboardHandler) Monthly(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth claims"})
		return
	}
	months, err := h.projects.Monthly(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("dashboard monthly failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load monthly stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": months})
}
