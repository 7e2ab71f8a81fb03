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

// ReportHandler maneja los endpoints de reportes generados.
type ReportHandler struct {
	logger  *zap.Logger
	reports repository.ReportRepository
}

func NewReportHandler(logger *zap.Logger, reports repository.ReportRepository) *ReportHandler {
	return &ReportHandler{logger: logger, reports: reports}
}

// Generate maneja POST /reports/generate.
func (h *ReportHandler) Generate(c *gin.Context) {
	var req struct {
		ProjectID string `json:"projectId"`
		Title     string `json:"title"`
		Kind      string `json:"kind"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid report request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	report := domain.Report{
		ID:          uuid.NewString(),
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Kind:        req.Kind,
		GeneratedAt: time.Now().UTC(),
	}
	if err := h.reports.Create(c.Request.Context(), report); err != nil {
		h.logger.Error("generate report failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate report"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": report})
}

// List maneja GET /reports.
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.reports.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list reports failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// Stats maneja GET /reports/stats.
func (h *ReportHandler) Stats(c *gin.Context) {
	stats, err := h.reports.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("report stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load report stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// Delete maneja DELETE /reports/:id.
func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.reports.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("delete report failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete report"})
		return
	}
	c.Status(http.StatusNoContent)
}
