package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"estimapp/internal/domain"
	"estimapp/internal/rates"
	"estimapp/internal/repository"
)

// RateAnalysisHandler mantiene dependencias para endpoints de analisis de
// precios unitarios.
type RateAnalysisHandler struct {
	logger   *zap.Logger
	analyses repository.RateAnalysisRepository
}

func NewRateAnalysisHandler(logger *zap.Logger, analyses repository.RateAnalysisRepository) *RateAnalysisHandler {
	return &RateAnalysisHandler{logger: logger, analyses: analyses}
}

type rateAnalysisRequest struct {
	ProjectID       string  `json:"projectId"`
	BoqItemNo       string  `json:"boqItemNo"`
	Description     string  `json:"description"`
	MaterialCost    float64 `json:"materialCost"`
	LaborCost       float64 `json:"laborCost"`
	EquipmentCost   float64 `json:"equipmentCost"`
	OverheadPercent float64 `json:"overheadPercent"`
	ProfitPercent   float64 `json:"profitPercent"`
}

// rateAnalysisView expone los insumos junto con el desglose derivado,
// recalculado en cada respuesta.
type rateAnalysisView struct {
	domain.RateAnalysis
	rates.CostBreakdown
}

func newRateAnalysisView(a domain.RateAnalysis) rateAnalysisView {
	breakdown := rates.Aggregate(rates.CostInput{
		MaterialCost:    a.MaterialCost,
		LaborCost:       a.LaborCost,
		EquipmentCost:   a.EquipmentCost,
		OverheadPercent: a.OverheadPercent,
		ProfitPercent:   a.ProfitPercent,
	})
	return rateAnalysisView{RateAnalysis: a, CostBreakdown: breakdown}
}

// Create maneja POST /rate-analysis.
func (h *RateAnalysisHandler) Create(c *gin.Context) {
	var req rateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid rate analysis request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.ProjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectId required"})
		return
	}

	analysis := domain.RateAnalysis{
		ID:              uuid.NewString(),
		ProjectID:       req.ProjectID,
		BoqItemNo:       req.BoqItemNo,
		Description:     req.Description,
		MaterialCost:    req.MaterialCost,
		LaborCost:       req.LaborCost,
		EquipmentCost:   req.EquipmentCost,
		OverheadPercent: req.OverheadPercent,
		ProfitPercent:   req.ProfitPercent,
		CreatedAt:       time.Now().UTC(),
	}
	if err := h.analyses.Create(c.Request.Context(), analysis); err != nil {
		h.logger.Error("create rate analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create rate analysis"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"analysis": newRateAnalysisView(analysis)})
}

// ListForProject maneja GET /rate-analysis/project/:projectID.
func (h *RateAnalysisHandler) ListForProject(c *gin.Context) {
	analyses, err := h.analyses.ListByProject(c.Request.Context(), c.Param("projectID"))
	if err != nil {
		h.logger.Error("list rate analyses failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list rate analyses"})
		return
	}
	views := make([]rateAnalysisView, 0, len(analyses))
	for _, a := range analyses {
		views = append(views, newRateAnalysisView(a))
	}
	c.JSON(http.StatusOK, gin.H{"analyses": views})
}

// Get maneja GET /rate-analysis/:id.
func (h *RateAnalysisHandler) Get(c *gin.Context) {
	analysis, err := h.analyses.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rate analysis not found"})
			return
		}
		h.logger.Error("get rate analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load rate analysis"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": newRateAnalysisView(analysis)})
}

// Update maneja PUT /rate-analysis/:id.
func (h *RateAnalysisHandler) Update(c *gin.Context) {
	var req rateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid rate analysis request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	analysis, err := h.analyses.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rate analysis not found"})
			return
		}
		h.logger.Error("get rate analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load rate analysis"})
		return
	}

	analysis.BoqItemNo = req.BoqItemNo
	analysis.Description = req.Description
	analysis.MaterialCost = req.MaterialCost
	analysis.LaborCost = req.LaborCost
	analysis.EquipmentCost = req.EquipmentCost
	analysis.OverheadPercent = req.OverheadPercent
	analysis.ProfitPercent = req.ProfitPercent
	if err := h.analyses.Update(c.Request.Context(), analysis); err != nil {
		h.logger.Error("update rate analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update rate analysis"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": newRateAnalysisView(analysis)})
}

// Delete maneja DELETE /rate-analysis/:id.
func (h *RateAnalysisHandler) Delete(c *gin.Context) {
	if err := h.analyses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("delete rate analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete rate analysis"})
		return
	}
	c.Status(http.StatusNoContent)
}
