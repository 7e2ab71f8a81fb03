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

// BoqHandler mantiene dependencias para endpoints del bill of quantity.
type BoqHandler struct {
	logger *zap.Logger
	items  repository.BoqRepository
}

func NewBoqHandler(logger *zap.Logger, items repository.BoqRepository) *BoqHandler {
	return &BoqHandler{logger: logger, items: items}
}

type boqItemRequest struct {
	ItemNo        string  `json:"itemNo"`
	Description   string  `json:"description" binding:"required"`
	Unit          string  `json:"unit"`
	Quantity      float64 `json:"quantity"`
	MaterialRate  float64 `json:"materialRate"`
	LaborRate     float64 `json:"laborRate"`
	EquipmentRate float64 `json:"equipmentRate"`
}

// boqItemView agrega los montos derivados a la respuesta; nunca se
// persisten.
type boqItemView struct {
	domain.BoqItem
	TotalRate float64 `json:"totalRate"`
	Amount    float64 `json:"amount"`
}

func newBoqItemView(item domain.BoqItem) boqItemView {
	total, amount := rates.BoqLine(item.Quantity, item.MaterialRate, item.LaborRate, item.EquipmentRate)
	return boqItemView{BoqItem: item, TotalRate: total, Amount: amount}
}

// CreateForProject maneja POST /boq-items/project/:projectID.
func (h *BoqHandler) CreateForProject(c *gin.Context) {
	var req boqItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid boq item request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	item := domain.BoqItem{
		ID:            uuid.NewString(),
		ProjectID:     c.Param("projectID"),
		ItemNo:        req.ItemNo,
		Description:   req.Description,
		Unit:          req.Unit,
		Quantity:      req.Quantity,
		MaterialRate:  req.MaterialRate,
		LaborRate:     req.LaborRate,
		EquipmentRate: req.EquipmentRate,
		CreatedAt:     time.Now().UTC(),
	}
	if err := h.items.Create(c.Request.Context(), item); err != nil {
		h.logger.Error("create boq item failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create boq item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": newBoqItemView(item)})
}

// ListForProject maneja GET /boq-items/project/:projectID.
func (h *BoqHandler) ListForProject(c *gin.Context) {
	items, err := h.items.ListByProject(c.Request.Context(), c.Param("projectID"))
	if err != nil {
		h.logger.Error("list boq items failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list boq items"})
		return
	}
	views := make([]boqItemView, 0, len(items))
	for _, item := range items {
		views = append(views, newBoqItemView(item))
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

// Stats maneja GET /boq-items/stats.
func (h *BoqHandler) Stats(c *gin.Context) {
	stats, err := h.items.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("boq stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// Get maneja GET /boq-items/:id.
func (h *BoqHandler) Get(c *gin.Context) {
	item, err := h.items.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "boq item not found"})
			return
		}
		h.logger.Error("get boq item failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load boq item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": newBoqItemView(item)})
}

// Update maneja PUT /boq-items/:id.
func (h *BoqHandler) Update(c *gin.Context) {
	var req boqItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid boq item request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	item, err := h.items.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "boq item not found"})
			return
		}
		h.logger.Error("get boq item failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load boq item"})
		return
	}

	item.ItemNo = req.ItemNo
	item.Description = req.Description
	item.Unit = req.Unit
	item.Quantity = req.Quantity
	item.MaterialRate = req.MaterialRate
	item.LaborRate = req.LaborRate
	item.EquipmentRate = req.EquipmentRate
	if err := h.items.Update(c.Request.Context(), item); err != nil {
		h.logger.Error("update boq item failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update boq item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": newBoqItemView(item)})
}

// Delete maneja DELETE /boq-items/:id.
func (h *BoqHandler) Delete(c *gin.Context) {
	if err := h.items.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("delete boq item failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete boq item"})
		return
	}
	c.Status(http.StatusNoContent)
}
