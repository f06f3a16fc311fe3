// handlers/promotion.go
package handlers

import (
	"net/http"

	"gatherly/models"
	"gatherly/services/promotion"

	"github.com/gin-gonic/gin"
)

// PromotionHandler exposes hot deal endpoints for providers.
type PromotionHandler struct {
	PromotionService promotion.PromotionService
}

// CreateHandler handles POST /api/promotions (provider).
func (h *PromotionHandler) CreateHandler(c *gin.Context) {
	providerID, ok := callerID(c, "providerID")
	if !ok {
		return
	}
	var req models.PromotionCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	created, err := h.PromotionService.CreatePromotion(c.Request.Context(), providerID, req)
	if err != nil {
		if err == promotion.ErrActiveDealExists {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListMineHandler handles GET /api/promotions/mine (provider).
func (h *PromotionHandler) ListMineHandler(c *gin.Context) {
	providerID, ok := callerID(c, "providerID")
	if !ok {
		return
	}
	promos, err := h.PromotionService.GetProviderPromotions(c.Request.Context(), providerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, promos)
}

// CancelHandler handles DELETE /api/promotions/:id (provider).
func (h *PromotionHandler) CancelHandler(c *gin.Context) {
	providerID, ok := callerID(c, "providerID")
	if !ok {
		return
	}
	if err := h.PromotionService.CancelPromotion(c.Request.Context(), providerID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promotion cancelled"})
}
