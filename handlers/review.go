// handlers/review.go
package handlers

import (
	"net/http"

	"gatherly/models"
	"gatherly/services/review"

	"github.com/gin-gonic/gin"
)

// ReviewHandler exposes review endpoints.
type ReviewHandler struct {
	ReviewService review.ReviewService
}

// CreateHandler handles POST /api/reviews (user).
func (h *ReviewHandler) CreateHandler(c *gin.Context) {
	userID, ok := callerID(c, "userID")
	if !ok {
		return
	}
	var req models.ReviewCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	created, err := h.ReviewService.CreateReview(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListingReviewsHandler handles GET /api/listings/:id/reviews (public).
func (h *ReviewHandler) ListingReviewsHandler(c *gin.Context) {
	reviews, err := h.ReviewService.GetListingReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
