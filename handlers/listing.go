// handlers/listing.go
package handlers

import (
	"net/http"
	"strconv"

	"gatherly/models"
	"gatherly/services/listing"

	"github.com/gin-gonic/gin"
)

// ListingHandler exposes listing CRUD and search endpoints.
type ListingHandler struct {
	ListingService listing.ListingService
}

// CreateHandler handles POST /api/listings (provider).
func (h *ListingHandler) CreateHandler(c *gin.Context) {
	providerID, ok := callerID(c, "providerID")
	if !ok {
		return
	}
	var req models.Listing
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	created, err := h.ListingService.CreateListing(c.Request.Context(), providerID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetHandler handles GET /api/listings/:id (public).
func (h *ListingHandler) GetHandler(c *gin.Context) {
	l, err := h.ListingService.GetListingByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, l)
}

// ListMineHandler handles GET /api/listings/mine/all (provider).
func (h *ListingHandler) ListMineHandler(c *gin.Context) {
	providerID, ok := callerID(c, "providerID")
	if !ok {
		return
	}
	listings, err := h.ListingService.GetProviderListings(c.Request.Context(), providerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

// SearchHandler handles GET /api/listings/search (public).
func (h *ListingHandler) SearchHandler(c *gin.Context) {
	filter := models.ListingFilter{
		Kind:     c.Query("kind"),
		Category: c.Query("category"),
		Text:     c.Query("q"),
	}
	filter.MinPrice, _ = strconv.ParseFloat(c.Query("minPrice"), 64)
	filter.MaxPrice, _ = strconv.ParseFloat(c.Query("maxPrice"), 64)
	filter.Page, _ = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	filter.PageSize, _ = strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	if lngStr, latStr := c.Query("lng"), c.Query("lat"); lngStr != "" && latStr != "" {
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		lat, latErr := strconv.ParseFloat(latStr, 64)
		if lngErr == nil && latErr == nil {
			maxMeters, _ := strconv.ParseFloat(c.DefaultQuery("radius", "10000"), 64)
			filter.Near = &models.GeoNear{Lng: lng, Lat: lat, MaxMeters: maxMeters}
		}
	}

	listings, err := h.ListingService.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

// UpdateHandler handles PUT /api/listings/:id (provider).
func (h *ListingHandler) UpdateHandler(c *gin.Context) {
	providerID, ok := callerID(c, "providerID")
	if !ok {
		return
	}
	var req models.Listing
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	req.ID = c.Param("id")

	updated, err := h.ListingService.UpdateListing(c.Request.Context(), providerID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// UpdateScheduleHandler handles PUT /api/listings/:id/schedule (provider).
// Existing bookings are grandfathered; the response reports how many future
// bookings no longer fit.
func (h *ListingHandler) UpdateScheduleHandler(c *gin.Context) {
	providerID, ok := callerID(c, "providerID")
	if !ok {
		return
	}
	var req struct {
		WorkingSchedule     []models.ScheduleWindow `json:"workingSchedule" binding:"required"`
		BookingDurationType string                  `json:"bookingDurationType"`
		BookingDuration     int                     `json:"bookingDuration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	orphaned, err := h.ListingService.UpdateSchedule(c.Request.Context(), providerID, c.Param("id"),
		req.WorkingSchedule, req.BookingDurationType, req.BookingDuration)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":          "Schedule updated",
		"orphanedBookings": orphaned,
	})
}

// DeleteHandler handles DELETE /api/listings/:id (provider).
func (h *ListingHandler) DeleteHandler(c *gin.Context) {
	providerID, ok := callerID(c, "providerID")
	if !ok {
		return
	}
	if err := h.ListingService.DeleteListing(c.Request.Context(), providerID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted"})
}
