// handlers/booking.go
package handlers

import (
	"net/http"
	"time"

	"gatherly/models"
	"gatherly/services/booking"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the calendar, the draft session flow, and direct
// booking endpoints.
type BookingHandler struct {
	BookingService booking.BookingService
	SessionService booking.BookingSessionService
}

// parseRange reads from/to query params as RFC3339 timestamps.
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing 'from' (RFC3339)"})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing 'to' (RFC3339)"})
		return time.Time{}, time.Time{}, false
	}
	if !from.Before(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be before 'to'"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// CalendarHandler handles GET /api/listings/:id/calendar (public).
func (h *BookingHandler) CalendarHandler(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	view, err := h.BookingService.Calendar(c.Request.Context(), c.Param("id"), from, to, c.DefaultQuery("granularity", "month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListingBookingsHandler handles GET /api/listings/:id/bookings (provider).
func (h *BookingHandler) ListingBookingsHandler(c *gin.Context) {
	if _, ok := callerID(c, "providerID"); !ok {
		return
	}
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	bookings, err := h.BookingService.GetListingBookings(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CreateHandler handles POST /api/bookings (user).
func (h *BookingHandler) CreateHandler(c *gin.Context) {
	userID, ok := callerID(c, "userID")
	if !ok {
		return
	}
	var req models.BookingCreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	b, err := h.BookingService.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// UpdateStatusHandler handles PUT /api/bookings/:id/status for both roles.
func (h *BookingHandler) UpdateStatusHandler(c *gin.Context) {
	var req models.BookingStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var caller, role string
	if id, exists := c.Get("userID"); exists {
		caller, role = id.(string), "user"
	} else if id, exists := c.Get("providerID"); exists {
		caller, role = id.(string), "provider"
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.BookingService.UpdateStatus(c.Request.Context(), caller, role, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// MyBookingsHandler handles GET /api/bookings/mine (user).
func (h *BookingHandler) MyBookingsHandler(c *gin.Context) {
	userID, ok := callerID(c, "userID")
	if !ok {
		return
	}
	bookings, err := h.BookingService.GetUserBookings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ProviderBookingsHandler handles GET /api/bookings/provider.
func (h *BookingHandler) ProviderBookingsHandler(c *gin.Context) {
	providerID, ok := callerID(c, "providerID")
	if !ok {
		return
	}
	bookings, err := h.BookingService.GetProviderBookings(c.Request.Context(), providerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CreateBlockHandler handles POST /api/listings/:id/blocks (provider).
func (h *BookingHandler) CreateBlockHandler(c *gin.Context) {
	providerID, ok := callerID(c, "providerID")
	if !ok {
		return
	}
	var req struct {
		Start time.Time `json:"start" binding:"required"`
		End   time.Time `json:"end" binding:"required"`
		Note  string    `json:"note,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	block, err := h.BookingService.CreateBlock(c.Request.Context(), providerID, c.Param("id"), req.Start, req.End, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

// --- Draft session flow ---

// StartSessionHandler handles POST /api/bookings/session (user).
func (h *BookingHandler) StartSessionHandler(c *gin.Context) {
	userID, ok := callerID(c, "userID")
	if !ok {
		return
	}
	var req struct {
		ListingID   string    `json:"listingId" binding:"required"`
		From        time.Time `json:"from" binding:"required"`
		To          time.Time `json:"to" binding:"required"`
		Granularity string    `json:"granularity,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	sessionID, view, err := h.SessionService.InitiateSession(c.Request.Context(), userID, req.ListingID, req.From, req.To, req.Granularity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "calendar": view})
}

// QuoteSessionHandler handles PUT /api/bookings/session/:sessionID (user).
func (h *BookingHandler) QuoteSessionHandler(c *gin.Context) {
	userID, ok := callerID(c, "userID")
	if !ok {
		return
	}
	var req struct {
		Start      time.Time `json:"start" binding:"required"`
		End        time.Time `json:"end" binding:"required"`
		PlanName   string    `json:"planName,omitempty"`
		AddonNames []string  `json:"addonNames,omitempty"`
		Note       string    `json:"note,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	quote, err := h.SessionService.QuoteSession(c.Request.Context(), userID, c.Param("sessionID"), req.Start, req.End, req.PlanName, req.AddonNames, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// ConfirmSessionHandler handles POST /api/bookings/session/:sessionID/confirm (user).
func (h *BookingHandler) ConfirmSessionHandler(c *gin.Context) {
	userID, ok := callerID(c, "userID")
	if !ok {
		return
	}
	var req struct {
		PaymentMethodID string `json:"paymentMethodId,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	b, err := h.SessionService.ConfirmSession(c.Request.Context(), userID, c.Param("sessionID"), req.PaymentMethodID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// CancelSessionHandler handles DELETE /api/bookings/session/:sessionID (user).
func (h *BookingHandler) CancelSessionHandler(c *gin.Context) {
	userID, ok := callerID(c, "userID")
	if !ok {
		return
	}
	if err := h.SessionService.CancelSession(c.Request.Context(), userID, c.Param("sessionID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session cancelled"})
}
