// handlers/helpers.go
package handlers

import (
	"errors"
	"net/http"

	bookingRepo "gatherly/database/repository/booking"
	"gatherly/services/availability"
	"gatherly/services/booking"
	"gatherly/services/chat"
	"gatherly/services/provider"
	"gatherly/services/review"
	"gatherly/services/user"
	"gatherly/utils"

	"github.com/gin-gonic/gin"
)

// callerID reads the account id the auth middleware stored in the context.
func callerID(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return id, true
}

// respondError maps service errors onto HTTP statuses. Validation failures
// keep their stable code so clients can render translated messages.
func respondError(c *gin.Context, err error) {
	var verr *availability.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.JSONErrorCode(c, http.StatusUnprocessableEntity, verr.Code, verr.Message)
	case errors.Is(err, bookingRepo.ErrSlotTaken):
		utils.JSONErrorCode(c, http.StatusConflict, availability.CodeSlotTaken, "the requested range is already booked")
	case errors.Is(err, booking.ErrForbidden),
		errors.Is(err, chat.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, review.ErrAlreadyReviewed),
		errors.Is(err, review.ErrBookingNotCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrSessionExpired),
		errors.Is(err, booking.ErrNotQuoted):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, provider.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		var dupUser user.DuplicateEmailError
		var dupProv provider.DuplicateEmailError
		if errors.As(err, &dupUser) || errors.As(err, &dupProv) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
