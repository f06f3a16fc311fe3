// handlers/provider.go
package handlers

import (
	"net/http"

	"gatherly/models"
	"gatherly/services/provider"

	"github.com/gin-gonic/gin"
)

// ProviderHandler exposes provider account endpoints.
type ProviderHandler struct {
	ProviderService provider.ProviderService
}

// RegisterHandler handles POST /api/providers/register.
func (h *ProviderHandler) RegisterHandler(c *gin.Context) {
	var req models.Provider
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.ProviderService.RegisterProvider(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// LoginHandler handles POST /api/providers/login.
func (h *ProviderHandler) LoginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.ProviderService.AuthenticateProvider(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetPublicHandler handles GET /api/providers/id/:id (public profile).
func (h *ProviderHandler) GetPublicHandler(c *gin.Context) {
	prov, err := h.ProviderService.GetProviderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":           prov.ID,
		"businessName": prov.BusinessName,
		"about":        prov.About,
		"profileImage": prov.ProfileImage,
		"address":      prov.Address,
		"locationGeo":  prov.LocationGeo,
	})
}

// GetProfileHandler handles GET /api/providers/me.
func (h *ProviderHandler) GetProfileHandler(c *gin.Context) {
	providerID, ok := callerID(c, "providerID")
	if !ok {
		return
	}
	prov, err := h.ProviderService.GetProviderByID(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prov)
}

// UpdateProfileHandler handles PUT /api/providers/me.
func (h *ProviderHandler) UpdateProfileHandler(c *gin.Context) {
	providerID, ok := callerID(c, "providerID")
	if !ok {
		return
	}
	var req models.Provider
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	req.ID = providerID

	updated, err := h.ProviderService.UpdateProvider(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// UpdateFCMTokenHandler handles PUT /api/providers/me/fcm-token.
func (h *ProviderHandler) UpdateFCMTokenHandler(c *gin.Context) {
	providerID, ok := callerID(c, "providerID")
	if !ok {
		return
	}
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := h.ProviderService.UpdateFCMToken(c.Request.Context(), providerID, req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FCM token updated"})
}

// RevokeTokenHandler handles DELETE /api/providers/me/token.
func (h *ProviderHandler) RevokeTokenHandler(c *gin.Context) {
	providerID, ok := callerID(c, "providerID")
	if !ok {
		return
	}
	if err := h.ProviderService.RevokeToken(c.Request.Context(), providerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token revoked"})
}

// DeleteAccountHandler handles DELETE /api/providers/me.
func (h *ProviderHandler) DeleteAccountHandler(c *gin.Context) {
	providerID, ok := callerID(c, "providerID")
	if !ok {
		return
	}
	if err := h.ProviderService.DeleteProvider(c.Request.Context(), providerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
