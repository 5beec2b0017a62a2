package handlers

import (
	"net/http"

	"garagelink/middleware"
	"garagelink/models"
	"garagelink/services/identity"

	"github.com/gin-gonic/gin"
)

// AuthHandler bridges verified phone identities to app sessions.
type AuthHandler struct {
	Identity identity.IdentityService
}

func NewAuthHandler(svc identity.IdentityService) *AuthHandler {
	return &AuthHandler{Identity: svc}
}

// BridgeHandler exchanges a provider ID token for an app session token,
// claiming or creating the user record as needed.
func (h *AuthHandler) BridgeHandler(c *gin.Context) {
	var req struct {
		IDToken string `json:"idToken" binding:"required"`
		Role    string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.Identity.Bridge(c.Request.Context(), req.IDToken, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MeHandler returns the authenticated user's profile.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	user := c.MustGet(middleware.CtxUser).(*models.User)
	c.JSON(http.StatusOK, user)
}

// UpdateMeHandler updates the authenticated user's profile.
func (h *AuthHandler) UpdateMeHandler(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.Identity.UpdateProfile(c.Request.Context(), c.GetString(middleware.CtxUserID), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
