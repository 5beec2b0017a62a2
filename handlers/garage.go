package handlers

import (
	"net/http"
	"strconv"

	"garagelink/middleware"
	"garagelink/models"
	"garagelink/services/garage"

	"github.com/gin-gonic/gin"
)

// GarageHandler exposes garage profile and discovery endpoints.
type GarageHandler struct {
	Service garage.GarageService
}

func NewGarageHandler(svc garage.GarageService) *GarageHandler {
	return &GarageHandler{Service: svc}
}

// RegisterGarageHandler onboards the caller's garage profile.
func (h *GarageHandler) RegisterGarageHandler(c *gin.Context) {
	var req struct {
		Name         string             `json:"name" binding:"required"`
		Phone        string             `json:"phone" binding:"required"`
		Address      string             `json:"address"`
		City         string             `json:"city"`
		Longitude    float64            `json:"longitude" binding:"required"`
		Latitude     float64            `json:"latitude" binding:"required"`
		ServiceTypes []string           `json:"serviceTypes"`
		BankDetails  models.BankDetails `json:"bankDetails"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	created, err := h.Service.Register(c.Request.Context(), c.GetString(middleware.CtxUserID), garage.RegisterInput{
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		Longitude:    req.Longitude,
		Latitude:     req.Latitude,
		ServiceTypes: req.ServiceTypes,
		BankDetails:  req.BankDetails,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetGarageByIDHandler returns one garage profile.
func (h *GarageHandler) GetGarageByIDHandler(c *gin.Context) {
	g, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// UpdateGarageHandler updates the caller's garage profile.
func (h *GarageHandler) UpdateGarageHandler(c *gin.Context) {
	var req struct {
		Name         *string             `json:"name"`
		Phone        *string             `json:"phone"`
		Address      *string             `json:"address"`
		City         *string             `json:"city"`
		Longitude    *float64            `json:"longitude"`
		Latitude     *float64            `json:"latitude"`
		ServiceTypes []string            `json:"serviceTypes"`
		BankDetails  *models.BankDetails `json:"bankDetails"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updated, err := h.Service.Update(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"), garage.UpdateInput{
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		Longitude:    req.Longitude,
		Latitude:     req.Latitude,
		ServiceTypes: req.ServiceTypes,
		BankDetails:  req.BankDetails,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// NearbyGaragesHandler finds onboarded garages around a point.
func (h *GarageHandler) NearbyGaragesHandler(c *gin.Context) {
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lng query parameter is required"})
		return
	}
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat query parameter is required"})
		return
	}
	radiusKm, _ := strconv.ParseFloat(c.DefaultQuery("radiusKm", "10"), 64)

	garages, err := h.Service.Nearby(c.Request.Context(), garage.NearbyInput{
		Longitude:   lng,
		Latitude:    lat,
		RadiusKm:    radiusKm,
		ServiceType: c.Query("serviceType"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"garages": garages, "count": len(garages)})
}
