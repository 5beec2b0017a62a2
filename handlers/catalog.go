package handlers

import (
	"net/http"

	"garagelink/middleware"
	"garagelink/services/catalog"

	"github.com/gin-gonic/gin"
)

// CatalogHandler manages a garage's published price list.
type CatalogHandler struct {
	Service catalog.CatalogService
}

func NewCatalogHandler(svc catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{Service: svc}
}

type serviceRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	DurationMins int     `json:"durationMins"`
}

func (r serviceRequest) input() catalog.ServiceInput {
	return catalog.ServiceInput{
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		DurationMins: r.DurationMins,
	}
}

// CreateServiceHandler adds an entry to the garage's price list.
func (h *CatalogHandler) CreateServiceHandler(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	created, err := h.Service.Create(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListServicesHandler returns a garage's price list. Public.
func (h *CatalogHandler) ListServicesHandler(c *gin.Context) {
	services, err := h.Service.ListByGarage(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services, "count": len(services)})
}

// UpdateServiceHandler edits a price-list entry.
func (h *CatalogHandler) UpdateServiceHandler(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updated, err := h.Service.Update(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"), c.Param("serviceId"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteServiceHandler removes a price-list entry.
func (h *CatalogHandler) DeleteServiceHandler(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"), c.Param("serviceId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service deleted"})
}
