package handlers

import (
	"net/http"
	"time"

	"garagelink/middleware"
	"garagelink/models"
	"garagelink/services/booking"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes appointment scheduling endpoints.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// CreateBookingHandler schedules an appointment at a garage.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req struct {
		GarageID    string    `json:"garageId" binding:"required"`
		ServiceID   string    `json:"serviceId"`
		ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
		Notes       string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	created, err := h.Service.Create(c.Request.Context(), c.GetString(middleware.CtxUserID), booking.CreateInput{
		GarageID:    req.GarageID,
		ServiceID:   req.ServiceID,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListBookingsHandler returns the caller's bookings, scoped by role.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	var (
		bookings []models.Booking
		err      error
	)
	switch c.GetString(middleware.CtxUserRole) {
	case models.RoleGarage:
		bookings, err = h.Service.ListForGarageOwner(c.Request.Context(), c.GetString(middleware.CtxUserID))
	default:
		bookings, err = h.Service.ListForCustomer(c.Request.Context(), c.GetString(middleware.CtxUserID))
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// UpdateBookingStatusHandler moves a booking through its lifecycle.
func (h *BookingHandler) UpdateBookingStatusHandler(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updated, err := h.Service.UpdateStatus(
		c.Request.Context(),
		c.GetString(middleware.CtxUserID),
		c.GetString(middleware.CtxUserRole),
		c.Param("id"),
		req.Status,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
