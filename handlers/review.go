package handlers

import (
	"net/http"

	"garagelink/middleware"
	"garagelink/services/review"

	"github.com/gin-gonic/gin"
)

// ReviewHandler exposes review mutations and listings.
type ReviewHandler struct {
	Service review.ReviewService
}

func NewReviewHandler(svc review.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: svc}
}

// CreateReviewHandler creates or replaces the caller's review of a garage.
func (h *ReviewHandler) CreateReviewHandler(c *gin.Context) {
	var req struct {
		GarageID string `json:"garageId" binding:"required"`
		Rating   int    `json:"rating" binding:"required"`
		Comment  string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.Service.Create(c.Request.Context(), c.GetString(middleware.CtxUserID), review.ReviewInput{
		GarageID: req.GarageID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if result.Created {
		c.JSON(http.StatusCreated, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateReviewHandler edits the caller's own review.
func (h *ReviewHandler) UpdateReviewHandler(c *gin.Context) {
	var req struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updated, err := h.Service.Update(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteReviewHandler removes the caller's own review.
func (h *ReviewHandler) DeleteReviewHandler(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}

// ListGarageReviewsHandler returns all reviews for a garage.
func (h *ReviewHandler) ListGarageReviewsHandler(c *gin.Context) {
	reviews, err := h.Service.ListByGarage(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}
