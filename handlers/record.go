package handlers

import (
	"net/http"

	"garagelink/middleware"
	"garagelink/models"
	"garagelink/services/record"

	"github.com/gin-gonic/gin"
)

// ServiceRecordHandler drives the OTP-gated service record lifecycle.
type ServiceRecordHandler struct {
	Service record.ServiceRecordService
}

func NewServiceRecordHandler(svc record.ServiceRecordService) *ServiceRecordHandler {
	return &ServiceRecordHandler{Service: svc}
}

// InitiateHandler opens a record and dispatches the consent code.
func (h *ServiceRecordHandler) InitiateHandler(c *gin.Context) {
	var req struct {
		CustomerPhone string  `json:"customerPhone" binding:"required"`
		Description   string  `json:"description" binding:"required"`
		Amount        float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.Service.Initiate(c.Request.Context(), c.GetString(middleware.CtxUserID), record.InitiateInput{
		CustomerPhone: req.CustomerPhone,
		Description:   req.Description,
		Amount:        req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// VerifyOTPHandler confirms the customer's consent code.
func (h *ServiceRecordHandler) VerifyOTPHandler(c *gin.Context) {
	var req struct {
		ServiceID string `json:"serviceId" binding:"required"`
		OTP       string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	breakdown, err := h.Service.VerifyCode(c.Request.Context(), c.GetString(middleware.CtxUserID), req.ServiceID, req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "code verified", "fees": breakdown})
}

// CompleteHandler finalizes a verified record with its payment method.
func (h *ServiceRecordHandler) CompleteHandler(c *gin.Context) {
	var req struct {
		ServiceID     string `json:"serviceId" binding:"required"`
		PaymentMethod string `json:"paymentMethod" binding:"required"`
		PaymentRef    string `json:"paymentRef"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.Service.Complete(c.Request.Context(), c.GetString(middleware.CtxUserID), req.ServiceID, record.CompleteInput{
		PaymentMethod: req.PaymentMethod,
		PaymentRef:    req.PaymentRef,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CancelHandler abandons a pending record.
func (h *ServiceRecordHandler) CancelHandler(c *gin.Context) {
	if err := h.Service.Cancel(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service record cancelled"})
}

// ListHandler returns the caller's service records: the garage's ledger for
// operators, the phone-matched history for customers.
func (h *ServiceRecordHandler) ListHandler(c *gin.Context) {
	var (
		records []models.ServiceRecord
		err     error
	)
	switch c.GetString(middleware.CtxUserRole) {
	case models.RoleGarage:
		records, err = h.Service.ListForGarage(c.Request.Context(), c.GetString(middleware.CtxUserID))
	default:
		user := c.MustGet(middleware.CtxUser).(*models.User)
		records, err = h.Service.ListForCustomer(c.Request.Context(), user.Phone)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}
