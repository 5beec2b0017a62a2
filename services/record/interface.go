// Package record implements the service record engine: the state machine
// governing OTP-gated, in-person transactions between garages and customers
// identified by phone number.
package record

import (
	"context"

	"garagelink/models"
)

// InitiateInput is the validated request to open a service record.
type InitiateInput struct {
	CustomerPhone string
	Description   string
	Amount        float64
}

// InitiateResult is returned to the garage operator after a record is opened.
type InitiateResult struct {
	ServiceID string `json:"serviceId"`
	OTPSent   bool   `json:"otpSent"`
	// DevOTP echoes the raw code in non-production testing configuration
	// only; it is empty otherwise.
	DevOTP string `json:"devOtp,omitempty"`
}

// FeeBreakdown is the fixed financial split computed at initiation.
type FeeBreakdown struct {
	Amount         float64 `json:"amount"`
	PlatformFee    float64 `json:"platformFee"`
	GarageEarnings float64 `json:"garageEarnings"`
}

// CompleteInput finalizes a code-verified record.
type CompleteInput struct {
	PaymentMethod string
	PaymentRef    string
}

// CompleteResult is the immutable financial snapshot plus the outcome of the
// best-effort side effects.
type CompleteResult struct {
	Record           *models.ServiceRecord `json:"record"`
	NotificationSent bool                  `json:"notificationSent"`
	CustomerLinked   bool                  `json:"customerLinked"`
}

// ServiceRecordService drives the record lifecycle on behalf of an
// authenticated garage operator.
type ServiceRecordService interface {
	Initiate(ctx context.Context, operatorID string, in InitiateInput) (*InitiateResult, error)
	VerifyCode(ctx context.Context, operatorID, recordID, code string) (*FeeBreakdown, error)
	Complete(ctx context.Context, operatorID, recordID string, in CompleteInput) (*CompleteResult, error)
	Cancel(ctx context.Context, operatorID, recordID string) error
	ListForGarage(ctx context.Context, operatorID string) ([]models.ServiceRecord, error)
	ListForCustomer(ctx context.Context, phone string) ([]models.ServiceRecord, error)
}
