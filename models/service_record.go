package models

import "time"

// Service record lifecycle states. Transitions are monotonic:
// awaiting-code -> code-verified -> completed, with cancelled reachable
// from any non-completed state.
const (
	RecordStatusAwaitingCode = "awaiting-code"
	RecordStatusCodeVerified = "code-verified"
	RecordStatusCompleted    = "completed"
	RecordStatusCancelled    = "cancelled"
)

// Payment methods recorded on completion.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
)

// ServiceRecord is one in-person transaction between a garage and a customer
// identified only by phone number. Amount, PlatformFee and GarageEarnings are
// fixed at creation and never recomputed; records are never deleted.
type ServiceRecord struct {
	ID             string     `bson:"id" json:"id"`
	GarageID       string     `bson:"garageId" json:"garageId"`
	GarageName     string     `bson:"garageName" json:"garageName"` // snapshot at creation
	CustomerPhone  string     `bson:"customerPhone" json:"customerPhone"`
	Description    string     `bson:"description" json:"description"`
	Amount         float64    `bson:"amount" json:"amount"`
	PlatformFee    float64    `bson:"platformFee" json:"platformFee"`
	GarageEarnings float64    `bson:"garageEarnings" json:"garageEarnings"`
	PaymentMethod  string     `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	Status         string     `bson:"status" json:"status"`
	IsReliable     bool       `bson:"isReliable" json:"isReliable"`
	OTP            string     `bson:"otp,omitempty" json:"-"`
	OTPExpiry      *time.Time `bson:"otpExpiry,omitempty" json:"-"`
	PaymentRef     string     `bson:"paymentRef,omitempty" json:"paymentRef,omitempty"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt"`
}
