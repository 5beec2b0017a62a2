package models

import "time"

// Booking statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusAccepted  = "accepted"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking is a scheduled appointment between a registered customer and a
// garage. Bookings and service records are parallel, independent transaction
// types; the service record engine never touches bookings.
type Booking struct {
	ID          string    `bson:"id" json:"id"`
	GarageID    string    `bson:"garageId" json:"garageId"`
	CustomerID  string    `bson:"customerId" json:"customerId"`
	ServiceID   string    `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	Notes       string    `bson:"notes,omitempty" json:"notes,omitempty"`
	ScheduledAt time.Time `bson:"scheduledAt" json:"scheduledAt"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
