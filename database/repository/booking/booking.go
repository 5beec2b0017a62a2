package bookingRepo

import (
	"context"

	"garagelink/models"
)

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	ListByGarage(ctx context.Context, garageID string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
