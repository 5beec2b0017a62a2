// Package booking handles scheduled appointments between registered
// customers and garages. Bookings are independent of service records.
package booking

import (
	"context"
	"time"

	bookingRepo "garagelink/database/repository/booking"
	garageRepo "garagelink/database/repository/garage"
	"garagelink/models"
	"garagelink/services/apperr"

	"github.com/google/uuid"
)

// CreateInput carries the booking request payload.
type CreateInput struct {
	GarageID    string
	ServiceID   string
	ScheduledAt time.Time
	Notes       string
}

// BookingService manages appointment scheduling.
type BookingService interface {
	Create(ctx context.Context, customerID string, in CreateInput) (*models.Booking, error)
	ListForCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	ListForGarageOwner(ctx context.Context, ownerID string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, callerID, callerRole, bookingID, status string) (*models.Booking, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo    bookingRepo.BookingRepository
	Garages garageRepo.GarageRepository
}

func (s *DefaultBookingService) Create(ctx context.Context, customerID string, in CreateInput) (*models.Booking, error) {
	if in.GarageID == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "garageId is required")
	}
	if in.ScheduledAt.IsZero() {
		return nil, apperr.Wrap(apperr.ErrValidation, "scheduledAt is required")
	}
	if in.ScheduledAt.Before(time.Now()) {
		return nil, apperr.Wrap(apperr.ErrValidation, "scheduledAt must be in the future")
	}
	garage, err := s.Garages.GetByID(ctx, in.GarageID)
	if err != nil {
		return nil, err
	}
	if !garage.Onboarded {
		return nil, apperr.Wrap(apperr.ErrInvalidState, "garage %s is not accepting bookings", in.GarageID)
	}

	booking := &models.Booking{
		ID:          uuid.New().String(),
		GarageID:    in.GarageID,
		CustomerID:  customerID,
		ServiceID:   in.ServiceID,
		Notes:       in.Notes,
		ScheduledAt: in.ScheduledAt,
		Status:      models.BookingStatusPending,
	}
	if err := s.Repo.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *DefaultBookingService) ListForCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return s.Repo.ListByCustomer(ctx, customerID)
}

func (s *DefaultBookingService) ListForGarageOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	garage, err := s.Garages.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByGarage(ctx, garage.ID)
}

// allowedTransitions maps a current status to the statuses it may move to.
var allowedTransitions = map[string][]string{
	models.BookingStatusPending:  {models.BookingStatusAccepted, models.BookingStatusCancelled},
	models.BookingStatusAccepted: {models.BookingStatusCompleted, models.BookingStatusCancelled},
}

func transitionAllowed(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *DefaultBookingService) UpdateStatus(ctx context.Context, callerID, callerRole, bookingID, status string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch callerRole {
	case models.RoleCustomer:
		if booking.CustomerID != callerID {
			return nil, apperr.Wrap(apperr.ErrForbidden, "booking %s belongs to another customer", bookingID)
		}
		// Customers may only withdraw their own booking.
		if status != models.BookingStatusCancelled {
			return nil, apperr.Wrap(apperr.ErrForbidden, "customers may only cancel bookings")
		}
	case models.RoleGarage:
		garage, err := s.Garages.GetByOwnerID(ctx, callerID)
		if err != nil {
			return nil, err
		}
		if booking.GarageID != garage.ID {
			return nil, apperr.Wrap(apperr.ErrForbidden, "booking %s belongs to another garage", bookingID)
		}
	default:
		return nil, apperr.Wrap(apperr.ErrForbidden, "unknown role %q", callerRole)
	}

	if !transitionAllowed(booking.Status, status) {
		return nil, apperr.Wrap(apperr.ErrInvalidState, "booking %s cannot move from %s to %s", bookingID, booking.Status, status)
	}
	if err := s.Repo.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	booking.Status = status
	return booking, nil
}
