package reviewRepo

import (
	"context"

	"garagelink/models"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	// Upsert creates the review, or updates the existing one for the same
	// (customer, garage) pair. The unique compound index backs the at-most-one
	// invariant. On return, review reflects the persisted document.
	Upsert(ctx context.Context, review *models.Review) (created bool, err error)
	GetByID(ctx context.Context, id string) (*models.Review, error)
	Update(ctx context.Context, id string, rating int, comment string) error
	Delete(ctx context.Context, id string) error
	ListByGarage(ctx context.Context, garageID string) ([]models.Review, error)
}
