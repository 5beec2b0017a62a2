// Package review manages customer reviews and keeps each garage's cached
// rating aggregate exactly consistent with its review set.
package review

import (
	"context"

	"garagelink/models"
)

// ReviewInput is the validated payload for creating or updating a review.
type ReviewInput struct {
	GarageID string
	Rating   int
	Comment  string
}

// CreateResult reports whether the write created a new review or updated the
// customer's existing one for the garage.
type CreateResult struct {
	Review  *models.Review `json:"review"`
	Created bool           `json:"created"`
}

// ReviewService exposes review mutations. Every mutation recomputes the
// garage's rating aggregate before returning.
type ReviewService interface {
	Create(ctx context.Context, customerID string, in ReviewInput) (*CreateResult, error)
	Update(ctx context.Context, customerID, reviewID string, rating int, comment string) (*models.Review, error)
	Delete(ctx context.Context, customerID, reviewID string) error
	ListByGarage(ctx context.Context, garageID string) ([]models.Review, error)
}
