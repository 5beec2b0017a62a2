package garageRepo

import (
	"context"

	"garagelink/models"
)

// NearbyQuery carries the discovery criteria.
type NearbyQuery struct {
	Longitude   float64
	Latitude    float64
	RadiusKm    float64
	ServiceType string
	Limit       int64
}

// GarageRepository defines persistence operations for garage profiles.
type GarageRepository interface {
	Create(ctx context.Context, garage *models.Garage) error
	GetByID(ctx context.Context, id string) (*models.Garage, error)
	GetByOwnerID(ctx context.Context, ownerID string) (*models.Garage, error)
	Update(ctx context.Context, garage *models.Garage) error
	Nearby(ctx context.Context, q NearbyQuery) ([]models.Garage, error)
	// SetRatingStats writes the aggregator-owned derived fields. No other
	// update path may touch rating or totalReviews.
	SetRatingStats(ctx context.Context, id string, rating float64, totalReviews int) error
}
