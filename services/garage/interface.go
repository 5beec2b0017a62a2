// Package garage manages repair-shop profiles and geolocation discovery.
package garage

import (
	"context"

	"garagelink/models"
)

// RegisterInput carries the onboarding payload.
type RegisterInput struct {
	Name         string
	Phone        string
	Address      string
	City         string
	Longitude    float64
	Latitude     float64
	ServiceTypes []string
	BankDetails  models.BankDetails
}

// UpdateInput carries optional profile changes; nil fields are left untouched.
type UpdateInput struct {
	Name         *string
	Phone        *string
	Address      *string
	City         *string
	Longitude    *float64
	Latitude     *float64
	ServiceTypes []string
	BankDetails  *models.BankDetails
}

// NearbyInput carries the discovery criteria.
type NearbyInput struct {
	Longitude   float64
	Latitude    float64
	RadiusKm    float64
	ServiceType string
}

// GarageService manages garage profiles.
type GarageService interface {
	Register(ctx context.Context, ownerID string, in RegisterInput) (*models.Garage, error)
	GetByID(ctx context.Context, id string) (*models.Garage, error)
	GetByOwner(ctx context.Context, ownerID string) (*models.Garage, error)
	Update(ctx context.Context, ownerID, garageID string, in UpdateInput) (*models.Garage, error)
	Nearby(ctx context.Context, in NearbyInput) ([]models.Garage, error)
}
