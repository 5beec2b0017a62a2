package garage

import (
	"context"
	"fmt"

	garageRepo "garagelink/database/repository/garage"
	"garagelink/models"
	"garagelink/services/apperr"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// DefaultGarageService implements GarageService.
type DefaultGarageService struct {
	Repo        garageRepo.GarageRepository
	CacheClient *redis.Client
}

func validLocation(lng, lat float64) error {
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return apperr.Wrap(apperr.ErrValidation, "invalid coordinates (%v, %v)", lng, lat)
	}
	if lng == 0 && lat == 0 {
		return apperr.Wrap(apperr.ErrValidation, "location is required")
	}
	return nil
}

func (s *DefaultGarageService) Register(ctx context.Context, ownerID string, in RegisterInput) (*models.Garage, error) {
	if in.Name == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "name is required")
	}
	if in.Phone == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "phone is required")
	}
	if err := validLocation(in.Longitude, in.Latitude); err != nil {
		return nil, err
	}

	garage := &models.Garage{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
		Name:    in.Name,
		Phone:   in.Phone,
		Address: in.Address,
		City:    in.City,
		LocationGeo: models.GeoPoint{
			Type:        "Point",
			Coordinates: []float64{in.Longitude, in.Latitude},
		},
		ServiceTypes: in.ServiceTypes,
		BankDetails:  in.BankDetails,
		Onboarded:    true,
	}
	if err := s.Repo.Create(ctx, garage); err != nil {
		return nil, err
	}
	return garage, nil
}

func (s *DefaultGarageService) GetByID(ctx context.Context, id string) (*models.Garage, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultGarageService) GetByOwner(ctx context.Context, ownerID string) (*models.Garage, error) {
	return s.Repo.GetByOwnerID(ctx, ownerID)
}

func (s *DefaultGarageService) Update(ctx context.Context, ownerID, garageID string, in UpdateInput) (*models.Garage, error) {
	garage, err := s.Repo.GetByID(ctx, garageID)
	if err != nil {
		return nil, err
	}
	if garage.OwnerID != ownerID {
		return nil, apperr.Wrap(apperr.ErrForbidden, "garage %s belongs to another owner", garageID)
	}

	if in.Name != nil {
		garage.Name = *in.Name
	}
	if in.Phone != nil {
		garage.Phone = *in.Phone
	}
	if in.Address != nil {
		garage.Address = *in.Address
	}
	if in.City != nil {
		garage.City = *in.City
	}
	if in.Longitude != nil && in.Latitude != nil {
		if err := validLocation(*in.Longitude, *in.Latitude); err != nil {
			return nil, err
		}
		garage.LocationGeo = models.GeoPoint{
			Type:        "Point",
			Coordinates: []float64{*in.Longitude, *in.Latitude},
		}
	}
	if in.ServiceTypes != nil {
		garage.ServiceTypes = in.ServiceTypes
	}
	if in.BankDetails != nil {
		garage.BankDetails = *in.BankDetails
	}

	if err := s.Repo.Update(ctx, garage); err != nil {
		return nil, err
	}
	return garage, nil
}

func nearbyCacheKey(in NearbyInput) string {
	// Coordinates rounded to ~100m so close-by callers share an entry.
	return fmt.Sprintf("nearby:%.3f:%.3f:%.0f:%s", in.Longitude, in.Latitude, in.RadiusKm, in.ServiceType)
}
