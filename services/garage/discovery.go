package garage

import (
	"context"
	"encoding/json"
	"time"

	garageRepo "garagelink/database/repository/garage"
	"garagelink/models"
	"garagelink/services/apperr"
	"garagelink/utils"

	"go.uber.org/zap"
)

const nearbyCacheTTL = 30 * time.Second

// Nearby finds onboarded garages around a point, closest first, consulting
// the short-lived redis cache before the geo query.
func (s *DefaultGarageService) Nearby(ctx context.Context, in NearbyInput) ([]models.Garage, error) {
	if err := validLocation(in.Longitude, in.Latitude); err != nil {
		return nil, err
	}
	if in.RadiusKm <= 0 {
		in.RadiusKm = 10
	}

	key := nearbyCacheKey(in)
	if s.CacheClient != nil {
		if cached, err := s.CacheClient.Get(ctx, key).Result(); err == nil {
			var garages []models.Garage
			if err := json.Unmarshal([]byte(cached), &garages); err == nil {
				return garages, nil
			}
		}
	}

	garages, err := s.Repo.Nearby(ctx, garageRepo.NearbyQuery{
		Longitude:   in.Longitude,
		Latitude:    in.Latitude,
		RadiusKm:    in.RadiusKm,
		ServiceType: in.ServiceType,
	})
	if err != nil {
		return nil, err
	}
	if len(garages) == 0 {
		return nil, apperr.Wrap(apperr.ErrNotFound, "no garages found within %.0f km", in.RadiusKm)
	}

	if s.CacheClient != nil {
		if data, err := json.Marshal(garages); err == nil {
			if err := s.CacheClient.Set(ctx, key, data, nearbyCacheTTL).Err(); err != nil {
				utils.GetLogger().Warn("failed to cache nearby results", zap.Error(err))
			}
		}
	}
	return garages, nil
}
