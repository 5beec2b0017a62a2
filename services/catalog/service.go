// Package catalog manages garage price lists.
package catalog

import (
	"context"

	catalogRepo "garagelink/database/repository/catalog"
	garageRepo "garagelink/database/repository/garage"
	"garagelink/models"
	"garagelink/services/apperr"

	"github.com/google/uuid"
)

// ServiceInput carries the price-list entry payload.
type ServiceInput struct {
	Name         string
	Description  string
	Price        float64
	DurationMins int
}

// CatalogService manages the services a garage offers.
type CatalogService interface {
	Create(ctx context.Context, ownerID, garageID string, in ServiceInput) (*models.Service, error)
	ListByGarage(ctx context.Context, garageID string) ([]models.Service, error)
	Update(ctx context.Context, ownerID, garageID, serviceID string, in ServiceInput) (*models.Service, error)
	Delete(ctx context.Context, ownerID, garageID, serviceID string) error
}

// DefaultCatalogService implements CatalogService.
type DefaultCatalogService struct {
	Repo    catalogRepo.CatalogRepository
	Garages garageRepo.GarageRepository
}

func (s *DefaultCatalogService) ownedGarage(ctx context.Context, ownerID, garageID string) error {
	garage, err := s.Garages.GetByID(ctx, garageID)
	if err != nil {
		return err
	}
	if garage.OwnerID != ownerID {
		return apperr.Wrap(apperr.ErrForbidden, "garage %s belongs to another owner", garageID)
	}
	return nil
}

func validateServiceInput(in ServiceInput) error {
	if in.Name == "" {
		return apperr.Wrap(apperr.ErrValidation, "name is required")
	}
	if in.Price < 0 {
		return apperr.Wrap(apperr.ErrValidation, "price must be non-negative")
	}
	return nil
}

func (s *DefaultCatalogService) Create(ctx context.Context, ownerID, garageID string, in ServiceInput) (*models.Service, error) {
	if err := s.ownedGarage(ctx, ownerID, garageID); err != nil {
		return nil, err
	}
	if err := validateServiceInput(in); err != nil {
		return nil, err
	}
	service := &models.Service{
		ID:           uuid.New().String(),
		GarageID:     garageID,
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		DurationMins: in.DurationMins,
	}
	if err := s.Repo.Create(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *DefaultCatalogService) ListByGarage(ctx context.Context, garageID string) ([]models.Service, error) {
	if _, err := s.Garages.GetByID(ctx, garageID); err != nil {
		return nil, err
	}
	return s.Repo.ListByGarage(ctx, garageID)
}

func (s *DefaultCatalogService) Update(ctx context.Context, ownerID, garageID, serviceID string, in ServiceInput) (*models.Service, error) {
	if err := s.ownedGarage(ctx, ownerID, garageID); err != nil {
		return nil, err
	}
	if err := validateServiceInput(in); err != nil {
		return nil, err
	}
	service, err := s.Repo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if service.GarageID != garageID {
		return nil, apperr.Wrap(apperr.ErrForbidden, "service %s belongs to another garage", serviceID)
	}
	service.Name = in.Name
	service.Description = in.Description
	service.Price = in.Price
	service.DurationMins = in.DurationMins
	if err := s.Repo.Update(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *DefaultCatalogService) Delete(ctx context.Context, ownerID, garageID, serviceID string) error {
	if err := s.ownedGarage(ctx, ownerID, garageID); err != nil {
		return err
	}
	service, err := s.Repo.GetByID(ctx, serviceID)
	if err != nil {
		return err
	}
	if service.GarageID != garageID {
		return apperr.Wrap(apperr.ErrForbidden, "service %s belongs to another garage", serviceID)
	}
	return s.Repo.Delete(ctx, serviceID)
}
