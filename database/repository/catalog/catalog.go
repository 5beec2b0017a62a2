package catalogRepo

import (
	"context"

	"garagelink/models"
)

// CatalogRepository defines persistence operations for garage price lists.
type CatalogRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id string) (*models.Service, error)
	ListByGarage(ctx context.Context, garageID string) ([]models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id string) error
}
