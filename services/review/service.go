package review

import (
	"context"
	"errors"

	garageRepo "garagelink/database/repository/garage"
	recordRepo "garagelink/database/repository/record"
	reviewRepo "garagelink/database/repository/review"
	userRepo "garagelink/database/repository/user"
	"garagelink/models"
	"garagelink/services/apperr"

	"github.com/google/uuid"
)

// DefaultReviewService implements ReviewService.
type DefaultReviewService struct {
	Reviews reviewRepo.ReviewRepository
	Garages garageRepo.GarageRepository
	Records recordRepo.ServiceRecordRepository
	Users   userRepo.UserRepository

	locks keyedMutex
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apperr.Wrap(apperr.ErrValidation, "rating must be between 1 and 5, got %d", rating)
	}
	return nil
}

func (s *DefaultReviewService) Create(ctx context.Context, customerID string, in ReviewInput) (*CreateResult, error) {
	if in.GarageID == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "garageId is required")
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}

	customer, err := s.Users.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Garages.GetByID(ctx, in.GarageID); err != nil {
		return nil, err
	}

	// Proof of service: at least one completed record with this garage.
	eligible, err := s.Records.HasCompleted(ctx, in.GarageID, customer.Phone)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, apperr.Wrap(apperr.ErrForbidden, "no completed service with garage %s", in.GarageID)
	}

	rev := &models.Review{
		ID:         uuid.New().String(),
		GarageID:   in.GarageID,
		CustomerID: customerID,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}

	// Per-garage serialization keeps the recompute consistent; different
	// garages proceed in parallel.
	unlock := s.locks.lock(in.GarageID)
	defer unlock()

	created, err := s.Reviews.Upsert(ctx, rev)
	if err != nil {
		return nil, err
	}
	if err := s.recomputeRating(ctx, in.GarageID); err != nil {
		return nil, err
	}
	return &CreateResult{Review: rev, Created: created}, nil
}

func (s *DefaultReviewService) Update(ctx context.Context, customerID, reviewID string, rating int, comment string) (*models.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	rev, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rev.CustomerID != customerID {
		return nil, apperr.Wrap(apperr.ErrForbidden, "review %s belongs to another customer", reviewID)
	}

	unlock := s.locks.lock(rev.GarageID)
	defer unlock()

	if err := s.Reviews.Update(ctx, reviewID, rating, comment); err != nil {
		return nil, err
	}
	if err := s.recomputeRating(ctx, rev.GarageID); err != nil {
		return nil, err
	}
	return s.Reviews.GetByID(ctx, reviewID)
}

func (s *DefaultReviewService) Delete(ctx context.Context, customerID, reviewID string) error {
	rev, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if rev.CustomerID != customerID {
		return apperr.Wrap(apperr.ErrForbidden, "review %s belongs to another customer", reviewID)
	}

	unlock := s.locks.lock(rev.GarageID)
	defer unlock()

	if err := s.Reviews.Delete(ctx, reviewID); err != nil {
		// A concurrent delete still requires the aggregate to settle.
		if errors.Is(err, apperr.ErrNotFound) {
			if recErr := s.recomputeRating(ctx, rev.GarageID); recErr != nil {
				return recErr
			}
		}
		return err
	}
	return s.recomputeRating(ctx, rev.GarageID)
}

func (s *DefaultReviewService) ListByGarage(ctx context.Context, garageID string) ([]models.Review, error) {
	return s.Reviews.ListByGarage(ctx, garageID)
}
