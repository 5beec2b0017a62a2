package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	userRepo "garagelink/database/repository/user"
	"garagelink/models"
	"garagelink/services/apperr"
	"garagelink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTokenTTL = 72 * time.Hour

// DefaultIdentityService implements IdentityService.
type DefaultIdentityService struct {
	Repo     userRepo.UserRepository
	Verifier TokenVerifier
	TokenTTL time.Duration
}

func (s *DefaultIdentityService) tokenTTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return defaultTokenTTL
}

func (s *DefaultIdentityService) Bridge(ctx context.Context, idToken, role string) (*BridgeResult, error) {
	if role != models.RoleCustomer && role != models.RoleGarage {
		return nil, apperr.Wrap(apperr.ErrValidation, "role must be %q or %q", models.RoleCustomer, models.RoleGarage)
	}
	if idToken == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "idToken is required")
	}

	uid, phone, err := s.Verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrForbidden, "identity verification failed")
	}
	if phone == "" {
		return nil, apperr.Wrap(apperr.ErrForbidden, "verified identity carries no phone number")
	}

	user, claimed, err := s.resolveUser(ctx, uid, phone, role)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, user.Phone, user.Role, s.tokenTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	return &BridgeResult{User: user, Token: token, Claimed: claimed}, nil
}

func (s *DefaultIdentityService) resolveUser(ctx context.Context, uid, phone, role string) (*models.User, bool, error) {
	user, err := s.Repo.GetByAuthUID(ctx, uid, role)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, false, err
	}

	// No account under this identity yet. A shadow customer record created by
	// the service record engine may be waiting to be claimed.
	existing, err := s.Repo.GetByPhoneAndRole(ctx, phone, role)
	if err == nil {
		if !existing.IsShadow() {
			return nil, false, apperr.Wrap(apperr.ErrConflict, "phone %s is already registered under a different identity", phone)
		}
		if err := s.Repo.Claim(ctx, existing.ID, uid); err != nil {
			return nil, false, err
		}
		existing.AuthUID = uid
		utils.GetLogger().Info("shadow account claimed",
			zap.String("userId", existing.ID), zap.String("phone", phone))
		return existing, true, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, false, err
	}

	user = &models.User{
		ID:      uuid.New().String(),
		AuthUID: uid,
		Phone:   phone,
		Role:    role,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, false, nil
}

func (s *DefaultIdentityService) EnsureShadowCustomer(ctx context.Context, phone string) (bool, error) {
	_, err := s.Repo.GetByPhoneAndRole(ctx, phone, models.RoleCustomer)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return false, err
	}

	shadow := &models.User{
		ID:    uuid.New().String(),
		Phone: phone,
		Role:  models.RoleCustomer,
	}
	if err := s.Repo.Create(ctx, shadow); err != nil {
		// A concurrent Complete may have created it; that still satisfies us.
		if errors.Is(err, apperr.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *DefaultIdentityService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultIdentityService) UpdateProfile(ctx context.Context, id, name string) (*models.User, error) {
	if name == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "name is required")
	}
	if err := s.Repo.UpdateProfile(ctx, id, name); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, id)
}
