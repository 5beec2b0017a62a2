package userRepo

import (
	"context"

	"garagelink/models"
)

// UserRepository defines persistence operations for user identities.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByAuthUID(ctx context.Context, authUID, role string) (*models.User, error)
	GetByPhoneAndRole(ctx context.Context, phone, role string) (*models.User, error)
	// Claim links a shadow user to a verified external identity. It only
	// matches users that still have no authUid.
	Claim(ctx context.Context, id, authUID string) error
	UpdateProfile(ctx context.Context, id string, name string) error
}
