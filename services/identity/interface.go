// Package identity bridges externally-verified phone identities to internal
// user records. Verification itself happens at the identity provider; this
// package only consumes the verified (subject id, phone) pair.
package identity

import (
	"context"

	"garagelink/models"
)

// TokenVerifier abstracts the external identity provider's token check.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (uid string, phone string, err error)
}

// BridgeResult carries the bridged account and its session token.
type BridgeResult struct {
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
	Claimed bool         `json:"claimed"` // a shadow account was linked during this bridge
}

// IdentityService maps verified phone identities to user records.
type IdentityService interface {
	// Bridge resolves the ID token to a user with the requested role,
	// claiming a shadow account or creating a fresh one as needed, and
	// issues an app session token.
	Bridge(ctx context.Context, idToken, role string) (*BridgeResult, error)
	// EnsureShadowCustomer creates a phone-only customer account when none
	// exists, so the phone holder has a history to claim later.
	EnsureShadowCustomer(ctx context.Context, phone string) (created bool, err error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, name string) (*models.User, error)
}
