package models

import "time"

// User roles.
const (
	RoleCustomer = "customer"
	RoleGarage   = "garage"
)

// User is the minimal identity record bridging the external phone-auth
// provider to an internal account. Shadow accounts (created by the service
// record engine for unregistered customers) have no AuthUID until the phone
// holder signs in for real and claims them.
type User struct {
	ID        string    `bson:"id" json:"id"`
	AuthUID   string    `bson:"authUid,omitempty" json:"authUid,omitempty"`
	Phone     string    `bson:"phone" json:"phone"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsShadow reports whether the user was auto-created from a phone number
// and has not yet been claimed by a verified identity.
func (u *User) IsShadow() bool {
	return u.AuthUID == ""
}
