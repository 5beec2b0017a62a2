package models

import "time"

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// BankDetails carries the payout metadata collected at onboarding.
type BankDetails struct {
	AccountHolder string `bson:"accountHolder,omitempty" json:"accountHolder,omitempty"`
	AccountNumber string `bson:"accountNumber,omitempty" json:"accountNumber,omitempty"`
	BankCode      string `bson:"bankCode,omitempty" json:"bankCode,omitempty"`
	UPIHandle     string `bson:"upiHandle,omitempty" json:"upiHandle,omitempty"`
}

// Garage is a repair-shop profile.
//
// Rating and TotalReviews are derived fields owned exclusively by the review
// aggregator; nothing else may write them. They always equal the average and
// count of the garage's current review set.
type Garage struct {
	ID           string      `bson:"id" json:"id"`
	OwnerID      string      `bson:"ownerId" json:"ownerId"`
	Name         string      `bson:"name" json:"name"`
	Phone        string      `bson:"phone" json:"phone"`
	Address      string      `bson:"address,omitempty" json:"address,omitempty"`
	City         string      `bson:"city,omitempty" json:"city,omitempty"`
	LocationGeo  GeoPoint    `bson:"locationGeo" json:"locationGeo"`
	ServiceTypes []string    `bson:"serviceTypes,omitempty" json:"serviceTypes,omitempty"`
	BankDetails  BankDetails `bson:"bankDetails,omitzero" json:"bankDetails,omitzero"`
	Onboarded    bool        `bson:"onboarded" json:"onboarded"`
	Rating       float64     `bson:"rating" json:"rating"`
	TotalReviews int         `bson:"totalReviews" json:"totalReviews"`
	CreatedAt    time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time   `bson:"updatedAt" json:"updatedAt"`
}
