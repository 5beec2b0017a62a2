package models

import "time"

// Service is one entry in a garage's price list.
type Service struct {
	ID           string    `bson:"id" json:"id"`
	GarageID     string    `bson:"garageId" json:"garageId"`
	Name         string    `bson:"name" json:"name"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	Price        float64   `bson:"price" json:"price"`
	DurationMins int       `bson:"durationMins,omitempty" json:"durationMins,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
