package models

import "time"

// Review is one customer's rating of one garage. At most one review exists
// per (customer, garage) pair; a repeat create upserts the existing one.
type Review struct {
	ID         string    `bson:"id" json:"id"`
	GarageID   string    `bson:"garageId" json:"garageId"`
	CustomerID string    `bson:"customerId" json:"customerId"`
	Rating     int       `bson:"rating" json:"rating"` // Expected value between 1 and 5.
	Comment    string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}
