package garageRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"garagelink/models"
	"garagelink/services/apperr"
	"garagelink/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoGarageRepo implements GarageRepository using MongoDB.
type MongoGarageRepo struct {
	coll *mongo.Collection
}

// NewMongoGarageRepo creates a new GarageRepository backed by the given database.
func NewMongoGarageRepo(db *mongo.Database) GarageRepository {
	repo := &MongoGarageRepo{coll: db.Collection("garages")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to ensure garage indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoGarageRepo) Create(ctx context.Context, garage *models.Garage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	now := time.Now()
	garage.CreatedAt = now
	garage.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, garage); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Wrap(apperr.ErrConflict, "owner %s already has a garage profile", garage.OwnerID)
		}
		return fmt.Errorf("failed to create garage: %w", err)
	}
	return nil
}

func (r *MongoGarageRepo) GetByID(ctx context.Context, id string) (*models.Garage, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoGarageRepo) GetByOwnerID(ctx context.Context, ownerID string) (*models.Garage, error) {
	return r.findOne(ctx, bson.M{"ownerId": ownerID})
}

func (r *MongoGarageRepo) findOne(ctx context.Context, filter bson.M) (*models.Garage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var garage models.Garage
	if err := r.coll.FindOne(ctx, filter).Decode(&garage); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "garage not found")
		}
		return nil, fmt.Errorf("failed to fetch garage: %w", err)
	}
	return &garage, nil
}

// Update persists profile fields. Rating and totalReviews are deliberately
// excluded; SetRatingStats is their only write path.
func (r *MongoGarageRepo) Update(ctx context.Context, garage *models.Garage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	garage.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"name":         garage.Name,
		"phone":        garage.Phone,
		"address":      garage.Address,
		"city":         garage.City,
		"locationGeo":  garage.LocationGeo,
		"serviceTypes": garage.ServiceTypes,
		"bankDetails":  garage.BankDetails,
		"onboarded":    garage.Onboarded,
		"updatedAt":    garage.UpdatedAt,
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": garage.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update garage %s: %w", garage.ID, err)
	}
	if result.MatchedCount == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "garage %s not found", garage.ID)
	}
	return nil
}

// Nearby runs a $nearSphere query against the 2dsphere index on locationGeo.
// Only onboarded garages are returned.
func (r *MongoGarageRepo) Nearby(ctx context.Context, q NearbyQuery) ([]models.Garage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"onboarded": true,
		"locationGeo": bson.M{
			"$nearSphere": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{q.Longitude, q.Latitude},
				},
				"$maxDistance": q.RadiusKm * 1000,
			},
		},
	}
	if q.ServiceType != "" {
		filter["serviceTypes"] = bson.M{"$regex": q.ServiceType, "$options": "i"}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("nearby query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var garages []models.Garage
	for cursor.Next(ctx) {
		var g models.Garage
		if err := cursor.Decode(&g); err != nil {
			return nil, fmt.Errorf("failed to decode garage: %w", err)
		}
		garages = append(garages, g)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return garages, nil
}

func (r *MongoGarageRepo) SetRatingStats(ctx context.Context, id string, rating float64, totalReviews int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	update := bson.M{"$set": bson.M{
		"rating":       rating,
		"totalReviews": totalReviews,
		"updatedAt":    time.Now(),
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set rating stats for garage %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "garage %s not found", id)
	}
	return nil
}
