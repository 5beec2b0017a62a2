package recordRepo

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

// MongoServiceRecordRepo implements ServiceRecordRepository using MongoDB.
type MongoServiceRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceRecordRepo creates a new ServiceRecordRepository backed by
// the given database.
func NewMongoServiceRecordRepo(db *mongo.Database) ServiceRecordRepository {
	repo := &MongoServiceRecordRepo{coll: db.Collection("service_records")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to ensure service record indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoServiceRecordRepo) Create(ctx context.Context, record *models.ServiceRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to create service record: %w", err)
	}
	return nil
}

func (r *MongoServiceRecordRepo) GetByID(ctx context.Context, id string) (*models.ServiceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var record models.ServiceRecord
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "service record %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch service record %s: %w", id, err)
	}
	return &record, nil
}

func (r *MongoServiceRecordRepo) MarkCodeVerified(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{"id": id, "status": models.RecordStatusAwaitingCode}
	update := bson.M{
		"$set":   bson.M{"status": models.RecordStatusCodeVerified, "updatedAt": time.Now()},
		"$unset": bson.M{"otp": "", "otpExpiry": ""},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark record %s code-verified: %w", id, err)
	}
	return result.MatchedCount > 0, nil
}

func (r *MongoServiceRecordRepo) MarkCompleted(ctx context.Context, id, paymentMethod, paymentRef string, isReliable bool) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{"id": id, "status": models.RecordStatusCodeVerified}
	set := bson.M{
		"status":        models.RecordStatusCompleted,
		"paymentMethod": paymentMethod,
		"isReliable":    isReliable,
		"updatedAt":     time.Now(),
	}
	if paymentRef != "" {
		set["paymentRef"] = paymentRef
	}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to mark record %s completed: %w", id, err)
	}
	return result.MatchedCount > 0, nil
}

func (r *MongoServiceRecordRepo) MarkCancelled(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{"id": id, "status": bson.M{"$in": []string{
		models.RecordStatusAwaitingCode,
		models.RecordStatusCodeVerified,
	}}}
	update := bson.M{
		"$set":   bson.M{"status": models.RecordStatusCancelled, "updatedAt": time.Now()},
		"$unset": bson.M{"otp": "", "otpExpiry": ""},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark record %s cancelled: %w", id, err)
	}
	return result.MatchedCount > 0, nil
}

func (r *MongoServiceRecordRepo) ListByGarage(ctx context.Context, garageID string) ([]models.ServiceRecord, error) {
	return r.list(ctx, bson.M{"garageId": garageID})
}

func (r *MongoServiceRecordRepo) ListByPhone(ctx context.Context, phone string) ([]models.ServiceRecord, error) {
	return r.list(ctx, bson.M{"customerPhone": phone})
}

func (r *MongoServiceRecordRepo) list(ctx context.Context, filter bson.M) ([]models.ServiceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list service records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.ServiceRecord
	for cursor.Next(ctx) {
		var rec models.ServiceRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode service record: %w", err)
		}
		records = append(records, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return records, nil
}

func (r *MongoServiceRecordRepo) HasCompleted(ctx context.Context, garageID, phone string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{
		"garageId":      garageID,
		"customerPhone": phone,
		"status":        models.RecordStatusCompleted,
	}
	count, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count completed records: %w", err)
	}
	return count > 0, nil
}
