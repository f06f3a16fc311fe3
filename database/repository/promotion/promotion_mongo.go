package promotionRepo

import (
	"context"
	"fmt"
	"time"

	"gatherly/database"
	"gatherly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPromotionRepo implements PromotionRepository using MongoDB.
type MongoPromotionRepo struct {
	coll *mongo.Collection
}

// NewMongoPromotionRepo creates a new instance of PromotionRepository using MongoDB.
func NewMongoPromotionRepo() PromotionRepository {
	coll := database.DB().Collection("promotions")
	repo := &MongoPromotionRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoPromotionRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "listingId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "endsAt", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoPromotionRepo) Create(promotion *models.Promotion) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, promotion); err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}
	return nil
}

func (r *MongoPromotionRepo) GetByID(id string) (*models.Promotion, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var promotion models.Promotion
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&promotion); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch promotion with id %s: %w", id, err)
	}
	return &promotion, nil
}

func (r *MongoPromotionRepo) GetActiveByListing(listingID string) (*models.Promotion, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"listingId": listingID, "status": models.PromotionStatusActive}
	var promotion models.Promotion
	if err := r.coll.FindOne(ctx, filter).Decode(&promotion); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch active promotion for listing %s: %w", listingID, err)
	}
	return &promotion, nil
}

func (r *MongoPromotionRepo) GetByProviderID(providerID string) ([]models.Promotion, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"providerId": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch promotions for provider %s: %w", providerID, err)
	}
	var promotions []models.Promotion
	if err := cursor.All(ctx, &promotions); err != nil {
		return nil, fmt.Errorf("failed to decode promotions: %w", err)
	}
	return promotions, nil
}

func (r *MongoPromotionRepo) UpdateStatus(id, status string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to update promotion %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("promotion %s not found", id)
	}
	return nil
}

func (r *MongoPromotionRepo) ExpireElapsed(now time.Time) ([]models.Promotion, error) {
	return r.transitionAll(
		bson.M{"status": models.PromotionStatusActive, "endsAt": bson.M{"$lte": now}},
		models.PromotionStatusExpired, now)
}

func (r *MongoPromotionRepo) ActivateDue(now time.Time) ([]models.Promotion, error) {
	return r.transitionAll(
		bson.M{"status": models.PromotionStatusScheduled, "startsAt": bson.M{"$lte": now}, "endsAt": bson.M{"$gt": now}},
		models.PromotionStatusActive, now)
}

// transitionAll fetches the matching promotions, flips their status, and
// returns the affected documents with the new status applied.
func (r *MongoPromotionRepo) transitionAll(filter bson.M, status string, now time.Time) ([]models.Promotion, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch promotions to transition: %w", err)
	}
	var promotions []models.Promotion
	if err := cursor.All(ctx, &promotions); err != nil {
		return nil, fmt.Errorf("failed to decode promotions: %w", err)
	}
	if len(promotions) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(promotions))
	for i := range promotions {
		ids = append(ids, promotions[i].ID)
		promotions[i].Status = status
	}
	_, err = r.coll.UpdateMany(ctx, bson.M{"id": bson.M{"$in": ids}}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": now},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to transition promotions: %w", err)
	}
	return promotions, nil
}
