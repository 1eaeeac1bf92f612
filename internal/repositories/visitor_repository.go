package repositories

import (
	"context"

	"github.com/kjiyu/devlog/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VisitorRepository defines the interface for the singleton visit counter
type VisitorRepository interface {
	Find(ctx context.Context) (*models.Visitor, error)
	IncrementViews(ctx context.Context) (*models.Visitor, error)
	EnsureSeed(ctx context.Context) error
}

// MongoVisitorRepository implements VisitorRepository for MongoDB
type MongoVisitorRepository struct {
	collection *mongo.Collection
}

// NewMongoVisitorRepository creates a new MongoVisitorRepository
func NewMongoVisitorRepository(db *mongo.Database) *MongoVisitorRepository {
	return &MongoVisitorRepository{collection: db.Collection("visitors")}
}

// Find retrieves the singleton counter document
func (r *MongoVisitorRepository) Find(ctx context.Context) (*models.Visitor, error) {
	var visitor models.Visitor
	err := r.collection.FindOne(ctx, bson.D{}).Decode(&visitor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &visitor, nil
}

// IncrementViews bumps the counter with a targeted $inc and returns the
// updated document. Concurrent visits never lose an increment.
func (r *MongoVisitorRepository) IncrementViews(ctx context.Context) (*models.Visitor, error) {
	var visitor models.Visitor
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.D{}, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&visitor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &visitor, nil
}

// EnsureSeed upserts the singleton so a fresh database starts at zero.
// Called once at bootstrap, never from request handling.
func (r *MongoVisitorRepository) EnsureSeed(ctx context.Context) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.D{}, bson.M{"$setOnInsert": bson.M{"views": 0}}, opts)
	return err
}
