package repositories

import (
	"context"
	"fmt"

	"github.com/kjiyu/devlog/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByName(ctx context.Context, name string) (*models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	AddPost(ctx context.Context, categoryID, postID string) error
	RemovePost(ctx context.Context, postID string) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

// MongoCategoryRepository implements CategoryRepository for MongoDB
type MongoCategoryRepository struct {
	collection *mongo.Collection
}

// NewMongoCategoryRepository creates a new MongoCategoryRepository
func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{collection: db.Collection("categories")}
}

// Create inserts a new category with an initialized post list
func (r *MongoCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	category.ID = primitive.NewObjectID()
	if category.Posts == nil {
		category.Posts = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, category)
	return err
}

// FindByName retrieves a category by exact name. No normalization or
// trimming: "Tech" and "tech" are distinct categories.
func (r *MongoCategoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.collection.FindOne(ctx, bson.M{"category_name": name}).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindByID retrieves a category by ID
func (r *MongoCategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var category models.Category
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAll retrieves every category
func (r *MongoCategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// AddPost appends a post reference to the category's list. $addToSet keeps
// the step idempotent under retry.
func (r *MongoCategoryRepository) AddPost(ctx context.Context, categoryID, postID string) error {
	objID, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, categoryID)
	}
	postObjID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, postID)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$addToSet": bson.M{"posts": postObjID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemovePost pulls a post reference out of whichever category holds it and
// returns the category as it stands after the removal, so the caller can
// decide on garbage collection from the durable post-write state.
func (r *MongoCategoryRepository) RemovePost(ctx context.Context, postID string) (*models.Category, error) {
	postObjID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, postID)
	}

	var category models.Category
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"posts": postObjID},
		bson.M{"$pull": bson.M{"posts": postObjID}},
		opts,
	).Decode(&category)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Delete removes a category by ID
func (r *MongoCategoryRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	return err
}
