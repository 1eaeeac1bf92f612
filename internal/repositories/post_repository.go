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

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id string) (*models.Post, error)
	FindAll(ctx context.Context) ([]models.Post, error)
	FindByCategory(ctx context.Context, categoryID string) ([]models.Post, error)
	Update(ctx context.Context, id string, post *models.Post) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error)
	SetCategory(ctx context.Context, postID, categoryID string) error
	AddComment(ctx context.Context, postID, commentID string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// Create inserts a new post. Reference lists are always initialized so the
// set-mutation updates below never hit a missing field.
func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// FindByID retrieves a post by ID
func (r *MongoPostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// FindAll retrieves every post ordered by creation time descending
func (r *MongoPostRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.D{})
}

// FindByCategory retrieves the posts of one category, newest first
func (r *MongoPostRepository) FindByCategory(ctx context.Context, categoryID string) ([]models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, categoryID)
	}
	return r.find(ctx, bson.M{"category": objID})
}

func (r *MongoPostRepository) find(ctx context.Context, filter interface{}) ([]models.Post, error) {
	var posts []models.Post
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Update rewrites the editable fields of a post. Category, creator and the
// reference lists are never touched here.
func (r *MongoPostRepository) Update(ctx context.Context, id string, post *models.Post) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"title":            post.Title,
			"contents":         post.Contents,
			"preview_contents": post.PreviewContents,
			"file_url":         post.FileURL,
			"date":             post.Date,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a post by ID
func (r *MongoPostRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter by one as a targeted $inc, so
// concurrent detail reads never lose an increment.
func (r *MongoPostRepository) IncrementViews(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleLike flips the user's membership in the like set and recomputes the
// like count, all in a single pipeline update. Reading the whole post and
// writing the list back would lose concurrent toggles; this keeps
// likes_count == len(likes) without a transaction.
func (r *MongoPostRepository) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, postID)
	}
	userObjID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, userID)
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"likes": bson.M{"$cond": bson.M{
				"if":   bson.M{"$in": bson.A{userObjID, "$likes"}},
				"then": bson.M{"$setDifference": bson.A{"$likes", bson.A{userObjID}}},
				"else": bson.M{"$concatArrays": bson.A{"$likes", bson.A{userObjID}}},
			}},
		}}},
		bson.D{{Key: "$set", Value: bson.M{"likes_count": bson.M{"$size": "$likes"}}}},
	}

	var post models.Post
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, pipeline, opts).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// SetCategory points the post at its category
func (r *MongoPostRepository) SetCategory(ctx context.Context, postID, categoryID string) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, postID)
	}
	catObjID, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, categoryID)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"category": catObjID}})
	return err
}

// AddComment appends a comment reference to the post's comment list
func (r *MongoPostRepository) AddComment(ctx context.Context, postID, commentID string) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, postID)
	}
	commentObjID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, commentID)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$push": bson.M{"comments": commentObjID}})
	return err
}
