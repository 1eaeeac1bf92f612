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

// CommentRepository defines the interface for comment data operations.
// There is no standalone delete: comments only disappear when their post is
// cascade-deleted.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByPost(ctx context.Context, postID string) ([]models.Comment, error)
	DeleteByPost(ctx context.Context, postID string) (int64, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// Create inserts a new comment
func (r *MongoCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// FindByPost retrieves every comment of a post in posting order
func (r *MongoCommentRepository) FindByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, postID)
	}

	var comments []models.Comment
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"post": objID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteByPost removes every comment referencing the post and reports how
// many were dropped
func (r *MongoCommentRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidID, postID)
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"post": objID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
