package repositories

import (
	"context"
	"fmt"

	"github.com/kjiyu/devlog/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	AddPost(ctx context.Context, userID, postID string) error
	AddCommentRef(ctx context.Context, userID, postID, commentID string) error
	RemovePostRefs(ctx context.Context, userID, postID string) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// Create inserts a new user with initialized reference lists
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	if user.Posts == nil {
		user.Posts = []primitive.ObjectID{}
	}
	if user.Comments == nil {
		user.Comments = []models.UserCommentRef{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// FindByLogin retrieves a user by their unique login identifier
func (r *MongoUserRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"user_id": login}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByID retrieves a user by ID
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var user models.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// AddPost appends a post reference to the user's owned-posts list
func (r *MongoUserRepository) AddPost(ctx context.Context, userID, postID string) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, userID)
	}
	postObjID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, postID)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$addToSet": bson.M{"posts": postObjID}})
	return err
}

// AddCommentRef appends a {post, comment} pair to the user's authored-comment list
func (r *MongoUserRepository) AddCommentRef(ctx context.Context, userID, postID, commentID string) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, userID)
	}
	postObjID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, postID)
	}
	commentObjID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, commentID)
	}
	ref := models.UserCommentRef{PostID: postObjID, CommentID: commentObjID}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$push": bson.M{"comments": ref}})
	return err
}

// RemovePostRefs pulls the post from the user's owned-posts list and drops
// every authored-comment entry pointing at it, in one update.
func (r *MongoUserRepository) RemovePostRefs(ctx context.Context, userID, postID string) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, userID)
	}
	postObjID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, postID)
	}
	update := bson.M{"$pull": bson.M{
		"posts":    postObjID,
		"comments": bson.M{"post_id": postObjID},
	}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	return err
}
