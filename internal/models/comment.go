package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a post. CreatorName is denormalized so
// comment listings render without a user lookup. Comments are only ever
// deleted by the cascading post delete.
type Comment struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Contents    string             `json:"contents" bson:"contents"`
	Creator     primitive.ObjectID `json:"creator" bson:"creator"`
	CreatorName string             `json:"creatorName" bson:"creator_name"`
	PostID      primitive.ObjectID `json:"post" bson:"post"`
	Date        time.Time          `json:"date" bson:"date"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Contents string `json:"contents" validate:"required,min=1,max=1000"`
	UserID   string `json:"userId" validate:"required"`
	UserName string `json:"userName" validate:"required"`
}
