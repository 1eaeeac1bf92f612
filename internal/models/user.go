package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered blog user stored in MongoDB.
// Posts and Comments are denormalized back-references kept in sync by the
// integrity service whenever a post or comment of theirs is created or removed.
type User struct {
	ID           primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Login        string               `json:"userId" bson:"user_id"` // unique login identifier
	Name         string               `json:"name" bson:"name"`
	Nickname     string               `json:"nickname,omitempty" bson:"nickname,omitempty"`
	Password     string               `json:"-" bson:"password"` // bcrypt hash, never serialized
	Role         string               `json:"role,omitempty" bson:"role,omitempty"`
	Posts        []primitive.ObjectID `json:"posts" bson:"posts"`
	Comments     []UserCommentRef     `json:"comments" bson:"comments"`
	RegisterDate time.Time            `json:"register_date" bson:"register_date"`
}

// UserCommentRef is a {post, comment} pair recorded on the author when they
// comment on a post.
type UserCommentRef struct {
	PostID    primitive.ObjectID `json:"post_id" bson:"post_id"`
	CommentID primitive.ObjectID `json:"comment_id" bson:"comment_id"`
}

// PublicProfile returns the JSON shape handed out on signup/signin.
func (u *User) PublicProfile() map[string]interface{} {
	nickname := u.Nickname
	if nickname == "" {
		nickname = u.Name
	}
	return map[string]interface{}{
		"id":       u.ID.Hex(),
		"name":     u.Name,
		"userId":   u.Login,
		"role":     u.Role,
		"nickname": nickname,
	}
}

// SignupRequest defines the request body for registering a new user
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=50"`
	Login    string `json:"userId" validate:"required,min=1,max=50"`
	Password string `json:"password" validate:"required,min=4"`
	Nickname string `json:"nickname,omitempty" validate:"omitempty,max=50"`
}

// SigninRequest defines the request body for logging in
type SigninRequest struct {
	Login    string `json:"userId" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"id"`
	Login  string `json:"user_id"`
	jwt.RegisteredClaims
}
