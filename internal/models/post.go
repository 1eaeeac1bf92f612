package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a blog post stored in MongoDB.
//
// Category is zero-or-one: a post either belongs to exactly one category or
// to none while it is being (re)attached. Likes is a set of user ids; the
// store-level toggle keeps LikesCount equal to len(Likes) at all times.
type Post struct {
	ID              primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title           string               `json:"title" bson:"title"`
	Contents        string               `json:"contents" bson:"contents"`
	PreviewContents string               `json:"previewContents,omitempty" bson:"preview_contents,omitempty"`
	FileURL         string               `json:"fileUrl,omitempty" bson:"file_url,omitempty"`
	Creator         primitive.ObjectID   `json:"creator" bson:"creator"`
	Category        *primitive.ObjectID  `json:"category,omitempty" bson:"category,omitempty"`
	Comments        []primitive.ObjectID `json:"comments" bson:"comments"`
	Views           int                  `json:"views" bson:"views"`
	Likes           []primitive.ObjectID `json:"likes" bson:"likes"`
	LikesCount      int                  `json:"likesCount" bson:"likes_count"`
	Date            time.Time            `json:"date" bson:"date"`
}

// PostDetail is the detail view with creator and category names resolved.
type PostDetail struct {
	Post
	CreatorName  string `json:"creatorName"`
	CategoryName string `json:"categoryName,omitempty"`
}

// PostList is the aggregate the list endpoint returns: the posts of one
// category (or all of them), every category for the sidebar, and the
// current visit counter.
type PostList struct {
	Posts      []Post     `json:"postsList"`
	Categories []Category `json:"categoryFindResult"`
	PostCount  int        `json:"postCount"`
	Visitors   *Visitor   `json:"visitorsCount"`
	Selected   string     `json:"id"`
}

// CreatePostRequest defines the request body for publishing a new post
type CreatePostRequest struct {
	Title           string `json:"title" validate:"required,min=1"`
	Contents        string `json:"contents" validate:"required,min=1"`
	PreviewContents string `json:"previewContents,omitempty"`
	FileURL         string `json:"fileUrl,omitempty" validate:"omitempty,url"`
	Category        string `json:"category" validate:"required,min=1"`
}

// EditPostRequest defines the request body for editing an existing post.
// Category and creator are deliberately absent: edits never recategorize.
type EditPostRequest struct {
	Title           string `json:"title" validate:"required,min=1"`
	Contents        string `json:"contents" validate:"required,min=1"`
	PreviewContents string `json:"previewContents,omitempty"`
	FileURL         string `json:"fileUrl,omitempty" validate:"omitempty,url"`
}

// ToggleLikeRequest defines the request body for liking/unliking a post
type ToggleLikeRequest struct {
	UserID string `json:"userId" validate:"required"`
}
