package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category is a name-keyed grouping of posts. Categories are created
// implicitly the first time a post uses an unseen name and deleted as soon
// as their post list becomes empty. Name matching is case-sensitive exact
// match, no trimming.
type Category struct {
	ID    primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name  string               `json:"categoryName" bson:"category_name"`
	Posts []primitive.ObjectID `json:"posts" bson:"posts"`
}
