package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Visitor is the singleton site-wide visit counter. Exactly one document
// exists in the collection; it is seeded at bootstrap.
type Visitor struct {
	ID    primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Views int                `json:"views" bson:"views"`
}
