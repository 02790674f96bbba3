package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// School belongs to exactly one region.
type School struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Address   string             `json:"address" bson:"address"`
	Region    primitive.ObjectID `json:"region" bson:"region"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
