package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Region is the top of the containment hierarchy: region → school →
// location → device.
type Region struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}
