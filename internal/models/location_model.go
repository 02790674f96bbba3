package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a lab, office or room within a school.
type Location struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Floor       *int               `json:"floor,omitempty" bson:"floor,omitempty"`
	Building    string             `json:"building,omitempty" bson:"building,omitempty"`
	School      primitive.ObjectID `json:"school" bson:"school"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}
