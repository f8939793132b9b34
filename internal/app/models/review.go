package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review defines the review document in the 'reviews' collection. The
// (tour, user) pair carries a unique index: one review per user per tour.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Review    string             `bson:"review" json:"review" validate:"required"`
	Rating    float64            `bson:"rating" json:"rating" validate:"required,gte=1,lte=5"`
	Tour      primitive.ObjectID `bson:"tour" json:"tour" validate:"required"`
	User      primitive.ObjectID `bson:"user" json:"user" validate:"required"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// SetID implements the store document interface
func (r *Review) SetID(id primitive.ObjectID) { r.ID = id }

// BeforeSave fills defaulted fields before the document is written.
func (r *Review) BeforeSave() error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}
