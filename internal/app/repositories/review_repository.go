package repositories

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/azeem8271/trek-tours/internal/app/models"
)

// ReviewRepository handles review persistence
type ReviewRepository struct {
	*Store[models.Review, *models.Review]
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{
		Store: NewStore[models.Review](db.Collection("reviews"), nil),
	}
}
