package repositories

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// Repositories is the container for all repositories
type Repositories struct {
	TourRepository   *TourRepository
	UserRepository   *UserRepository
	ReviewRepository *ReviewRepository
}

// NewRepositories creates all repositories over the given database handle
func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		TourRepository:   NewTourRepository(db),
		UserRepository:   NewUserRepository(db),
		ReviewRepository: NewReviewRepository(db),
	}
}
