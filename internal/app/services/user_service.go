package services

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/azeem8271/trek-tours/internal/app/models"
	"github.com/azeem8271/trek-tours/internal/app/models/dto"
	"github.com/azeem8271/trek-tours/internal/app/repositories"
)

// UserService handles self-service account operations
type UserService struct {
	userRepo *repositories.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repositories.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// UpdateMe patches the profile fields of the logged-in user. Only name and
// email are accepted here; password changes go through their own endpoint.
func (s *UserService) UpdateMe(ctx context.Context, userID primitive.ObjectID, req dto.UpdateMeRequest) (*models.User, error) {
	patch := bson.M{}
	if req.Name != "" {
		patch["name"] = req.Name
	}
	if req.Email != "" {
		patch["email"] = req.Email
	}

	return s.userRepo.UpdateByID(ctx, userID.Hex(), patch)
}

// DeleteMe soft-deletes the logged-in user's account.
func (s *UserService) DeleteMe(ctx context.Context, userID primitive.ObjectID) error {
	return s.userRepo.Deactivate(ctx, userID)
}
