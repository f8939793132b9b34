package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/azeem8271/trek-tours/internal/app/models"
	"github.com/azeem8271/trek-tours/internal/pkg/apperrors"
)

// activeUserFilter keeps soft-deleted users out of every default read path.
var activeUserFilter = bson.M{"active": bson.M{"$ne": false}}

// userHiddenFields never leave the repository on default read paths.
var userHiddenFields = []string{
	"password",
	"passwordChangedAt",
	"passwordResetToken",
	"passwordResetExpires",
}

// UserRepository handles user persistence
type UserRepository struct {
	*Store[models.User, *models.User]
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		Store: NewStore[models.User](db.Collection("users"), activeUserFilter, userHiddenFields...),
	}
}

// FindByEmailWithPassword looks up an active user including the stored
// password hash, for credential checks.
func (r *UserRepository) FindByEmailWithPassword(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.Collection().FindOne(ctx, bson.M{
		"email":  email,
		"active": bson.M{"$ne": false},
	}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	return &user, nil
}

// FindAuthByID looks up an active user including the auth bookkeeping
// fields, for token verification.
func (r *UserRepository) FindAuthByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.Collection().FindOne(ctx, bson.M{
		"_id":    id,
		"active": bson.M{"$ne": false},
	}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	return &user, nil
}

// FindByResetToken looks up the user holding the given reset-token hash
// with an unexpired deadline.
func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	var user models.User
	err := r.Collection().FindOne(ctx, bson.M{
		"passwordResetToken":   tokenHash,
		"passwordResetExpires": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrResetTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("reset token lookup failed: %w", err)
	}
	return &user, nil
}

// SaveResetToken stores the hashed reset token and its expiry.
func (r *UserRepository) SaveResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	_, err := r.Collection().UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"passwordResetToken":   tokenHash,
		"passwordResetExpires": expires,
	}})
	if err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}
	return nil
}

// ClearResetToken rolls back a stored reset token, used when mail dispatch
// fails.
func (r *UserRepository) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Collection().UpdateByID(ctx, id, bson.M{"$unset": bson.M{
		"passwordResetToken":   "",
		"passwordResetExpires": "",
	}})
	if err != nil {
		return fmt.Errorf("failed to clear reset token: %w", err)
	}
	return nil
}

// SetPassword stores a new password hash, stamps the change a second in the
// past so freshly issued tokens stay valid, and discards any reset token.
func (r *UserRepository) SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	changedAt := time.Now().Add(-time.Second)
	_, err := r.Collection().UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"password":          passwordHash,
			"passwordChangedAt": changedAt,
		},
		"$unset": bson.M{
			"passwordResetToken":   "",
			"passwordResetExpires": "",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a user; default read paths no longer return it.
func (r *UserRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Collection().UpdateByID(ctx, id, bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return nil
}
