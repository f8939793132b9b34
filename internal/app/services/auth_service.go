package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/azeem8271/trek-tours/internal/app/models"
	"github.com/azeem8271/trek-tours/internal/app/models/dto"
	"github.com/azeem8271/trek-tours/internal/app/repositories"
	"github.com/azeem8271/trek-tours/internal/pkg/apperrors"
	"github.com/azeem8271/trek-tours/internal/pkg/auth"
	"github.com/azeem8271/trek-tours/internal/pkg/email"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo     *repositories.UserRepository
	jwtService   *auth.JWTService
	emailService email.EmailService
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtService:   jwtService,
		emailService: emailService,
		logger:       logger,
	}
}

// SignUp registers a new account. The role is never taken from the request;
// every new account starts as a regular user.
func (s *AuthService) SignUp(ctx context.Context, req dto.SignUpRequest) (*models.User, error) {
	user := &models.User{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Role:            models.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Welcome mail is best effort; registration already succeeded.
	if err := s.emailService.SendWelcomeEmail(user.Email, user.Name); err != nil {
		s.logger.Warn().Err(err).Str("email", user.Email).Msg("Failed to send welcome email")
	}

	return user, nil
}

// Login verifies credentials and returns the account. Lookup failure and a
// wrong password report identically so the response never reveals which
// part was wrong.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*models.User, error) {
	user, err := s.userRepo.FindByEmailWithPassword(ctx, req.Email)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError(
			apperrors.ErrInvalidCredentials, "Incorrect email or password")
	}

	if !user.CheckPassword(req.Password) {
		return nil, apperrors.NewUnauthorizedError(
			apperrors.ErrInvalidCredentials, "Incorrect email or password")
	}

	return user, nil
}

// ForgotPassword issues a reset token for the account behind the email and
// mails the reset link. If the mail cannot be sent the stored token is
// rolled back so a stale token never lingers.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr, resetURLBase string) error {
	user, err := s.userRepo.FindByEmailWithPassword(ctx, emailAddr)
	if err != nil {
		return apperrors.NewNotFoundError("There is no user with that email address.")
	}

	token, err := user.NewPasswordResetToken()
	if err != nil {
		return err
	}
	if err := s.userRepo.SaveResetToken(ctx, user.ID, user.PasswordResetToken, *user.PasswordResetExpires); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/resetPassword/%s", resetURLBase, token)
	if err := s.emailService.SendPasswordResetEmail(user.Email, user.Name, resetURL); err != nil {
		if clearErr := s.userRepo.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger.Error().Err(clearErr).Str("email", user.Email).Msg("Failed to roll back reset token")
		}
		return apperrors.NewInternalError(err, "There was an error sending the email. Try again later!")
	}

	return nil
}

// ResetPassword redeems a reset token and stores the new password. The
// stored passwordChangedAt is backdated a second so a token issued right
// after the reset stays valid.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) (*models.User, error) {
	user, err := s.userRepo.FindByResetToken(ctx, models.HashResetToken(token))
	if err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.SetPassword(ctx, user.ID, hashed); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdatePassword changes the password of a logged-in user after verifying
// the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, userID primitive.ObjectID, current, password string) (*models.User, error) {
	user, err := s.userRepo.FindAuthByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.CheckPassword(current) {
		return nil, apperrors.NewUnauthorizedError(
			apperrors.ErrInvalidCredentials, "Your current password is wrong.")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.SetPassword(ctx, user.ID, hashed); err != nil {
		return nil, err
	}

	return user, nil
}
