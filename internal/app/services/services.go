package services

import (
	"github.com/rs/zerolog"

	"github.com/azeem8271/trek-tours/internal/app/repositories"
	"github.com/azeem8271/trek-tours/internal/pkg/auth"
	"github.com/azeem8271/trek-tours/internal/pkg/email"
)

// Services is the container for all services. Tours and reviews need no
// service layer; their handlers drive the repositories directly.
type Services struct {
	AuthService *AuthService
	UserService *UserService
}

// NewServices creates all services
func NewServices(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	logger zerolog.Logger,
) *Services {
	return &Services{
		AuthService: NewAuthService(repos.UserRepository, jwtService, emailService, logger),
		UserService: NewUserService(repos.UserRepository, logger),
	}
}
