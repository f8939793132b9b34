package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/azeem8271/trek-tours/internal/app/models"
	"github.com/azeem8271/trek-tours/internal/app/models/dto"
	"github.com/azeem8271/trek-tours/internal/app/services"
	"github.com/azeem8271/trek-tours/internal/config"
	"github.com/azeem8271/trek-tours/internal/middleware"
	"github.com/azeem8271/trek-tours/internal/pkg/apperrors"
	"github.com/azeem8271/trek-tours/internal/pkg/auth"
)

// AuthController handles authentication endpoints
type AuthController struct {
	authService *services.AuthService
	jwtService  *auth.JWTService
	cfg         *config.Config
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, jwtService *auth.JWTService, cfg *config.Config, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		jwtService:  jwtService,
		cfg:         cfg,
		logger:      logger,
	}
}

// SignUp registers a new account and logs it in
func (c *AuthController) SignUp(ctx *gin.Context) {
	var req dto.SignUpRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		middleware.RespondError(ctx, err)
		return
	}

	user, err := c.authService.SignUp(ctx.Request.Context(), req)
	if err != nil {
		middleware.RespondError(ctx, err)
		return
	}

	c.createSendToken(ctx, user, http.StatusCreated)
}

// Login verifies credentials and issues a token
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		middleware.RespondError(ctx, err)
		return
	}

	user, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		middleware.RespondError(ctx, err)
		return
	}

	c.createSendToken(ctx, user, http.StatusOK)
}

// ForgotPassword starts the password-reset flow
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		middleware.RespondError(ctx, err)
		return
	}

	if err := c.authService.ForgotPassword(ctx.Request.Context(), req.Email, requestBaseURL(ctx)); err != nil {
		middleware.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.Message("Token sent to email!"))
}

// ResetPassword redeems a reset token from the URL and logs the user in
// with the new password
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		middleware.RespondError(ctx, err)
		return
	}

	user, err := c.authService.ResetPassword(ctx.Request.Context(), ctx.Param("token"), req.Password)
	if err != nil {
		middleware.RespondError(ctx, err)
		return
	}

	c.createSendToken(ctx, user, http.StatusOK)
}

// UpdatePassword changes the logged-in user's password and issues a fresh
// token
func (c *AuthController) UpdatePassword(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		middleware.RespondError(ctx, apperrors.NewUnauthorizedError(
			apperrors.ErrNotLoggedIn, "You are not logged in! Please log in to get access."))
		return
	}

	var req dto.UpdatePasswordRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		middleware.RespondError(ctx, err)
		return
	}

	updated, err := c.authService.UpdatePassword(ctx.Request.Context(), user.ID, req.PasswordCurrent, req.Password)
	if err != nil {
		middleware.RespondError(ctx, err)
		return
	}

	c.createSendToken(ctx, updated, http.StatusOK)
}

// createSendToken signs a token for the user, mirrors it into an http-only
// cookie, and writes the auth envelope.
func (c *AuthController) createSendToken(ctx *gin.Context, user *models.User, statusCode int) {
	token, err := c.jwtService.GenerateToken(user.ID.Hex())
	if err != nil {
		middleware.RespondError(ctx, err)
		return
	}

	maxAge := c.cfg.JWT.CookieExpiresDays * 24 * 60 * 60
	ctx.SetCookie("jwt", token, maxAge, "/", "", c.cfg.IsProduction(), true)

	ctx.JSON(statusCode, dto.Envelope{
		Status: "success",
		Token:  token,
		Data:   gin.H{"user": user},
	})
}

// requestBaseURL reconstructs the public base URL for links embedded in
// outgoing mail.
func requestBaseURL(ctx *gin.Context) string {
	scheme := "http"
	if ctx.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, ctx.Request.Host)
}
