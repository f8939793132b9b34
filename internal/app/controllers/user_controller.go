package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/azeem8271/trek-tours/internal/app/models/dto"
	"github.com/azeem8271/trek-tours/internal/app/services"
	"github.com/azeem8271/trek-tours/internal/middleware"
	"github.com/azeem8271/trek-tours/internal/pkg/apperrors"
)

// UserController handles the self-service account endpoints
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetMe returns the logged-in user's own profile
func (c *UserController) GetMe(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		middleware.RespondError(ctx, apperrors.NewUnauthorizedError(
			apperrors.ErrNotLoggedIn, "You are not logged in! Please log in to get access."))
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(gin.H{"user": user}))
}

// UpdateMe patches the logged-in user's name or email. Password fields in
// the body are rejected; password changes have their own endpoint.
func (c *UserController) UpdateMe(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		middleware.RespondError(ctx, apperrors.NewUnauthorizedError(
			apperrors.ErrNotLoggedIn, "You are not logged in! Please log in to get access."))
		return
	}

	body := bson.M{}
	if err := bindJSON(ctx, &body); err != nil {
		middleware.RespondError(ctx, err)
		return
	}
	if _, hasPassword := body["password"]; hasPassword {
		middleware.RespondError(ctx, apperrors.NewBadRequestError(
			"This route is not for password updates. Please use /updateMyPassword."))
		return
	}
	if _, hasConfirm := body["passwordConfirm"]; hasConfirm {
		middleware.RespondError(ctx, apperrors.NewBadRequestError(
			"This route is not for password updates. Please use /updateMyPassword."))
		return
	}

	req := dto.UpdateMeRequest{}
	if name, ok := body["name"].(string); ok {
		req.Name = name
	}
	if email, ok := body["email"].(string); ok {
		req.Email = email
	}
	if err := validate.Struct(&req); err != nil {
		middleware.RespondError(ctx, err)
		return
	}

	updated, err := c.userService.UpdateMe(ctx.Request.Context(), user.ID, req)
	if err != nil {
		middleware.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(gin.H{"user": updated}))
}

// DeleteMe soft-deletes the logged-in user's account
func (c *UserController) DeleteMe(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		middleware.RespondError(ctx, apperrors.NewUnauthorizedError(
			apperrors.ErrNotLoggedIn, "You are not logged in! Please log in to get access."))
		return
	}

	if err := c.userService.DeleteMe(ctx.Request.Context(), user.ID); err != nil {
		middleware.RespondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// CreateUser exists only to point API clients at the signup flow
func (c *UserController) CreateUser(ctx *gin.Context) {
	ctx.JSON(http.StatusInternalServerError,
		dto.Error("This route is not defined! Please use /signup instead"))
}
