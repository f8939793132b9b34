package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/azeem8271/trek-tours/internal/app/models"
	"github.com/azeem8271/trek-tours/internal/app/models/dto"
	"github.com/azeem8271/trek-tours/internal/app/repositories"
	"github.com/azeem8271/trek-tours/internal/middleware"
	"github.com/azeem8271/trek-tours/internal/pkg/apperrors"
)

// ReviewController handles the review endpoints beyond plain CRUD
type ReviewController struct {
	reviews *repositories.ReviewRepository
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviews *repositories.ReviewRepository) *ReviewController {
	return &ReviewController{reviews: reviews}
}

// SetTourFilter narrows the list handler to one tour when the reviews are
// reached through the nested route. The id param there is the tour's.
func (c *ReviewController) SetTourFilter(ctx *gin.Context) {
	tourID := ctx.Param("id")
	if tourID == "" {
		ctx.Next()
		return
	}
	oid, err := repositories.ParseID(tourID)
	if err != nil {
		middleware.RespondError(ctx, err)
		return
	}
	SetListFilter(ctx, bson.M{"tour": oid})
	ctx.Next()
}

// CreateReview creates a review, filling the tour from the nested route and
// the author from the authenticated user when the body omits them.
func (c *ReviewController) CreateReview(ctx *gin.Context) {
	var review models.Review
	if err := bindJSON(ctx, &review); err != nil {
		middleware.RespondError(ctx, err)
		return
	}

	if tourID := ctx.Param("id"); tourID != "" {
		oid, err := repositories.ParseID(tourID)
		if err != nil {
			middleware.RespondError(ctx, err)
			return
		}
		review.Tour = oid
	}
	if review.User.IsZero() {
		user, ok := middleware.CurrentUser(ctx)
		if !ok {
			middleware.RespondError(ctx, apperrors.NewUnauthorizedError(
				apperrors.ErrNotLoggedIn, "You are not logged in! Please log in to get access."))
			return
		}
		review.User = user.ID
	}

	if err := c.reviews.Create(ctx.Request.Context(), &review); err != nil {
		middleware.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.Success(gin.H{"review": review}))
}
