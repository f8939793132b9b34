package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/azeem8271/trek-tours/internal/app/models/dto"
	"github.com/azeem8271/trek-tours/internal/app/repositories"
	"github.com/azeem8271/trek-tours/internal/middleware"
	"github.com/azeem8271/trek-tours/internal/pkg/apperrors"
)

// TourController handles the tour endpoints beyond plain CRUD
type TourController struct {
	tours *repositories.TourRepository
}

// NewTourController creates a new TourController
func NewTourController(tours *repositories.TourRepository) *TourController {
	return &TourController{tours: tours}
}

// AliasTopTours rewrites the query for the top-5-cheap alias route before
// the list handler runs.
func (c *TourController) AliasTopTours(ctx *gin.Context) {
	values := url.Values{}
	values.Set("limit", "5")
	values.Set("sort", "-ratingsAverage,price")
	values.Set("fields", "name,price,ratingsAverage,summary,difficulty")
	ctx.Request.URL.RawQuery = values.Encode()
	ctx.Next()
}

// GetTour returns a single tour with its guides and reviews populated
func (c *TourController) GetTour(ctx *gin.Context) {
	tour, err := c.tours.FindByIDPopulated(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(gin.H{"tour": tour}))
}

// GetTourStats returns aggregate rating and price statistics grouped by
// difficulty
func (c *TourController) GetTourStats(ctx *gin.Context) {
	stats, err := c.tours.Stats(ctx.Request.Context())
	if err != nil {
		middleware.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(gin.H{"stats": stats}))
}

// GetMonthlyPlan returns per-month tour start counts for the given year
func (c *TourController) GetMonthlyPlan(ctx *gin.Context) {
	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil {
		middleware.RespondError(ctx, apperrors.NewBadRequestError("Invalid year: "+ctx.Param("year")))
		return
	}

	plan, err := c.tours.MonthlyPlan(ctx.Request.Context(), year)
	if err != nil {
		middleware.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.Success(gin.H{"plan": plan}))
}
