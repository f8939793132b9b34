package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azeem8271/trek-tours/internal/app/controllers"
	"github.com/azeem8271/trek-tours/internal/app/models"
	"github.com/azeem8271/trek-tours/internal/app/models/dto"
	"github.com/azeem8271/trek-tours/internal/app/repositories"
	"github.com/azeem8271/trek-tours/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	repos *repositories.Repositories,
	authController *controllers.AuthController,
	tourController *controllers.TourController,
	userController *controllers.UserController,
	reviewController *controllers.ReviewController,
	authMiddleware *middleware.AuthMiddleware,
	limiter *middleware.RateLimiter,
) {
	// API version group, rate limited per client IP
	v1 := router.Group("/api/v1")
	v1.Use(limiter.Middleware())

	protect := authMiddleware.Protect()

	// --- Tour routes ---
	tours := v1.Group("/tours")
	{
		tours.GET("/top-5-cheap", tourController.AliasTopTours,
			controllers.GetAll[models.Tour](repos.TourRepository, "tours"))
		tours.GET("/tour-stats", tourController.GetTourStats)
		tours.GET("/monthly-plan/:year", protect,
			authMiddleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide, models.RoleGuide),
			tourController.GetMonthlyPlan)

		tours.GET("", controllers.GetAll[models.Tour](repos.TourRepository, "tours"))
		tours.GET("/:id", tourController.GetTour)

		toursRestricted := tours.Group("")
		toursRestricted.Use(protect, authMiddleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide))
		{
			toursRestricted.POST("", controllers.CreateOne[models.Tour](repos.TourRepository, "tour"))
			toursRestricted.PATCH("/:id", controllers.UpdateOne[models.Tour](repos.TourRepository, "tour"))
			toursRestricted.DELETE("/:id", controllers.DeleteOne[models.Tour](repos.TourRepository))
		}

		// Nested review routes; the tour id narrows the list and fills the
		// created review
		nestedReviews := tours.Group("/:id/reviews")
		nestedReviews.Use(protect)
		{
			nestedReviews.GET("", reviewController.SetTourFilter,
				controllers.GetAll[models.Review](repos.ReviewRepository, "reviews"))
			nestedReviews.POST("", authMiddleware.RestrictTo(models.RoleUser),
				reviewController.CreateReview)
		}
	}

	// --- User routes ---
	users := v1.Group("/users")
	{
		users.POST("/signup", authController.SignUp)
		users.POST("/login", authController.Login)
		users.POST("/forgotPassword", authController.ForgotPassword)
		users.PATCH("/resetPassword/:token", authController.ResetPassword)

		usersProtected := users.Group("")
		usersProtected.Use(protect)
		{
			usersProtected.PATCH("/updateMyPassword", authController.UpdatePassword)
			usersProtected.GET("/me", userController.GetMe)
			usersProtected.PATCH("/updateMe", userController.UpdateMe)
			usersProtected.DELETE("/deleteMe", userController.DeleteMe)
		}

		usersAdmin := users.Group("")
		usersAdmin.Use(protect, authMiddleware.RestrictTo(models.RoleAdmin))
		{
			usersAdmin.GET("", controllers.GetAll[models.User](repos.UserRepository, "users"))
			usersAdmin.POST("", userController.CreateUser)
			usersAdmin.GET("/:id", controllers.GetOne[models.User](repos.UserRepository, "user"))
			usersAdmin.PATCH("/:id", controllers.UpdateOne[models.User](repos.UserRepository, "user"))
			usersAdmin.DELETE("/:id", controllers.DeleteOne[models.User](repos.UserRepository))
		}
	}

	// --- Review routes ---
	reviews := v1.Group("/reviews")
	reviews.Use(protect)
	{
		reviews.GET("", controllers.GetAll[models.Review](repos.ReviewRepository, "reviews"))
		reviews.POST("", authMiddleware.RestrictTo(models.RoleUser), reviewController.CreateReview)
		reviews.GET("/:id", controllers.GetOne[models.Review](repos.ReviewRepository, "review"))
		reviews.PATCH("/:id", authMiddleware.RestrictTo(models.RoleUser, models.RoleAdmin),
			controllers.UpdateOne[models.Review](repos.ReviewRepository, "review"))
		reviews.DELETE("/:id", authMiddleware.RestrictTo(models.RoleUser, models.RoleAdmin),
			controllers.DeleteOne[models.Review](repos.ReviewRepository))
	}

	// Unmatched routes answer with the standard envelope
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound,
			dto.Fail(fmt.Sprintf("Can't find %s on this server!", c.Request.URL.Path)))
	})
}
