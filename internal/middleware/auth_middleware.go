package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/azeem8271/trek-tours/internal/app/models"
	"github.com/azeem8271/trek-tours/internal/pkg/apperrors"
	"github.com/azeem8271/trek-tours/internal/pkg/auth"
)

// currentUserKey is the context key holding the authenticated user.
const currentUserKey = "currentUser"

// UserFinder loads the account a token points at. The user repository
// satisfies it.
type UserFinder interface {
	FindAuthByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// AuthMiddleware handles authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      UserFinder
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, users UserFinder) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// Protect rejects requests without a valid token. The token travels in the
// Authorization header as a bearer token or in the jwt cookie; the header
// wins when both are present. The bound account must still exist and must
// not have changed its password after the token was issued.
func (m *AuthMiddleware) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			RespondError(c, apperrors.NewUnauthorizedError(
				apperrors.ErrNotLoggedIn, "You are not logged in! Please log in to get access."))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			RespondError(c, err)
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			RespondError(c, auth.ErrInvalidToken)
			return
		}

		user, err := m.users.FindAuthByID(c.Request.Context(), userID)
		if err != nil {
			RespondError(c, apperrors.NewUnauthorizedError(
				apperrors.ErrUserGone, "The user belonging to this token does no longer exist."))
			return
		}

		if claims.IssuedAt != nil && user.ChangedPasswordAfter(claims.IssuedAt.Time) {
			RespondError(c, apperrors.NewUnauthorizedError(
				apperrors.ErrPasswordChanged, "User recently changed password! Please log in again."))
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RestrictTo limits a route to the given roles. It must run after Protect.
func (m *AuthMiddleware) RestrictTo(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			RespondError(c, apperrors.NewUnauthorizedError(
				apperrors.ErrNotLoggedIn, "You are not logged in! Please log in to get access."))
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		RespondError(c, apperrors.NewForbiddenError("You do not have permission to perform this action"))
	}
}

// CurrentUser returns the authenticated user stored by Protect.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// extractToken pulls the JWT from the Authorization header or, failing
// that, the jwt cookie.
func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	if cookie, err := c.Cookie("jwt"); err == nil && cookie != "" {
		return cookie
	}
	return ""
}
