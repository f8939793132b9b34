package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/azeem8271/trek-tours/internal/app/models/dto"
	"github.com/azeem8271/trek-tours/internal/pkg/apperrors"
	"github.com/azeem8271/trek-tours/internal/pkg/auth"
	"github.com/azeem8271/trek-tours/internal/pkg/logger"
)

// devMode toggles verbose error responses. In development the envelope
// carries the underlying error and a stack trace; in production only
// operational errors leak their message.
var devMode = true

// SetMode switches the error responder between development and production
// reporting.
func SetMode(mode string) {
	devMode = strings.ToLower(mode) != "production"
}

// Wrap adapts an error-returning handler to a gin.HandlerFunc, funneling
// every failure through RespondError.
func Wrap(handler func(c *gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler(c); err != nil {
			RespondError(c, err)
		}
	}
}

// Recovery turns a handler panic into the standard 500 envelope instead of
// gin's bare status response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		RespondError(c, fmt.Errorf("panic: %v", recovered))
	})
}

// RespondError translates an error into the standard envelope. Engine-level
// failures (duplicate keys, malformed input, bad tokens) are normalized to
// operational errors first; anything left over is a programming defect and
// reports as a generic 500 outside development.
func RespondError(c *gin.Context, err error) {
	appErr := normalize(err)

	env := dto.Envelope{
		Status:  appErr.Status(),
		Message: appErr.Error(),
	}
	if devMode {
		if appErr.Err != nil {
			env.Error = appErr.Err.Error()
		}
		env.Stack = string(debug.Stack())
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(appErr.StatusCode, env)
}

// normalize maps known failure shapes onto operational errors.
func normalize(err error) *apperrors.AppError {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	switch {
	case mongo.IsDuplicateKeyError(err):
		return &apperrors.AppError{
			Err:        apperrors.ErrDuplicateField,
			Message:    "Duplicate field value. Please use another value!",
			StatusCode: http.StatusBadRequest,
		}
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return &apperrors.AppError{
			Err:        apperrors.ErrInvalidCredentials,
			Message:    "Incorrect email or password",
			StatusCode: http.StatusUnauthorized,
		}
	case errors.Is(err, auth.ErrExpiredToken):
		return &apperrors.AppError{
			Err:        apperrors.ErrTokenExpired,
			Message:    "Your token has expired! Please log in again.",
			StatusCode: http.StatusUnauthorized,
		}
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidFormat):
		return &apperrors.AppError{
			Err:        apperrors.ErrTokenInvalid,
			Message:    "Invalid token. Please log in again!",
			StatusCode: http.StatusUnauthorized,
		}
	case errors.Is(err, apperrors.ErrUserNotFound):
		return &apperrors.AppError{
			Err:        apperrors.ErrUserNotFound,
			Message:    "No user found with that ID",
			StatusCode: http.StatusNotFound,
		}
	case errors.Is(err, apperrors.ErrResetTokenInvalid):
		return &apperrors.AppError{
			Err:        apperrors.ErrResetTokenInvalid,
			Message:    "Token is invalid or has expired",
			StatusCode: http.StatusBadRequest,
		}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return &apperrors.AppError{
			Err:        apperrors.ErrValidationFailed,
			Message:    validationMessage(validationErrs),
			StatusCode: http.StatusBadRequest,
		}
	}

	return &apperrors.AppError{
		Err:        err,
		Message:    "Something went very wrong!",
		StatusCode: http.StatusInternalServerError,
	}
}

// validationMessage flattens field errors into a single message.
func validationMessage(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		switch fieldErr.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fieldErr.Field()))
		case "email":
			parts = append(parts, fmt.Sprintf("%s must be a valid email", fieldErr.Field()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s characters", fieldErr.Field(), fieldErr.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", fieldErr.Field(), fieldErr.Param()))
		case "eqfield":
			parts = append(parts, fmt.Sprintf("%s must match %s", fieldErr.Field(), fieldErr.Param()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param()))
		case "gte", "lte", "ltefield":
			parts = append(parts, fmt.Sprintf("%s is out of range", fieldErr.Field()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", fieldErr.Field()))
		}
	}
	return "Invalid input data. " + strings.Join(parts, ". ")
}
