package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusDiscriminator(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{http.StatusBadRequest, "fail"},
		{http.StatusUnauthorized, "fail"},
		{http.StatusNotFound, "fail"},
		{http.StatusInternalServerError, "error"},
		{http.StatusBadGateway, "error"},
	}

	for _, tc := range cases {
		e := &AppError{StatusCode: tc.code}
		if got := e.Status(); got != tc.want {
			t.Errorf("Status() for %d = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestConstructorsCarryStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{NewNotFoundError("x"), http.StatusNotFound},
		{NewBadRequestError("x"), http.StatusBadRequest},
		{NewValidationError("x"), http.StatusBadRequest},
		{NewUnauthorizedError(ErrNotLoggedIn, "x"), http.StatusUnauthorized},
		{NewForbiddenError("x"), http.StatusForbidden},
		{NewDuplicateError("x"), http.StatusBadRequest},
		{NewInternalError(errors.New("y"), "x"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		appErr, ok := AsAppError(tc.err)
		if !ok {
			t.Fatalf("%v is not an AppError", tc.err)
		}
		if appErr.StatusCode != tc.code {
			t.Errorf("status code = %d, want %d", appErr.StatusCode, tc.code)
		}
	}
}

func TestUnwrapReachesSentinel(t *testing.T) {
	err := NewUnauthorizedError(ErrTokenExpired, "Your token has expired! Please log in again.")

	if !errors.Is(err, ErrTokenExpired) {
		t.Error("wrapped sentinel should be reachable through errors.Is")
	}
}

func TestAsAppErrorThroughWrapping(t *testing.T) {
	inner := NewNotFoundError("gone")
	wrapped := fmt.Errorf("handling request: %w", inner)

	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("AppError should be found through fmt wrapping")
	}
	if appErr.StatusCode != http.StatusNotFound {
		t.Errorf("status code = %d, want 404", appErr.StatusCode)
	}
}

func TestAsAppErrorPlainError(t *testing.T) {
	if _, ok := AsAppError(errors.New("plain")); ok {
		t.Error("plain errors are not AppErrors")
	}
}

func TestErrorMessagePreference(t *testing.T) {
	withMessage := &AppError{Err: ErrBadRequest, Message: "explicit"}
	if withMessage.Error() != "explicit" {
		t.Errorf("Error() = %q, want explicit", withMessage.Error())
	}

	withoutMessage := &AppError{Err: ErrBadRequest}
	if withoutMessage.Error() != ErrBadRequest.Error() {
		t.Errorf("Error() = %q, want sentinel text", withoutMessage.Error())
	}
}
