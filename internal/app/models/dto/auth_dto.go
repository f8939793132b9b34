package dto

// SignUpRequest carries the public signup fields. Role is never accepted
// here; new accounts always start as regular users.
type SignUpRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts the password-reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the password-reset flow; the token itself
// travels in the URL
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UpdatePasswordRequest changes the password of a logged-in user after
// re-verifying the current one
type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UpdateMeRequest carries the self-service profile fields. Password updates
// are rejected on this path.
type UpdateMeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}
