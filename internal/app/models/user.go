package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/azeem8271/trek-tours/internal/pkg/auth"
)

// ResetTokenTTL bounds how long a password reset token stays valid.
const ResetTokenTTL = 10 * time.Minute

// Role defines the user role
type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

// User defines the user document in the 'users' collection. Secrets carry
// json:"-" so they never serialize; PasswordConfirm is write-only and never
// persisted.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name" validate:"required"`
	Email    string             `bson:"email" json:"email" validate:"required,email"`
	Photo    string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role     Role               `bson:"role" json:"role" validate:"omitempty,oneof=user guide lead-guide admin"`
	Password string             `bson:"password" json:"-" validate:"required,min=8"`

	// PasswordConfirm is cross-checked against Password at save time and
	// discarded before the document is written.
	PasswordConfirm string `bson:"-" json:"passwordConfirm,omitempty" validate:"required,eqfield=Password"`

	PasswordChangedAt    *time.Time `bson:"passwordChangedAt,omitempty" json:"-"`
	PasswordResetToken   string     `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetExpires *time.Time `bson:"passwordResetExpires,omitempty" json:"-"`
	Active               bool       `bson:"active" json:"-"`
	CreatedAt            time.Time  `bson:"createdAt" json:"createdAt"`
}

// SetID implements the store document interface
func (u *User) SetID(id primitive.ObjectID) { u.ID = id }

// BeforeSave hashes the password, discards the confirmation, and fills the
// defaulted fields. Runs on create and on full saves, never on partial
// updates (matching the update paths, which must not re-hash).
func (u *User) BeforeSave() error {
	hashed, err := auth.HashPassword(u.Password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	u.Password = hashed
	u.PasswordConfirm = ""

	if u.Role == "" {
		u.Role = RoleUser
	}
	u.Active = true
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	return nil
}

// CheckPassword verifies a candidate password against the stored hash
func (u *User) CheckPassword(candidate string) bool {
	return auth.CheckPassword(u.Password, candidate)
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token-issuance time.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.After(issuedAt)
}

// NewPasswordResetToken generates a random reset token, storing only its
// SHA-256 hash with a 10-minute expiry. The plaintext is returned for mail
// dispatch and never persisted.
func (u *User) NewPasswordResetToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	u.PasswordResetToken = HashResetToken(token)
	expires := time.Now().Add(ResetTokenTTL)
	u.PasswordResetExpires = &expires

	return token, nil
}

// HashResetToken derives the stored one-way hash of a reset token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
