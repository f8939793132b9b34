package models

import (
	"testing"
	"time"
)

func TestUserBeforeSaveHashesPassword(t *testing.T) {
	user := &User{
		Name:            "Test User",
		Email:           "test@example.com",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	}
	if err := user.BeforeSave(); err != nil {
		t.Fatalf("BeforeSave returned error: %v", err)
	}

	if user.Password == "pass1234" {
		t.Error("password should be hashed, not stored in plaintext")
	}
	if user.PasswordConfirm != "" {
		t.Error("passwordConfirm should be discarded before persistence")
	}
	if !user.CheckPassword("pass1234") {
		t.Error("hashed password should verify against the original")
	}
	if user.CheckPassword("wrong-password") {
		t.Error("wrong password should not verify")
	}
}

func TestUserBeforeSaveDefaults(t *testing.T) {
	user := &User{Password: "pass1234"}
	if err := user.BeforeSave(); err != nil {
		t.Fatalf("BeforeSave returned error: %v", err)
	}

	if user.Role != RoleUser {
		t.Errorf("role = %q, want %q", user.Role, RoleUser)
	}
	if !user.Active {
		t.Error("active should default to true")
	}
	if user.CreatedAt.IsZero() {
		t.Error("createdAt should be set")
	}
}

func TestUserBeforeSaveKeepsExplicitRole(t *testing.T) {
	user := &User{Password: "pass1234", Role: RoleGuide}
	if err := user.BeforeSave(); err != nil {
		t.Fatalf("BeforeSave returned error: %v", err)
	}

	if user.Role != RoleGuide {
		t.Errorf("role = %q, want %q", user.Role, RoleGuide)
	}
}

func TestChangedPasswordAfter(t *testing.T) {
	now := time.Now()

	user := &User{}
	if user.ChangedPasswordAfter(now) {
		t.Error("user without a password change should report false")
	}

	changed := now.Add(time.Minute)
	user.PasswordChangedAt = &changed
	if !user.ChangedPasswordAfter(now) {
		t.Error("change after issuance should report true")
	}

	earlier := now.Add(-time.Minute)
	user.PasswordChangedAt = &earlier
	if user.ChangedPasswordAfter(now) {
		t.Error("change before issuance should report false")
	}
}

func TestNewPasswordResetToken(t *testing.T) {
	user := &User{}

	token, err := user.NewPasswordResetToken()
	if err != nil {
		t.Fatalf("NewPasswordResetToken returned error: %v", err)
	}

	if len(token) != 64 {
		t.Errorf("token length = %d, want 64 hex characters", len(token))
	}
	if user.PasswordResetToken == token {
		t.Error("stored token must be the hash, not the plaintext")
	}
	if user.PasswordResetToken != HashResetToken(token) {
		t.Error("stored token should be the hash of the returned plaintext")
	}
	if user.PasswordResetExpires == nil {
		t.Fatal("expiry should be set")
	}

	ttl := time.Until(*user.PasswordResetExpires)
	if ttl <= 9*time.Minute || ttl > ResetTokenTTL {
		t.Errorf("expiry %v from now, want about %v", ttl, ResetTokenTTL)
	}
}

func TestNewPasswordResetTokenIsUnique(t *testing.T) {
	user := &User{}

	first, err := user.NewPasswordResetToken()
	if err != nil {
		t.Fatalf("first token: %v", err)
	}
	second, err := user.NewPasswordResetToken()
	if err != nil {
		t.Fatalf("second token: %v", err)
	}
	if first == second {
		t.Error("consecutive reset tokens should differ")
	}
}
