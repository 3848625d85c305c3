package model

import (
	"errors"
	"time"
)

// User represents an account in the system. Password hash and refresh token
// are never serialized, so a *User is safe to return from handlers as-is.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	FullName       string    `db:"full_name" json:"full_name"`
	PasswordHashed string    `db:"password_hashed" json:"-"`
	AvatarURL      string    `db:"avatar_url" json:"avatar_url"`
	CoverImageURL  string    `db:"cover_image_url" json:"cover_image_url"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// RegisterRequest represents the data needed to register a new user.
// Avatar and cover image URLs are filled in after media upload, not by the
// client directly.
type RegisterRequest struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	AvatarURL     string `json:"-"`
	CoverImageURL string `json:"-"`
}

// LoginRequest represents the data needed to log in. Either username or
// email identifies the account.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the body for POST /change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UpdateAccountRequest is the body for PATCH /update-account.
type UpdateAccountRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmailExists is returned when attempting to create a user with a taken email
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when a password check fails
	ErrInvalidCredentials = errors.New("invalid credentials")
)
