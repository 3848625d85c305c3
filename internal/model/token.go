package model

import "errors"

// Token errors
var (
	ErrRefreshTokenInvalid = errors.New("invalid refresh token")

	// ErrTokenExpired marks an access token that verified but is past its
	// expiry, so the middleware can answer with the dedicated code.
	ErrTokenExpired = errors.New("token expired")

	// ErrRefreshTokenReused is returned when a presented refresh token no
	// longer matches the one stored on the user record. A rotated-out token
	// never matches again, so reuse is detectable.
	ErrRefreshTokenReused = errors.New("refresh token expired or used")
)

// Token API error codes (used in HTTP responses)
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
	CodeTokenReused  = "TOKEN_REUSED"
)

// TokenPair represents both tokens returned after login/refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // Seconds until access token expires
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// RefreshRequest is the request body for POST /refresh-token when the
// token is not supplied via cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
