package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vidstream/internal/config"
	"vidstream/internal/model"
	"vidstream/internal/repository"
)

// AccessClaims is the access token payload: the user identity plus the
// display fields downstream handlers need without a DB round trip.
type AccessClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

// RefreshClaims carries the user id only.
type RefreshClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService owns the session lifecycle: issuing access/refresh pairs,
// verifying access tokens for the middleware, and rotating refresh tokens
// with reuse detection.
type TokenService struct {
	userRepo repository.UserRepository
	config   *config.Config
}

func NewTokenService(userRepo repository.UserRepository, cfg *config.Config) *TokenService {
	return &TokenService{
		userRepo: userRepo,
		config:   cfg,
	}
}

// IssueAccessToken signs a short-lived access token for the user.
func (s *TokenService) IssueAccessToken(user *model.User) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.config.AccessTokenMaxAge) * time.Second)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}

// IssueRefreshToken signs a long-lived refresh token carrying the user id only.
func (s *TokenService) IssueRefreshToken(user *model.User) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.config.RefreshTokenMaxAge) * time.Second)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.RefreshTokenSecret))
}

// IssueSession issues a fresh pair and persists the refresh token on the user
// record, overwriting whatever was there. Only the token column is written,
// the password field is untouched.
func (s *TokenService) IssueSession(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	accessToken, err := s.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.IssueRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.config.AccessTokenMaxAge,
	}, nil
}

// Authenticate verifies an access token and resolves it to the stored user.
// Any verification or lookup failure collapses to ErrInvalidCredentials so
// the caller answers with a uniform 401.
func (s *TokenService) Authenticate(ctx context.Context, tokenString string) (*model.User, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", model.ErrInvalidCredentials, model.ErrTokenExpired)
		}
		return nil, model.ErrInvalidCredentials
	}
	if !token.Valid {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		// The id inside a valid token must still resolve to a live account
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// Refresh rotates a refresh token for a brand-new pair. The presented token
// must verify against the refresh secret AND exactly match the value stored
// on the user record; a rotated-out token fails the match, which is the
// reuse-detection mechanism. The swap is a conditional update so two
// concurrent refreshes with the same token cannot both succeed.
func (s *TokenService) Refresh(ctx context.Context, refreshTokenRaw string) (*model.TokenPair, *model.User, error) {
	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(refreshTokenRaw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.RefreshTokenSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, nil, model.ErrRefreshTokenInvalid
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, model.ErrRefreshTokenInvalid
	}

	accessToken, err := s.IssueAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken, err := s.IssueRefreshToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	rotated, err := s.userRepo.RotateRefreshToken(ctx, user.ID, refreshTokenRaw, newRefreshToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if !rotated {
		return nil, nil, model.ErrRefreshTokenReused
	}

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    s.config.AccessTokenMaxAge,
	}, user, nil
}

// RevokeSession clears the stored refresh token so subsequent refresh
// attempts with the previously issued token fail.
func (s *TokenService) RevokeSession(ctx context.Context, userID int64) error {
	return s.userRepo.SetRefreshToken(ctx, userID, "")
}
