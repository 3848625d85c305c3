package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidstream/internal/config"
	"vidstream/internal/model"
)

func testTokenConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:  "access-secret-for-tests",
		RefreshTokenSecret: "refresh-secret-for-tests",
		AccessTokenMaxAge:  900,
		RefreshTokenMaxAge: 2592000,
	}
}

func testTokenUser() *model.User {
	return &model.User{
		ID:       42,
		Username: "creator",
		Email:    "creator@example.com",
		FullName: "Content Creator",
	}
}

func TestTokenService_IssueSession(t *testing.T) {
	mockRepo := &mockUserRepository{}
	svc := NewTokenService(mockRepo, testTokenConfig())
	user := testTokenUser()

	pair, err := svc.IssueSession(context.Background(), user)
	require.NoError(t, err)
	require.NotNil(t, pair)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, 900, pair.ExpiresIn)

	// The freshly issued refresh token is persisted on the user record
	require.Len(t, mockRepo.setTokenCalls, 1)
	assert.Equal(t, pair.RefreshToken, mockRepo.setTokenCalls[0])
}

func TestTokenService_AccessTokenClaims(t *testing.T) {
	svc := NewTokenService(&mockUserRepository{}, testTokenConfig())
	user := testTokenUser()

	tokenString, err := svc.IssueAccessToken(user)
	require.NoError(t, err)

	claims := &AccessClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("access-secret-for-tests"), nil
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "creator", claims.Username)
	assert.Equal(t, "creator@example.com", claims.Email)
	assert.Equal(t, "Content Creator", claims.FullName)
	assert.WithinDuration(t, time.Now().Add(900*time.Second), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenService_RefreshTokenClaims(t *testing.T) {
	svc := NewTokenService(&mockUserRepository{}, testTokenConfig())

	tokenString, err := svc.IssueRefreshToken(testTokenUser())
	require.NoError(t, err)

	claims := &RefreshClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("refresh-secret-for-tests"), nil
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	// Refresh tokens carry identity only
	assert.Empty(t, claims.Audience)
}

func TestTokenService_Authenticate(t *testing.T) {
	user := testTokenUser()
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, model.ErrUserNotFound
		},
	}
	svc := NewTokenService(mockRepo, testTokenConfig())

	t.Run("valid token resolves the user", func(t *testing.T) {
		tokenString, err := svc.IssueAccessToken(user)
		require.NoError(t, err)

		resolved, err := svc.Authenticate(context.Background(), tokenString)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		refresh, err := svc.IssueRefreshToken(user)
		require.NoError(t, err)

		_, err = svc.Authenticate(context.Background(), refresh)
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("token for a deleted user", func(t *testing.T) {
		ghost := &model.User{ID: 999, Username: "ghost"}
		tokenString, err := svc.IssueAccessToken(ghost)
		require.NoError(t, err)

		_, err = svc.Authenticate(context.Background(), tokenString)
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("expired token", func(t *testing.T) {
		cfg := testTokenConfig()
		cfg.AccessTokenMaxAge = -10
		expiredSvc := NewTokenService(mockRepo, cfg)

		tokenString, err := expiredSvc.IssueAccessToken(user)
		require.NoError(t, err)

		_, err = svc.Authenticate(context.Background(), tokenString)
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
		assert.ErrorIs(t, err, model.ErrTokenExpired)
	})
}

func TestTokenService_Refresh_Rotation(t *testing.T) {
	user := testTokenUser()
	stored := ""

	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, model.ErrUserNotFound
		},
		setRefreshTokenFn: func(ctx context.Context, userID int64, token string) error {
			stored = token
			return nil
		},
		// Exact-match compare-and-swap, like the SQL conditional update
		rotateRefreshTokenFn: func(ctx context.Context, userID int64, oldToken, newToken string) (bool, error) {
			if stored == "" || stored != oldToken {
				return false, nil
			}
			stored = newToken
			return true, nil
		},
	}
	svc := NewTokenService(mockRepo, testTokenConfig())

	pair, err := svc.IssueSession(context.Background(), user)
	require.NoError(t, err)
	firstRefresh := pair.RefreshToken

	// First rotation succeeds and replaces the stored token
	newPair, resolved, err := svc.Refresh(context.Background(), firstRefresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, newPair.RefreshToken, stored)

	// The new token is good for another rotation
	thirdPair, _, err := svc.Refresh(context.Background(), newPair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, thirdPair.RefreshToken, stored)

	// A verified token that no longer matches the stored value is reuse
	stored = "rotated-out-elsewhere"
	_, _, err = svc.Refresh(context.Background(), thirdPair.RefreshToken)
	assert.ErrorIs(t, err, model.ErrRefreshTokenReused)
}

func TestTokenService_Refresh_Invalid(t *testing.T) {
	user := testTokenUser()
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return user, nil
		},
	}
	svc := NewTokenService(mockRepo, testTokenConfig())

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := svc.Refresh(context.Background(), "garbage")
		assert.ErrorIs(t, err, model.ErrRefreshTokenInvalid)
	})

	t.Run("access token signed with the wrong secret", func(t *testing.T) {
		access, err := svc.IssueAccessToken(user)
		require.NoError(t, err)

		_, _, err = svc.Refresh(context.Background(), access)
		assert.ErrorIs(t, err, model.ErrRefreshTokenInvalid)
	})

	t.Run("user no longer exists", func(t *testing.T) {
		goneRepo := &mockUserRepository{}
		goneSvc := NewTokenService(goneRepo, testTokenConfig())

		refresh, err := goneSvc.IssueRefreshToken(user)
		require.NoError(t, err)

		_, _, err = goneSvc.Refresh(context.Background(), refresh)
		assert.ErrorIs(t, err, model.ErrRefreshTokenInvalid)
	})
}

func TestTokenService_RevokeSession(t *testing.T) {
	mockRepo := &mockUserRepository{}
	svc := NewTokenService(mockRepo, testTokenConfig())

	require.NoError(t, svc.RevokeSession(context.Background(), 42))

	// Logout clears the stored token, so later refreshes cannot match
	require.Len(t, mockRepo.setTokenCalls, 1)
	assert.Equal(t, "", mockRepo.setTokenCalls[0])
}
