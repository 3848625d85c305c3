package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"vidstream/internal/httputil"
	"vidstream/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// userKey is the context key for the authenticated, sanitized user record
	userKey contextKey = "user"
)

// AccessTokenCookie is the cookie carrying the access token.
const AccessTokenCookie = "accessToken"

// TokenAuthenticator resolves an access token to the stored user record.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, tokenString string) (*model.User, error)
}

// Auth validates the access token and attaches the resolved user to the
// request context. The cookie is checked first (web clients), then the
// Authorization bearer header. The stored refresh token is NOT consulted
// here; only the refresh flow compares it.
func Auth(tokens TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string

			if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
				tokenString = cookie.Value
			}

			if tokenString == "" {
				authHeader := r.Header.Get("Authorization")
				if authHeader != "" {
					parts := strings.SplitN(authHeader, " ", 2)
					if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
						tokenString = parts[1]
					}
				}
			}

			if tokenString == "" {
				httputil.WriteUnauthorized(w, "Missing authentication token")
				return
			}

			user, err := tokens.Authenticate(r.Context(), tokenString)
			if err != nil {
				if errors.Is(err, model.ErrTokenExpired) {
					httputil.WriteUnauthorizedWithCode(w, model.CodeTokenExpired, "Access token has expired")
					return
				}
				httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Invalid authentication token")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the authenticated user from the request context.
func GetUserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok
}
