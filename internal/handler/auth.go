package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"vidstream/internal/config"
	"vidstream/internal/httputil"
	"vidstream/internal/model"
	"vidstream/internal/service"
	"vidstream/internal/transport/http/middleware"
)

// RefreshTokenCookie is the cookie carrying the refresh token.
const RefreshTokenCookie = "refreshToken"

// AuthHandler groups the session lifecycle endpoints and their dependencies.
type AuthHandler struct {
	userService  *service.UserService
	tokenService *service.TokenService
	mediaService MediaUploader
	config       *config.Config
	logger       *zap.Logger
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(userService *service.UserService, tokenService *service.TokenService, mediaService MediaUploader, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
		mediaService: mediaService,
		config:       cfg,
		logger:       logger,
	}
}

// Register handles multipart sign-up. The avatar file part is required, the
// cover image optional; both are staged locally and forwarded to media
// hosting before the user row is created.
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	maxFormSize := int64(model.MaxAvatarSizeBytes+model.MaxCoverSizeBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Upload exceeds size limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	req := model.RegisterRequest{
		FullName: r.FormValue("fullName"),
		Email:    r.FormValue("email"),
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}

	// Text fields and identifier conflicts are rejected before any media is
	// uploaded, so a refused registration never hosts an object.
	if err := h.userService.ValidateNewUser(r.Context(), &req); err != nil {
		h.writeRegisterError(w, err)
		return
	}

	avatarFile, avatarHeader, err := r.FormFile("avatar")
	if err != nil {
		httputil.WriteBadRequest(w, "Avatar file is required")
		return
	}
	defer avatarFile.Close()

	avatar, err := h.mediaService.UploadAvatar(r.Context(), avatarFile, avatarHeader)
	if err != nil {
		h.writeUploadError(w, err, "avatar")
		return
	}
	req.AvatarURL = avatar.URL
	hostedKeys := []string{avatar.Key}

	// Cover image is optional; absent means empty string persisted
	if coverFile, coverHeader, err := r.FormFile("coverImage"); err == nil {
		defer coverFile.Close()
		cover, uploadErr := h.mediaService.UploadCoverImage(r.Context(), coverFile, coverHeader)
		if uploadErr != nil {
			discardHosted(r.Context(), h.mediaService, h.logger, hostedKeys)
			h.writeUploadError(w, uploadErr, "cover image")
			return
		}
		req.CoverImageURL = cover.URL
		hostedKeys = append(hostedKeys, cover.Key)
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		// Lost the pre-check race or hit a write error; the objects already
		// hosted for this request are orphans and get removed.
		discardHosted(r.Context(), h.mediaService, h.logger, hostedKeys)
		h.writeRegisterError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) writeRegisterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		httputil.WriteBadRequest(w, "All fields are compulsory")
	case errors.Is(err, model.ErrUsernameExists), errors.Is(err, model.ErrEmailExists):
		httputil.WriteConflict(w, "User with email or username already exists")
	default:
		h.logger.Error("register failed", zap.Error(err))
		httputil.WriteInternalError(w, "Failed to register user")
	}
}

// Login authenticates by username or email and opens a session: both tokens
// are returned in the body and set as HttpOnly+Secure cookies.
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Username == "" && req.Email == "" {
		httputil.WriteBadRequest(w, "Username or email is required")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User does not exist")
		case errors.Is(err, model.ErrInvalidCredentials):
			httputil.WriteUnauthorized(w, "Invalid user credentials")
		default:
			h.logger.Error("login failed", zap.Error(err))
			httputil.WriteInternalError(w, "Failed to login")
		}
		return
	}

	pair, err := h.tokenService.IssueSession(r.Context(), user)
	if err != nil {
		h.logger.Error("token issuance failed", zap.Error(err))
		httputil.WriteInternalError(w, "Failed to generate tokens")
		return
	}

	h.setAuthCookies(w, pair)
	httputil.WriteJSON(w, http.StatusOK, model.LoginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// Logout clears the stored refresh token and both cookies. Always succeeds
// once the identity resolved.
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	if err := h.tokenService.RevokeSession(r.Context(), user.ID); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		httputil.WriteInternalError(w, "Failed to logout")
		return
	}

	h.clearAuthCookies(w)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// Refresh rotates the refresh token for a brand-new pair. The token comes
// from the cookie or the JSON body.
// POST /refresh-token
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil && cookie.Value != "" {
		refreshToken = cookie.Value
	} else {
		var req model.RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	if refreshToken == "" {
		httputil.WriteUnauthorized(w, "Refresh token is required")
		return
	}

	pair, _, err := h.tokenService.Refresh(r.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrRefreshTokenInvalid):
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Invalid refresh token")
		case errors.Is(err, model.ErrRefreshTokenReused):
			httputil.WriteUnauthorizedWithCode(w, model.CodeTokenReused, "Refresh token is expired or used")
		default:
			h.logger.Error("refresh failed", zap.Error(err))
			httputil.WriteInternalError(w, "Failed to refresh tokens")
		}
		return
	}

	h.setAuthCookies(w, pair)
	httputil.WriteJSON(w, http.StatusOK, pair)
}

// ChangePassword verifies the old password and persists a re-hash of the new
// one.
// POST /change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	err := h.userService.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidCredentials):
			httputil.WriteBadRequest(w, "Invalid old password")
		case errors.Is(err, service.ErrMissingFields):
			httputil.WriteBadRequest(w, "New password is required")
		default:
			h.logger.Error("change password failed", zap.Error(err))
			httputil.WriteInternalError(w, "Failed to change password")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Password changed successfully",
	})
}

func (h *AuthHandler) writeUploadError(w http.ResponseWriter, err error, part string) {
	switch {
	case errors.Is(err, model.ErrFileTooLarge):
		httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Uploaded "+part+" exceeds size limit")
	case errors.Is(err, model.ErrInvalidImageType):
		httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
	default:
		h.logger.Error("media upload failed", zap.Error(err))
		httputil.WriteInternalError(w, "Failed to upload "+part)
	}
}

// setAuthCookies sets both tokens as HttpOnly, Secure cookies.
func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, pair *model.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   h.config.AccessTokenMaxAge,
		HttpOnly: true,
		Secure:   true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   h.config.RefreshTokenMaxAge,
		HttpOnly: true,
		Secure:   true,
	})
}

// clearAuthCookies expires both token cookies with the same attributes they
// were set with.
func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
		})
	}
}
