package handler

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"vidstream/internal/httputil"
	"vidstream/internal/model"
	"vidstream/internal/service"
	"vidstream/internal/transport/http/middleware"
)

// UserHandler groups the account maintenance endpoints.
type UserHandler struct {
	userService  *service.UserService
	mediaService MediaUploader
	logger       *zap.Logger
}

func NewUserHandler(userService *service.UserService, mediaService MediaUploader, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService:  userService,
		mediaService: mediaService,
		logger:       logger,
	}
}

// CurrentUser returns the authenticated user from context.
// GET /current-user
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// UpdateAccount updates full name and email.
// PATCH /update-account
func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	updated, err := h.userService.UpdateAccount(r.Context(), user.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			httputil.WriteBadRequest(w, "Full name and email are required")
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteConflict(w, "Email already in use")
		default:
			h.logger.Error("update account failed", zap.Error(err))
			httputil.WriteInternalError(w, "Failed to update account")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, updated)
}

// UpdateAvatar replaces the avatar.
// PATCH /avatar
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.mediaService.UploadAvatar, h.userService.UpdateAvatar,
		func(u *model.User) string { return u.AvatarURL })
}

// UpdateCoverImage replaces the cover image.
// PATCH /cover-image
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.mediaService.UploadCoverImage, h.userService.UpdateCoverImage,
		func(u *model.User) string { return u.CoverImageURL })
}

type uploadFunc func(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)

type persistFunc func(ctx context.Context, userID int64, url string) (*model.User, error)

func (h *UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field string, upload uploadFunc, persist persistFunc, oldURL func(*model.User) string) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	maxFormSize := int64(model.MaxCoverSizeBytes) + 1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		httputil.WriteBadRequest(w, field+" file is required")
		return
	}
	defer file.Close()

	result, err := upload(r.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Uploaded file exceeds size limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			h.logger.Error("media upload failed", zap.Error(err))
			httputil.WriteInternalError(w, "Failed to upload file")
		}
		return
	}

	updated, err := persist(r.Context(), user.ID, result.URL)
	if err != nil {
		discardHosted(r.Context(), h.mediaService, h.logger, []string{result.Key})
		h.logger.Error("persist image url failed", zap.Error(err))
		httputil.WriteInternalError(w, "Failed to update image")
		return
	}

	// The replaced object has no remaining reference; remove it
	if old := oldURL(user); old != "" && old != result.URL {
		if err := h.mediaService.DeleteByURL(r.Context(), old); err != nil {
			h.logger.Warn("failed to delete replaced object", zap.String("url", old), zap.Error(err))
		}
	}

	httputil.WriteJSON(w, http.StatusOK, updated)
}
