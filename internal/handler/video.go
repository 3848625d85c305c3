package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vidstream/internal/httputil"
	"vidstream/internal/model"
	"vidstream/internal/service"
	"vidstream/internal/transport/http/middleware"
)

// VideoHandler serves video publishing and playback metadata.
type VideoHandler struct {
	videoService *service.VideoService
	mediaService MediaUploader
	logger       *zap.Logger
}

func NewVideoHandler(videoService *service.VideoService, mediaService MediaUploader, logger *zap.Logger) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		mediaService: mediaService,
		logger:       logger,
	}
}

// Publish handles multipart video upload: the video file part is required,
// the thumbnail optional; both go through local staging to media hosting.
// POST /videos
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	maxFormSize := int64(model.MaxVideoSizeBytes+model.MaxCoverSizeBytes) + 1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	req := model.PublishVideoRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if d, err := strconv.Atoi(r.FormValue("duration")); err == nil && d > 0 {
		req.DurationSeconds = d
	}

	// Metadata is rejected before the (potentially very large) upload runs
	if strings.TrimSpace(req.Title) == "" {
		httputil.WriteBadRequest(w, "Title is required")
		return
	}

	videoFile, videoHeader, err := r.FormFile("videoFile")
	if err != nil {
		httputil.WriteBadRequest(w, "Video file is required")
		return
	}
	defer videoFile.Close()

	hosted, err := h.mediaService.UploadVideo(r.Context(), videoFile, videoHeader)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Video exceeds size limit")
		case errors.Is(err, model.ErrInvalidVideoType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidVideoType, "Unsupported video type. Allowed: mp4, webm")
		default:
			h.logger.Error("video upload failed", zap.Error(err))
			httputil.WriteInternalError(w, "Failed to upload video")
		}
		return
	}
	req.VideoURL = hosted.URL
	hostedKeys := []string{hosted.Key}

	if thumbFile, thumbHeader, err := r.FormFile("thumbnail"); err == nil {
		defer thumbFile.Close()
		thumb, uploadErr := h.mediaService.UploadThumbnail(r.Context(), thumbFile, thumbHeader)
		if uploadErr != nil {
			discardHosted(r.Context(), h.mediaService, h.logger, hostedKeys)
			switch {
			case errors.Is(uploadErr, model.ErrFileTooLarge):
				httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Thumbnail exceeds size limit")
			case errors.Is(uploadErr, model.ErrInvalidImageType):
				httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
			default:
				h.logger.Error("thumbnail upload failed", zap.Error(uploadErr))
				httputil.WriteInternalError(w, "Failed to upload thumbnail")
			}
			return
		}
		req.ThumbnailURL = thumb.URL
		hostedKeys = append(hostedKeys, thumb.Key)
	}

	video, err := h.videoService.Publish(r.Context(), owner.ID, &req)
	if err != nil {
		discardHosted(r.Context(), h.mediaService, h.logger, hostedKeys)
		if errors.Is(err, service.ErrMissingFields) {
			httputil.WriteBadRequest(w, "Title is required")
			return
		}
		h.logger.Error("publish video failed", zap.Error(err))
		httputil.WriteInternalError(w, "Failed to publish video")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, video)
}

// Get returns a video with its owner and records the view in the viewer's
// watch history.
// GET /videos/{id}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	videoID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid video ID")
		return
	}

	video, err := h.videoService.Watch(r.Context(), viewer.ID, videoID)
	if err != nil {
		if errors.Is(err, model.ErrVideoNotFound) {
			httputil.WriteNotFound(w, "Video not found")
			return
		}
		h.logger.Error("get video failed", zap.Error(err))
		httputil.WriteInternalError(w, "Failed to get video")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, video)
}
