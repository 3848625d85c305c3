package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vidstream/internal/httputil"
	"vidstream/internal/model"
	"vidstream/internal/service"
	"vidstream/internal/transport/http/middleware"
)

// ChannelHandler serves the derived channel views and the subscription
// actions that feed them.
type ChannelHandler struct {
	channelService *service.ChannelService
	videoService   *service.VideoService
	logger         *zap.Logger
}

func NewChannelHandler(channelService *service.ChannelService, videoService *service.VideoService, logger *zap.Logger) *ChannelHandler {
	return &ChannelHandler{
		channelService: channelService,
		videoService:   videoService,
		logger:         logger,
	}
}

// GetProfile returns the channel view for a username as seen by the viewer.
// GET /c/{username}
func (h *ChannelHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	username := chi.URLParam(r, "username")
	if username == "" {
		httputil.WriteBadRequest(w, "Username is required")
		return
	}

	profile, err := h.channelService.GetProfile(r.Context(), viewer.ID, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "Channel does not exist")
			return
		}
		h.logger.Error("get channel profile failed", zap.Error(err))
		httputil.WriteInternalError(w, "Failed to get channel profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// Subscribe creates a viewer→channel subscription edge.
// POST /c/{username}/subscribe
func (h *ChannelHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	username := chi.URLParam(r, "username")
	if err := h.channelService.Subscribe(r.Context(), viewer.ID, username); err != nil {
		switch {
		case errors.Is(err, model.ErrCannotSubscribeSelf):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrAlreadySubscribed):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "Channel does not exist")
		default:
			h.logger.Error("subscribe failed", zap.Error(err))
			httputil.WriteInternalError(w, "Failed to subscribe")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Subscribed successfully",
	})
}

// Unsubscribe removes a viewer→channel subscription edge.
// DELETE /c/{username}/subscribe
func (h *ChannelHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	username := chi.URLParam(r, "username")
	if err := h.channelService.Unsubscribe(r.Context(), viewer.ID, username); err != nil {
		switch {
		case errors.Is(err, model.ErrNotSubscribed):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "Channel does not exist")
		default:
			h.logger.Error("unsubscribe failed", zap.Error(err))
			httputil.WriteInternalError(w, "Failed to unsubscribe")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Unsubscribed successfully",
	})
}

// GetWatchHistory returns the viewer's history with owner fields joined in.
// GET /history
func (h *ChannelHandler) GetWatchHistory(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	history, err := h.videoService.WatchHistory(r.Context(), viewer.ID)
	if err != nil {
		h.logger.Error("get watch history failed", zap.Error(err))
		httputil.WriteInternalError(w, "Failed to get watch history")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"history": history,
	})
}
