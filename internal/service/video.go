package service

import (
	"context"
	"strings"

	"vidstream/internal/model"
	"vidstream/internal/repository"
)

// VideoService handles video publishing and watch-history writes.
type VideoService struct {
	repo repository.VideoRepository
}

func NewVideoService(repo repository.VideoRepository) *VideoService {
	return &VideoService{repo: repo}
}

// Publish stores the metadata of an already-hosted video.
func (s *VideoService) Publish(ctx context.Context, ownerID int64, req *model.PublishVideoRequest) (*model.Video, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrMissingFields
	}

	video := &model.Video{
		OwnerID:         ownerID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		VideoURL:        req.VideoURL,
		ThumbnailURL:    req.ThumbnailURL,
		DurationSeconds: req.DurationSeconds,
	}

	if err := s.repo.Create(ctx, video); err != nil {
		return nil, err
	}

	return video, nil
}

// Watch returns the video with its owner and records the view in the
// viewer's watch history.
func (s *VideoService) Watch(ctx context.Context, viewerID, videoID int64) (*model.VideoWithOwner, error) {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RecordView(ctx, viewerID, videoID); err != nil {
		return nil, err
	}
	video.ViewCount++

	return video, nil
}

// WatchHistory returns the viewer's history, most recently watched first.
func (s *VideoService) WatchHistory(ctx context.Context, viewerID int64) ([]model.WatchHistoryEntry, error) {
	return s.repo.GetWatchHistory(ctx, viewerID)
}
