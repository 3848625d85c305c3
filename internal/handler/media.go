package handler

import (
	"context"
	"mime/multipart"

	"go.uber.org/zap"

	"vidstream/internal/model"
)

// MediaUploader is the slice of the media service the handlers use. Uploads
// return the hosted location; the Delete methods undo them when a later step
// fails or an image is replaced.
type MediaUploader interface {
	UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)
	UploadCoverImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)
	UploadThumbnail(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)
	UploadVideo(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)
	DeleteObject(ctx context.Context, key string) error
	DeleteByURL(ctx context.Context, url string) error
}

// discardHosted deletes objects uploaded earlier in a request whose later
// steps failed, so rejected requests leave nothing behind in the bucket.
// Best effort: a failed delete is logged, not surfaced.
func discardHosted(ctx context.Context, media MediaUploader, logger *zap.Logger, keys []string) {
	for _, key := range keys {
		if err := media.DeleteObject(ctx, key); err != nil {
			logger.Warn("failed to delete orphaned object", zap.String("key", key), zap.Error(err))
		}
	}
}
