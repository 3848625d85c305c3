package model

import "errors"

const (
	MaxAvatarSizeBytes = 5 * 1024 * 1024   // 5MB limit per media plan
	MaxCoverSizeBytes  = 10 * 1024 * 1024  // covers can be larger
	MaxVideoSizeBytes  = 200 * 1024 * 1024 // raw upload cap

	AvatarWidth  = 400
	AvatarHeight = 400
	CoverWidth   = 1280
	CoverHeight  = 720

	AvatarFolder    = "avatars"
	CoverFolder     = "covers"
	VideoFolder     = "videos"
	ThumbnailFolder = "thumbnails"

	ImageExt = ".jpg"

	MediaCacheControl = "public, max-age=31536000" // 1 year
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
	ContentTypeMP4  = "video/mp4"
	ContentTypeWebM = "video/webm"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

var allowedVideoTypes = map[string]struct{}{
	ContentTypeMP4:  {},
	ContentTypeWebM: {},
}

// Error codes for HTTP responses
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidImageType = "INVALID_IMAGE_TYPE"
	CodeInvalidVideoType = "INVALID_VIDEO_TYPE"
)

// Domain errors for media operations
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
	ErrInvalidVideoType = errors.New("invalid video type")
)

// UploadResult represents the uploaded object location.
// URL is the public-facing URL (using the R2 public endpoint),
// Key is the object key inside the bucket (useful for future deletes).
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// IsAllowedImageType reports if the provided content type is supported
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

// IsAllowedVideoType reports if the provided content type is supported
func IsAllowedVideoType(contentType string) bool {
	_, ok := allowedVideoTypes[contentType]
	return ok
}
