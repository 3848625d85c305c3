package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"vidstream/internal/config"
	domain "vidstream/internal/model"
)

// MediaService stages uploads to local temp files and forwards them to
// Cloudflare R2. Only the hosted URL is persisted, never the bytes.
type MediaService struct {
	s3Client *s3.Client
	bucket   string

	publicURL string
	stageDir  string
}

// NewMediaService constructs an S3-compatible client for Cloudflare R2.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" || cfg.R2PublicURL == "" {
		return nil, fmt.Errorf("missing Cloudflare R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MediaService{
		s3Client:  s3Client,
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
		stageDir:  cfg.UploadTempDir,
	}, nil
}

// UploadAvatar stages, normalizes to a square JPEG, and uploads.
func (s *MediaService) UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error) {
	return s.uploadImage(ctx, file, header, domain.MaxAvatarSizeBytes, domain.AvatarWidth, domain.AvatarHeight, domain.AvatarFolder)
}

// UploadCoverImage stages, normalizes to a wide JPEG, and uploads.
func (s *MediaService) UploadCoverImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error) {
	return s.uploadImage(ctx, file, header, domain.MaxCoverSizeBytes, domain.CoverWidth, domain.CoverHeight, domain.CoverFolder)
}

// UploadThumbnail uses the cover pipeline with the thumbnail folder.
func (s *MediaService) UploadThumbnail(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error) {
	return s.uploadImage(ctx, file, header, domain.MaxCoverSizeBytes, domain.CoverWidth, domain.CoverHeight, domain.ThumbnailFolder)
}

func (s *MediaService) uploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader, maxSize int64, width, height int, folder string) (*domain.UploadResult, error) {
	stagedPath, contentType, err := s.stage(file, header, maxSize)
	if err != nil {
		return nil, err
	}
	defer os.Remove(stagedPath)

	if !domain.IsAllowedImageType(contentType) {
		return nil, domain.ErrInvalidImageType
	}

	img, err := imaging.Open(stagedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	jpegPath := stagedPath + domain.ImageExt
	if err := imaging.Save(resized, jpegPath, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	defer os.Remove(jpegPath)

	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), domain.ImageExt)
	if err := s.putFile(ctx, key, jpegPath, domain.ContentTypeJPEG); err != nil {
		return nil, err
	}

	return &domain.UploadResult{URL: fmt.Sprintf("%s/%s", s.publicURL, key), Key: key}, nil
}

// UploadVideo stages the raw file and streams it to R2 unchanged.
func (s *MediaService) UploadVideo(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error) {
	stagedPath, contentType, err := s.stage(file, header, domain.MaxVideoSizeBytes)
	if err != nil {
		return nil, err
	}
	defer os.Remove(stagedPath)

	if !domain.IsAllowedVideoType(contentType) {
		return nil, domain.ErrInvalidVideoType
	}

	ext := ".mp4"
	if contentType == domain.ContentTypeWebM {
		ext = ".webm"
	}

	key := fmt.Sprintf("%s/%s%s", domain.VideoFolder, uuid.NewString(), ext)
	if err := s.putFile(ctx, key, stagedPath, contentType); err != nil {
		return nil, err
	}

	return &domain.UploadResult{URL: fmt.Sprintf("%s/%s", s.publicURL, key), Key: key}, nil
}

// stage copies the multipart part to a temp file with size enforcement and
// sniffs the content type. Callers remove the staged file when done.
func (s *MediaService) stage(file multipart.File, header *multipart.FileHeader, maxSize int64) (string, string, error) {
	if header.Size > maxSize {
		return "", "", domain.ErrFileTooLarge
	}

	tmp, err := os.CreateTemp(s.stageDir, "upload-*")
	if err != nil {
		return "", "", fmt.Errorf("failed to create staging file: %w", err)
	}

	written, err := io.Copy(tmp, io.LimitReader(file, maxSize+1))
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", "", fmt.Errorf("failed to stage upload: %w", err)
	}
	if written > maxSize {
		os.Remove(tmp.Name())
		return "", "", domain.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if contentType == "" {
		contentType, err = sniffContentType(tmp.Name())
		if err != nil {
			os.Remove(tmp.Name())
			return "", "", err
		}
	}

	return tmp.Name(), contentType, nil
}

func sniffContentType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open staged file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read staged file: %w", err)
	}

	contentType := http.DetectContentType(buf[:n])
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	return contentType, nil
}

// putFile uploads a staged file to R2 with metadata.
func (s *MediaService) putFile(ctx context.Context, key, path, contentType string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open staged file: %w", err)
	}
	defer f.Close()

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         f,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(domain.MediaCacheControl),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to r2: %w", err)
	}
	return nil
}

// DeleteByURL removes a hosted object given its public URL. URLs outside the
// configured public host are ignored.
func (s *MediaService) DeleteByURL(ctx context.Context, url string) error {
	key := strings.TrimPrefix(url, s.publicURL+"/")
	if key == url {
		return nil
	}
	return s.DeleteObject(ctx, key)
}

// DeleteObject removes an object by key.
func (s *MediaService) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from r2: %w", err)
	}
	return nil
}
