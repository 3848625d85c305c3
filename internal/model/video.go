package model

import (
	"errors"
	"time"
)

type Video struct {
	ID              int64     `db:"id" json:"id"`
	OwnerID         int64     `db:"owner_id" json:"owner_id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	VideoURL        string    `db:"video_url" json:"video_url"`
	ThumbnailURL    string    `db:"thumbnail_url" json:"thumbnail_url"`
	DurationSeconds int       `db:"duration_seconds" json:"duration_seconds"`
	ViewCount       int64     `db:"view_count" json:"view_count"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// VideoOwner carries only the owner display fields projected into joined
// video reads.
type VideoOwner struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// VideoWithOwner is a video joined with its owner's display fields.
type VideoWithOwner struct {
	Video
	Owner VideoOwner `json:"owner"`
}

// WatchHistoryEntry is one item of a user's watch history, most recent first.
type WatchHistoryEntry struct {
	VideoWithOwner
	WatchedAt time.Time `json:"watched_at"`
}

// PublishVideoRequest represents the metadata of POST /videos. Media URLs
// are filled in after upload.
type PublishVideoRequest struct {
	Title           string
	Description     string
	DurationSeconds int
	VideoURL        string
	ThumbnailURL    string
}

var ErrVideoNotFound = errors.New("video not found")
