package model

import (
	"errors"
	"time"
)

type Subscription struct {
	SubscriberID int64     `db:"subscriber_id" json:"subscriber_id"`
	ChannelID    int64     `db:"channel_id" json:"channel_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ChannelProfile is the derived channel view. It is recomputed on every
// request from the users and subscriptions tables, never persisted.
type ChannelProfile struct {
	ID                int64  `db:"id" json:"id"`
	Username          string `db:"username" json:"username"`
	FullName          string `db:"full_name" json:"full_name"`
	Email             string `db:"email" json:"email"`
	AvatarURL         string `db:"avatar_url" json:"avatar_url"`
	CoverImageURL     string `db:"cover_image_url" json:"cover_image_url"`
	SubscriberCount   int    `json:"subscriber_count"`
	SubscribedToCount int    `json:"subscribed_to_count"`
	IsSubscribed      bool   `json:"is_subscribed"`
}

var (
	ErrAlreadySubscribed   = errors.New("already subscribed to this channel")
	ErrNotSubscribed       = errors.New("not subscribed to this channel")
	ErrCannotSubscribeSelf = errors.New("cannot subscribe to your own channel")
)
