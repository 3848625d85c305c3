package repository

import (
	"context"

	"vidstream/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// GetByIdentifier matches a user by username or email; either may be empty.
	GetByIdentifier(ctx context.Context, username, email string) (*model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// SetRefreshToken overwrites the stored refresh token unconditionally.
	// An empty token clears the session.
	SetRefreshToken(ctx context.Context, userID int64, token string) error
	// RotateRefreshToken swaps old for new only if old still matches the
	// stored value. Returns false when nothing matched, which is how refresh
	// token reuse is detected.
	RotateRefreshToken(ctx context.Context, userID int64, oldToken, newToken string) (bool, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHashed string) error
	UpdateAccount(ctx context.Context, userID int64, fullName, email string) (*model.User, error)
	UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (*model.User, error)
	UpdateCoverImage(ctx context.Context, userID int64, coverImageURL string) (*model.User, error)
}

type SubscriptionRepository interface {
	// Create returns false when the edge already existed.
	Create(ctx context.Context, subscriberID, channelID int64) (bool, error)
	Delete(ctx context.Context, subscriberID, channelID int64) error
	Exists(ctx context.Context, subscriberID, channelID int64) (bool, error)
	CountSubscribers(ctx context.Context, channelID int64) (int, error)
	CountSubscriptions(ctx context.Context, subscriberID int64) (int, error)
}

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	GetByID(ctx context.Context, videoID int64) (*model.VideoWithOwner, error)
	// RecordView bumps the view counter and upserts the viewer's
	// watch-history entry in one transaction.
	RecordView(ctx context.Context, viewerID, videoID int64) error
	GetWatchHistory(ctx context.Context, userID int64) ([]model.WatchHistoryEntry, error)
}
