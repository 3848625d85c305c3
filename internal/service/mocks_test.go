package service

import (
	"context"

	"vidstream/internal/model"
)

// Mocks implement the repository interfaces with per-test function fields,
// so each test defines exactly the behavior it needs without a database.

type mockUserRepository struct {
	createFn             func(ctx context.Context, user *model.User) error
	getByIDFn            func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn      func(ctx context.Context, username string) (*model.User, error)
	getByIdentifierFn    func(ctx context.Context, username, email string) (*model.User, error)
	existsFn             func(ctx context.Context, username, email string) (bool, error)
	setRefreshTokenFn    func(ctx context.Context, userID int64, token string) error
	rotateRefreshTokenFn func(ctx context.Context, userID int64, oldToken, newToken string) (bool, error)
	updatePasswordFn     func(ctx context.Context, userID int64, passwordHashed string) error
	updateAccountFn      func(ctx context.Context, userID int64, fullName, email string) (*model.User, error)

	createCalls       []*model.User
	setTokenCalls     []string
	rotateTokenCalls  [][2]string
	updatePassCalls   []string
	updateAvatarCalls []string
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByIdentifier(ctx context.Context, username, email string) (*model.User, error) {
	if m.getByIdentifierFn != nil {
		return m.getByIdentifierFn(ctx, username, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, username, email)
	}
	return false, nil
}

func (m *mockUserRepository) SetRefreshToken(ctx context.Context, userID int64, token string) error {
	m.setTokenCalls = append(m.setTokenCalls, token)
	if m.setRefreshTokenFn != nil {
		return m.setRefreshTokenFn(ctx, userID, token)
	}
	return nil
}

func (m *mockUserRepository) RotateRefreshToken(ctx context.Context, userID int64, oldToken, newToken string) (bool, error) {
	m.rotateTokenCalls = append(m.rotateTokenCalls, [2]string{oldToken, newToken})
	if m.rotateRefreshTokenFn != nil {
		return m.rotateRefreshTokenFn(ctx, userID, oldToken, newToken)
	}
	return true, nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHashed string) error {
	m.updatePassCalls = append(m.updatePassCalls, passwordHashed)
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, userID, passwordHashed)
	}
	return nil
}

func (m *mockUserRepository) UpdateAccount(ctx context.Context, userID int64, fullName, email string) (*model.User, error) {
	if m.updateAccountFn != nil {
		return m.updateAccountFn(ctx, userID, fullName, email)
	}
	return &model.User{ID: userID, FullName: fullName, Email: email}, nil
}

func (m *mockUserRepository) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (*model.User, error) {
	m.updateAvatarCalls = append(m.updateAvatarCalls, avatarURL)
	return &model.User{ID: userID, AvatarURL: avatarURL}, nil
}

func (m *mockUserRepository) UpdateCoverImage(ctx context.Context, userID int64, coverImageURL string) (*model.User, error) {
	return &model.User{ID: userID, CoverImageURL: coverImageURL}, nil
}

type mockSubscriptionRepository struct {
	createFn             func(ctx context.Context, subscriberID, channelID int64) (bool, error)
	deleteFn             func(ctx context.Context, subscriberID, channelID int64) error
	existsFn             func(ctx context.Context, subscriberID, channelID int64) (bool, error)
	countSubscribersFn   func(ctx context.Context, channelID int64) (int, error)
	countSubscriptionsFn func(ctx context.Context, subscriberID int64) (int, error)

	existsCalls int
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, subscriberID, channelID)
	}
	return true, nil
}

func (m *mockSubscriptionRepository) Delete(ctx context.Context, subscriberID, channelID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, subscriberID, channelID)
	}
	return nil
}

func (m *mockSubscriptionRepository) Exists(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	m.existsCalls++
	if m.existsFn != nil {
		return m.existsFn(ctx, subscriberID, channelID)
	}
	return false, nil
}

func (m *mockSubscriptionRepository) CountSubscribers(ctx context.Context, channelID int64) (int, error) {
	if m.countSubscribersFn != nil {
		return m.countSubscribersFn(ctx, channelID)
	}
	return 0, nil
}

func (m *mockSubscriptionRepository) CountSubscriptions(ctx context.Context, subscriberID int64) (int, error) {
	if m.countSubscriptionsFn != nil {
		return m.countSubscriptionsFn(ctx, subscriberID)
	}
	return 0, nil
}

type mockVideoRepository struct {
	createFn          func(ctx context.Context, video *model.Video) error
	getByIDFn         func(ctx context.Context, videoID int64) (*model.VideoWithOwner, error)
	recordViewFn      func(ctx context.Context, viewerID, videoID int64) error
	getWatchHistoryFn func(ctx context.Context, userID int64) ([]model.WatchHistoryEntry, error)

	recordViewCalls [][2]int64
}

func (m *mockVideoRepository) Create(ctx context.Context, video *model.Video) error {
	if m.createFn != nil {
		return m.createFn(ctx, video)
	}
	video.ID = 1
	return nil
}

func (m *mockVideoRepository) GetByID(ctx context.Context, videoID int64) (*model.VideoWithOwner, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, videoID)
	}
	return nil, model.ErrVideoNotFound
}

func (m *mockVideoRepository) RecordView(ctx context.Context, viewerID, videoID int64) error {
	m.recordViewCalls = append(m.recordViewCalls, [2]int64{viewerID, videoID})
	if m.recordViewFn != nil {
		return m.recordViewFn(ctx, viewerID, videoID)
	}
	return nil
}

func (m *mockVideoRepository) GetWatchHistory(ctx context.Context, userID int64) ([]model.WatchHistoryEntry, error) {
	if m.getWatchHistoryFn != nil {
		return m.getWatchHistoryFn(ctx, userID)
	}
	return nil, nil
}
