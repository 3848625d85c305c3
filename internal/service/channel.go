package service

import (
	"context"
	"strings"

	"vidstream/internal/model"
	"vidstream/internal/repository"
)

// ChannelService computes the derived channel views and manages the
// subscription edges they are built from. All reads are recomputed per call;
// nothing here is cached.
type ChannelService struct {
	userRepo repository.UserRepository
	subRepo  repository.SubscriptionRepository
}

func NewChannelService(userRepo repository.UserRepository, subRepo repository.SubscriptionRepository) *ChannelService {
	return &ChannelService{
		userRepo: userRepo,
		subRepo:  subRepo,
	}
}

// GetProfile builds the channel view for a target username as seen by the
// viewer: subscriber/subscription counts plus whether the viewer subscribes
// to the channel. A viewer looking at their own channel always reads
// IsSubscribed as false.
func (s *ChannelService) GetProfile(ctx context.Context, viewerID int64, targetUsername string) (*model.ChannelProfile, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(targetUsername)))
	if err != nil {
		return nil, err
	}

	subscriberCount, err := s.subRepo.CountSubscribers(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	subscribedToCount, err := s.subRepo.CountSubscriptions(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := &model.ChannelProfile{
		ID:                user.ID,
		Username:          user.Username,
		FullName:          user.FullName,
		Email:             user.Email,
		AvatarURL:         user.AvatarURL,
		CoverImageURL:     user.CoverImageURL,
		SubscriberCount:   subscriberCount,
		SubscribedToCount: subscribedToCount,
	}

	if viewerID != user.ID {
		isSubscribed, err := s.subRepo.Exists(ctx, viewerID, user.ID)
		if err != nil {
			return nil, err
		}
		profile.IsSubscribed = isSubscribed
	}

	return profile, nil
}

// Subscribe creates a subscriber→channel edge.
func (s *ChannelService) Subscribe(ctx context.Context, subscriberID int64, channelUsername string) error {
	channel, err := s.userRepo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(channelUsername)))
	if err != nil {
		return err
	}

	if subscriberID == channel.ID {
		return model.ErrCannotSubscribeSelf
	}

	inserted, err := s.subRepo.Create(ctx, subscriberID, channel.ID)
	if err != nil {
		return err
	}
	if !inserted {
		return model.ErrAlreadySubscribed
	}

	return nil
}

// Unsubscribe removes a subscriber→channel edge.
func (s *ChannelService) Unsubscribe(ctx context.Context, subscriberID int64, channelUsername string) error {
	channel, err := s.userRepo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(channelUsername)))
	if err != nil {
		return err
	}

	return s.subRepo.Delete(ctx, subscriberID, channel.ID)
}
