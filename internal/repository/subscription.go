package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vidstream/internal/model"
)

type subscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	query := `
		INSERT INTO subscriptions (subscriber_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to create subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, subscriberID, channelID int64) error {
	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`
	result, err := r.db.ExecContext(ctx, query, subscriberID, channelID)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotSubscribed
	}

	return nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription existence: %w", err)
	}
	return exists, nil
}

// CountSubscribers counts the subscriber edges pointing at a channel.
func (r *subscriptionRepository) CountSubscribers(ctx context.Context, channelID int64) (int, error) {
	query := `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`
	var count int
	err := r.db.GetContext(ctx, &count, query, channelID)
	if err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}

// CountSubscriptions counts the channels a user subscribes to.
func (r *subscriptionRepository) CountSubscriptions(ctx context.Context, subscriberID int64) (int, error) {
	query := `SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`
	var count int
	err := r.db.GetContext(ctx, &count, query, subscriberID)
	if err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count, nil
}
