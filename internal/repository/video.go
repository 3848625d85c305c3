package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"vidstream/internal/model"
)

type videoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, v *model.Video) error {
	query := `
		INSERT INTO videos (owner_id, title, description, video_url, thumbnail_url, duration_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, view_count, created_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		v.OwnerID,
		v.Title,
		v.Description,
		v.VideoURL,
		v.ThumbnailURL,
		v.DurationSeconds,
	)

	if err := row.Scan(&v.ID, &v.ViewCount, &v.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}

	return nil
}

// videoOwnerRow is the flat scan target for video+owner joins.
type videoOwnerRow struct {
	model.Video
	OwnerUsername  string    `db:"owner_username"`
	OwnerFullName  string    `db:"owner_full_name"`
	OwnerAvatarURL string    `db:"owner_avatar_url"`
	WatchedAt      time.Time `db:"watched_at"`
}

func (row *videoOwnerRow) toVideoWithOwner() model.VideoWithOwner {
	return model.VideoWithOwner{
		Video: row.Video,
		Owner: model.VideoOwner{
			ID:        row.OwnerID,
			Username:  row.OwnerUsername,
			FullName:  row.OwnerFullName,
			AvatarURL: row.OwnerAvatarURL,
		},
	}
}

func (r *videoRepository) GetByID(ctx context.Context, videoID int64) (*model.VideoWithOwner, error) {
	query := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
		       v.duration_seconds, v.view_count, v.created_at,
		       u.username AS owner_username, u.full_name AS owner_full_name, u.avatar_url AS owner_avatar_url
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = $1
	`

	var row videoOwnerRow
	err := r.db.GetContext(ctx, &row, query, videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video by id: %w", err)
	}

	video := row.toVideoWithOwner()
	return &video, nil
}

// RecordView bumps the counter and upserts the watch-history entry in one
// transaction. Re-watching moves the entry to the front of the history.
func (r *videoRepository) RecordView(ctx context.Context, viewerID, videoID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `UPDATE videos SET view_count = view_count + 1 WHERE id = $1`, videoID)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrVideoNotFound
	}

	upsert := `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = NOW()
	`
	if _, err := tx.ExecContext(ctx, upsert, viewerID, videoID); err != nil {
		return fmt.Errorf("failed to upsert watch history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetWatchHistory joins each referenced video with its owner, projecting only
// the owner display fields, most recently watched first.
func (r *videoRepository) GetWatchHistory(ctx context.Context, userID int64) ([]model.WatchHistoryEntry, error) {
	query := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
		       v.duration_seconds, v.view_count, v.created_at,
		       u.username AS owner_username, u.full_name AS owner_full_name, u.avatar_url AS owner_avatar_url,
		       h.watched_at
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE h.user_id = $1
		ORDER BY h.watched_at DESC
	`

	var rows []videoOwnerRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}

	history := make([]model.WatchHistoryEntry, 0, len(rows))
	for i := range rows {
		history = append(history, model.WatchHistoryEntry{
			VideoWithOwner: rows[i].toVideoWithOwner(),
			WatchedAt:      rows[i].WatchedAt,
		})
	}

	return history, nil
}
