package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"vidstream/internal/model"
)

const userColumns = `id, username, email, full_name, password_hashed, avatar_url, cover_image_url, refresh_token, created_at, updated_at`

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. Unique-constraint violations are mapped to the
// conflict sentinels so the pre-insert existence check has a race-free backstop.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, full_name, password_hashed, avatar_url, cover_image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		u.Username,
		u.Email,
		u.FullName,
		u.PasswordHashed,
		u.AvatarURL,
		u.CoverImageURL,
	)

	err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			if strings.Contains(pqErr.Constraint, "email") {
				return model.ErrEmailExists
			}
			return model.ErrUsernameExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByUsername retrieves a user by their username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &u, nil
}

// GetByIdentifier matches a user by username or email, whichever is set.
func (r *userRepository) GetByIdentifier(ctx context.Context, username, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by identifier: %w", err)
	}

	return &u, nil
}

// ExistsByUsernameOrEmail checks whether either identifier is already taken
func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username, email)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}

// SetRefreshToken overwrites the stored refresh token. Only the token column
// is touched, so no other field needs re-validation.
func (r *userRepository) SetRefreshToken(ctx context.Context, userID int64, token string) error {
	query := `UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, token, userID)
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// RotateRefreshToken is a compare-and-swap: the new token is written only if
// the old one still matches. Two concurrent refreshes with the same token
// cannot both win.
func (r *userRepository) RotateRefreshToken(ctx context.Context, userID int64, oldToken, newToken string) (bool, error) {
	query := `UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE id = $2 AND refresh_token = $3 AND refresh_token <> ''`

	result, err := r.db.ExecContext(ctx, query, newToken, userID, oldToken)
	if err != nil {
		return false, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHashed string) error {
	query := `UPDATE users SET password_hashed = $1, updated_at = NOW() WHERE id = $2`

	if _, err := r.db.ExecContext(ctx, query, passwordHashed, userID); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (r *userRepository) UpdateAccount(ctx context.Context, userID int64, fullName, email string) (*model.User, error) {
	query := `
		UPDATE users SET full_name = $1, email = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns

	var u model.User
	err := r.db.GetContext(ctx, &u, query, fullName, email, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, model.ErrEmailExists
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return &u, nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (*model.User, error) {
	return r.updateImage(ctx, userID, "avatar_url", avatarURL)
}

func (r *userRepository) UpdateCoverImage(ctx context.Context, userID int64, coverImageURL string) (*model.User, error) {
	return r.updateImage(ctx, userID, "cover_image_url", coverImageURL)
}

func (r *userRepository) updateImage(ctx context.Context, userID int64, column, url string) (*model.User, error) {
	// column is one of two fixed names, never user input
	query := fmt.Sprintf(`UPDATE users SET %s = $1, updated_at = NOW() WHERE id = $2 RETURNING %s`, column, userColumns)

	var u model.User
	err := r.db.GetContext(ctx, &u, query, url, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update %s: %w", column, err)
	}

	return &u, nil
}
