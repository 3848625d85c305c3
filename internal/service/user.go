package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"vidstream/internal/model"
	"vidstream/internal/repository"
)

// UserService handles business logic for user accounts
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// ErrMissingFields is surfaced as a 400 when any mandatory registration
// field is blank after trimming.
var ErrMissingFields = fmt.Errorf("all fields are required")

// ValidateNewUser checks the mandatory fields and that neither identifier is
// taken, without creating anything. Callers run it before expensive work like
// media uploads; Register repeats it, and the unique constraints are the
// race-free backstop.
func (s *UserService) ValidateNewUser(ctx context.Context, req *model.RegisterRequest) error {
	for _, field := range []string{req.FullName, req.Email, req.Username, req.Password} {
		if strings.TrimSpace(field) == "" {
			return ErrMissingFields
		}
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.TrimSpace(req.Email)

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return model.ErrUsernameExists
	}

	return nil
}

// Register creates a new user account. The username is lower-cased before
// storage so uniqueness is case-insensitive, and the password is stored only
// as a bcrypt hash.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if err := s.ValidateNewUser(ctx, req); err != nil {
		return nil, err
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.TrimSpace(req.Email)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		FullName:       strings.TrimSpace(req.FullName),
		PasswordHashed: string(hashedPassword),
		AvatarURL:      req.AvatarURL,
		CoverImageURL:  req.CoverImageURL,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user by username or email plus password.
// A missing account is reported distinctly from a wrong password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.TrimSpace(req.Email)

	user, err := s.repo.GetByIdentifier(ctx, username, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ChangePassword re-hashes and persists the new password after verifying the
// old one. Only the password column is written; nothing else is re-validated.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return ErrMissingFields
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(oldPassword)); err != nil {
		return model.ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, userID, string(hashedPassword))
}

// UpdateAccount updates the mutable account details.
func (s *UserService) UpdateAccount(ctx context.Context, userID int64, req *model.UpdateAccountRequest) (*model.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)
	if fullName == "" || email == "" {
		return nil, ErrMissingFields
	}

	return s.repo.UpdateAccount(ctx, userID, fullName, email)
}

// UpdateAvatar persists a freshly hosted avatar URL.
func (s *UserService) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (*model.User, error) {
	return s.repo.UpdateAvatar(ctx, userID, avatarURL)
}

// UpdateCoverImage persists a freshly hosted cover image URL.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID int64, coverImageURL string) (*model.User, error) {
	return s.repo.UpdateCoverImage(ctx, userID, coverImageURL)
}
