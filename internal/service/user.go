// Package service implements the application's business logic on top
// of the repository, storage, and event layers.
package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"vidtube/internal/auth"
	"vidtube/internal/domain"
	"vidtube/internal/event"
	"vidtube/internal/repository"
	"vidtube/internal/storage"
	apperrors "vidtube/pkg/errors"
	"vidtube/pkg/middleware"
	"vidtube/pkg/pagination"
	"vidtube/pkg/validator"
)

const (
	bcryptCost        = 12
	minPasswordLength = 8
)

// UserService handles registration, login, session lifecycle, and
// profile management.
type UserService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	history  repository.WatchHistoryRepository
	tokens   *auth.TokenManager
	files    storage.Storage
	producer *event.Producer
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	history repository.WatchHistoryRepository,
	tokens *auth.TokenManager,
	files storage.Storage,
	producer *event.Producer,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
		history:  history,
		tokens:   tokens,
		files:    files,
		producer: producer,
		logger:   logger,
	}
}

// RegisterInput holds the data needed to register a new user.
type RegisterInput struct {
	Username string `validate:"required,min=3,max=30,alphanum"`
	Email    string `validate:"required,email"`
	FullName string `validate:"required,min=1,max=100"`
	Password string `validate:"required"`

	// Avatar is required at registration; cover image is optional.
	Avatar     *storage.UploadInput
	CoverImage *storage.UploadInput
}

// Register creates a new user account, uploads the avatar and optional
// cover image, and issues an initial token pair.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.TokenPair, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)

	if err := validator.Validate(input); err != nil {
		return nil, nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, nil, err
	}
	if input.Avatar == nil {
		return nil, nil, apperrors.InvalidInput("avatar is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	avatarURL, err := s.uploadImage(ctx, "avatars/"+user.ID, input.Avatar)
	if err != nil {
		return nil, nil, err
	}
	user.AvatarURL = avatarURL

	if input.CoverImage != nil {
		coverURL, err := s.uploadImage(ctx, "covers/"+user.ID, input.CoverImage)
		if err != nil {
			return nil, nil, err
		}
		user.CoverImageURL = coverURL
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user registered event",
			slog.String("user_id", user.ID), slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID), slog.String("username", user.Username))

	return user, pair, nil
}

// LoginInput holds login credentials. Identifier may be a username or
// an email address.
type LoginInput struct {
	Identifier string `validate:"required"`
	Password   string `validate:"required"`
}

// Login verifies credentials and issues a fresh token pair. Saving the
// new refresh session invalidates any previous one.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*domain.User, *domain.TokenPair, error) {
	input.Identifier = strings.ToLower(strings.TrimSpace(input.Identifier))

	if err := validator.Validate(input); err != nil {
		return nil, nil, err
	}

	user, err := s.lookupByIdentifier(ctx, input.Identifier)
	if err != nil {
		// Mask lookup failures so responses do not reveal whether the
		// account exists.
		if stderrors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid credentials")
	}

	pair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	return user, pair, nil
}

// Logout clears the user's refresh session. Logging out without an
// active session succeeds.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.Clear(ctx, userID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user logged out", slog.String("user_id", userID))
	return nil
}

// Refresh validates a refresh token against both its signature and the
// stored session, then rotates the session to a new token pair. A
// token that no longer matches the stored session has been superseded
// and is rejected.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.Unauthorized("refresh token required")
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	ok, err := s.sessions.Matches(ctx, claims.UserID, auth.HashToken(refreshToken))
	if err != nil {
		if stderrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("account no longer exists")
		}
		return nil, err
	}
	if !ok {
		return nil, apperrors.Unauthorized("refresh token is expired or has been revoked")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if stderrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("account no longer exists")
		}
		return nil, err
	}

	pair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "session refreshed", slog.String("user_id", user.ID))

	return pair, nil
}

// Resolve validates an access token and returns the identity it
// carries. The subject is re-checked against the user store so tokens
// minted for since-deleted accounts stop authenticating. It backs the
// authentication middleware.
func (s *UserService) Resolve(ctx context.Context, token string) (*middleware.Identity, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid access token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if stderrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("account no longer exists")
		}
		return nil, err
	}

	return &middleware.Identity{
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}

// ChangePasswordInput holds the data needed to change a password.
type ChangePasswordInput struct {
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required"`
}

// ChangePassword verifies the current password, stores the new hash,
// and revokes the active session so existing refresh tokens stop
// working.
func (s *UserService) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	if err := validator.Validate(input); err != nil {
		return err
	}
	if input.CurrentPassword == input.NewPassword {
		return apperrors.InvalidInput("new password must differ from the current password")
	}
	if err := validatePassword(input.NewPassword); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.sessions.Clear(ctx, userID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password changed", slog.String("user_id", userID))
	return nil
}

// GetCurrentUser returns the authenticated user's profile.
func (s *UserService) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateAccountInput holds the mutable account fields.
type UpdateAccountInput struct {
	FullName string `validate:"required,min=1,max=100"`
	Email    string `validate:"required,email"`
}

// UpdateAccount updates the user's full name and email.
func (s *UserService) UpdateAccount(ctx context.Context, userID string, input UpdateAccountInput) (*domain.User, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FullName = input.FullName
	user.Email = input.Email

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "account updated", slog.String("user_id", userID))
	return user, nil
}

// UpdateAvatar replaces the user's avatar image.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, upload *storage.UploadInput) (*domain.User, error) {
	return s.updateImage(ctx, userID, "avatars/"+userID, upload, func(u *domain.User, url string) string {
		old := u.AvatarURL
		u.AvatarURL = url
		return old
	})
}

// UpdateCoverImage replaces the user's cover image.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, upload *storage.UploadInput) (*domain.User, error) {
	return s.updateImage(ctx, userID, "covers/"+userID, upload, func(u *domain.User, url string) string {
		old := u.CoverImageURL
		u.CoverImageURL = url
		return old
	})
}

// ChannelProfile returns a user's public channel view. viewerID may be
// empty for anonymous viewers.
func (s *UserService) ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperrors.InvalidInput("username is required")
	}
	return s.users.GetChannelProfile(ctx, username, viewerID)
}

// WatchHistory returns the user's watch history, most recent first.
func (s *UserService) WatchHistory(ctx context.Context, userID string, params pagination.Params) (*pagination.Result[domain.Video], error) {
	videos, total, err := s.history.ListByUser(ctx, userID, params.PerPage, params.Offset)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(videos, total, params)
	return &result, nil
}

func (s *UserService) updateImage(ctx context.Context, userID, keyPrefix string, upload *storage.UploadInput, apply func(*domain.User, string) string) (*domain.User, error) {
	if upload == nil {
		return nil, apperrors.InvalidInput("image file is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.uploadImage(ctx, keyPrefix, upload)
	if err != nil {
		return nil, err
	}

	replaced := apply(user, url)
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if old := storageKeyFromURL(replaced); old != "" {
		if err := s.files.Delete(ctx, old); err != nil {
			s.logger.WarnContext(ctx, "failed to delete replaced image",
				slog.String("key", old), slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "profile image updated", slog.String("user_id", userID))
	return user, nil
}

func (s *UserService) uploadImage(ctx context.Context, keyPrefix string, upload *storage.UploadInput) (string, error) {
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return "", apperrors.InvalidInput("file must be an image")
	}

	upload.Key = keyPrefix + "/" + uuid.New().String()
	result, err := s.files.Upload(ctx, upload)
	if err != nil {
		return "", apperrors.Upstream("storage", err)
	}

	return result.URL, nil
}

// generateTokenPair issues access and refresh tokens and records the
// refresh hash as the user's session, replacing any prior session.
func (s *UserService) generateTokenPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.sessions.Save(ctx, user.ID, auth.HashToken(refreshToken)); err != nil {
		return nil, fmt.Errorf("store refresh session: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *UserService) lookupByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	if strings.Contains(identifier, "@") {
		return s.users.GetByEmail(ctx, identifier)
	}
	return s.users.GetByUsername(ctx, identifier)
}

// validatePassword checks that the password meets minimum complexity
// requirements.
func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}
