package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/racelog/internal/common"
	"github.com/dmitrijs2005/racelog/internal/logging"
	"github.com/dmitrijs2005/racelog/internal/server/auth"
	"github.com/dmitrijs2005/racelog/internal/server/models"
	"github.com/dmitrijs2005/racelog/internal/server/repositories"
)

// UserService handles account lifecycle: registration, login, password
// change and full account deletion (which cascades across every
// collection).
type UserService struct {
	repos    *repositories.Manager
	sessions *auth.SessionManager
	cascade  *CascadeEngine
	logger   logging.Logger
}

func NewUserService(repos *repositories.Manager, sessions *auth.SessionManager, cascade *CascadeEngine, logger logging.Logger) *UserService {
	return &UserService{
		repos:    repos,
		sessions: sessions,
		cascade:  cascade,
		logger:   logger.With("module", "users"),
	}
}

// Register creates an account. Usernames are unique case-insensitively.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", common.ErrValidation)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user, err := s.repos.Users.Create(username, hash)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user registered", "username", username)
	return user, nil
}

// Login verifies credentials and opens a session. Unknown usernames and
// wrong passwords are indistinguishable to the caller; store failures are
// not credential failures and pass through unchanged.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.repos.Users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrUnauthorized
		}
		return nil, "", err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", common.ErrUnauthorized
	}
	token, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout ends the session behind the token.
func (s *UserService) Logout(ctx context.Context, token string) {
	s.sessions.Destroy(token)
}

// Get returns the account record.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.repos.Users.GetByID(userID)
}

// ChangePassword rotates the password after verifying the current one.
// Every open session of the user is destroyed; clients log in again.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, updated string) error {
	if updated == "" {
		return fmt.Errorf("new password is required: %w", common.ErrValidation)
	}
	user, err := s.repos.Users.GetByID(userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(current, user.PasswordHash) {
		return common.ErrUnauthorized
	}
	hash, err := auth.HashPassword(updated)
	if err != nil {
		return err
	}
	if err := s.repos.Users.SetPasswordHash(userID, hash); err != nil {
		return err
	}
	s.sessions.DestroyAll(userID)
	s.logger.Info(ctx, "password changed", "userId", userID)
	return nil
}

// DeleteAccount verifies the password, then removes every record the user
// owns and the account itself. A failed verification leaves everything
// untouched.
func (s *UserService) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.repos.Users.GetByID(userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return common.ErrUnauthorized
	}
	if err := s.cascade.AccountDeleted(ctx, userID); err != nil {
		return err
	}
	s.sessions.DestroyAll(userID)
	s.logger.Info(ctx, "account deleted", "username", user.Username)
	return nil
}
