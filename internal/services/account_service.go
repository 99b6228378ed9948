// Package services implements the account and ledger operations on top of
// the storage repository.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"finledger/internal/core"
	"finledger/internal/storage"
)

// AccountService handles registration and authentication.
type AccountService struct {
	repo *storage.Repository
}

func NewAccountService(repo *storage.Repository) *AccountService {
	return &AccountService{repo: repo}
}

// Register creates a new user with a bcrypt-hashed password. Returns
// core.ErrDuplicateUser when the username is taken. The existence check runs
// before the insert; a racing duplicate would still hit the primary key, but
// a single sequential session never races.
func (s *AccountService) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return core.ErrEmptyUsername
	}
	if password == "" {
		return core.ErrEmptyPassword
	}

	exists, err := s.repo.UserExists(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if exists {
		return core.ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.CreateUser(ctx, username, string(hash)); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "username", username)
	return nil
}

// Authenticate verifies the credentials and returns the username on match.
// Unknown usernames and wrong passwords both yield core.ErrInvalidCredentials
// so a caller cannot distinguish which half failed.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetUser(ctx, strings.TrimSpace(username))
	if errors.Is(err, core.ErrUserNotFound) {
		return "", core.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", core.ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "User authenticated", "username", user.Username)
	return user.Username, nil
}

// RemoveUser deletes a user and, via the schema's cascade, every transaction
// and budget belonging to them. Administrative operation, not exposed in the
// interactive menu.
func (s *AccountService) RemoveUser(ctx context.Context, username string) error {
	if err := s.repo.DeleteUser(ctx, username); err != nil {
		return fmt.Errorf("remove user: %w", err)
	}
	return nil
}
