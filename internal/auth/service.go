// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/academy/internal/access"
	"github.com/olegiv/academy/internal/model"
	"github.com/olegiv/academy/internal/repository"
)

// Error represents an authentication error.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrInvalidCredentials is returned when no user matches the credentials.
	ErrInvalidCredentials Error = "invalid credentials"

	// ErrSubscriptionExpired is returned when a subscriber's expiry has passed.
	ErrSubscriptionExpired Error = "subscription expired"

	// ErrNotAuthenticated is returned when the session holds no valid identity.
	ErrNotAuthenticated Error = "not authenticated"
)

// IdentityStore holds the identity of the current browsing context.
type IdentityStore interface {
	Identity(ctx context.Context) (model.Identity, bool)
	SetIdentity(ctx context.Context, id model.Identity) error
	Clear(ctx context.Context) error
}

// Credentials is a username and password pair.
type Credentials struct {
	Username string
	Password string
}

// Service manages the login session.
type Service struct {
	users        *repository.Users
	sessions     IdentityStore
	defaultAdmin Credentials
	logger       *slog.Logger
	now          func() time.Time
}

// Config configures a Service.
type Config struct {
	DefaultAdmin Credentials
	Logger       *slog.Logger
	Now          func() time.Time
}

// NewService creates an auth service.
func NewService(users *repository.Users, sessions IdentityStore, cfg Config) *Service {
	s := &Service{
		users:        users,
		sessions:     sessions,
		defaultAdmin: cfg.DefaultAdmin,
		logger:       cfg.Logger,
		now:          cfg.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.defaultAdmin.Username == "" {
		s.defaultAdmin = Credentials{Username: "admin", Password: "admin123"}
	}
	return s
}

// Login verifies credentials and stores the identity in the session.
// Subscribers whose expiry has passed are refused; admins never expire.
func (s *Service) Login(ctx context.Context, username, password string) (model.Identity, error) {
	username = strings.TrimSpace(username)
	user, err := s.users.Authenticate(ctx, username, password)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.WarnContext(ctx, "login failed", "username", username, "reason", "invalid_credentials")
		return model.Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.Identity{}, fmt.Errorf("authenticating: %w", err)
	}

	if access.SubscriptionExpired(&user, s.now()) {
		s.logger.WarnContext(ctx, "login refused", "username", username, "reason", "subscription_expired", "expiry", user.Expiry)
		return model.Identity{}, ErrSubscriptionExpired
	}

	id := user.Identity()
	if err := s.sessions.SetIdentity(ctx, id); err != nil {
		return model.Identity{}, err
	}
	s.logger.InfoContext(ctx, "user logged in", "category", model.EventCategoryAuth, "username", id.Username, "role", id.Role)
	return id, nil
}

// Logout destroys the session.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// CurrentUser returns the user record behind the session identity. A
// session that references a user who no longer exists is destroyed.
func (s *Service) CurrentUser(ctx context.Context) (model.User, error) {
	id, ok := s.sessions.Identity(ctx)
	if !ok {
		return model.User{}, ErrNotAuthenticated
	}

	user, err := s.users.Get(ctx, id.Username)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.InfoContext(ctx, "session user no longer exists", "username", id.Username)
		if err := s.sessions.Clear(ctx); err != nil {
			return model.User{}, err
		}
		return model.User{}, ErrNotAuthenticated
	}
	if err != nil {
		return model.User{}, fmt.Errorf("loading session user: %w", err)
	}
	return user, nil
}

// CurrentIdentity returns the validated identity of the session.
func (s *Service) CurrentIdentity(ctx context.Context) (model.Identity, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return model.Identity{}, err
	}
	return user.Identity(), nil
}

// GuardCourse returns the current user for member pages. A subscriber
// whose expiry has passed is logged out and ErrSubscriptionExpired returned.
func (s *Service) GuardCourse(ctx context.Context) (model.User, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return model.User{}, err
	}
	if access.SubscriptionExpired(&user, s.now()) {
		s.logger.InfoContext(ctx, "expired subscriber logged out", "category", model.EventCategoryAuth, "username", user.Username)
		if err := s.sessions.Clear(ctx); err != nil {
			return model.User{}, err
		}
		return model.User{}, ErrSubscriptionExpired
	}
	return user, nil
}

// EnsureDefaultAdmin creates the default admin when no admin exists.
// It reports whether an admin was created.
func (s *Service) EnsureDefaultAdmin(ctx context.Context) (bool, error) {
	has, err := s.users.HasAdmin(ctx)
	if err != nil {
		return false, fmt.Errorf("checking for admin: %w", err)
	}
	if has {
		return false, nil
	}

	if _, err := s.users.UpsertAdmin(ctx, s.defaultAdmin.Username, s.defaultAdmin.Password); err != nil {
		return false, fmt.Errorf("creating default admin: %w", err)
	}
	s.logger.WarnContext(ctx, "default admin created, change its credentials", "username", s.defaultAdmin.Username)
	return true, nil
}

// ChangeAdminCredentials updates the admin account and switches the
// session to the new admin identity.
func (s *Service) ChangeAdminCredentials(ctx context.Context, username, password string) (model.Identity, error) {
	admin, err := s.users.UpsertAdmin(ctx, username, password)
	if err != nil {
		return model.Identity{}, err
	}

	id := admin.Identity()
	if err := s.sessions.SetIdentity(ctx, id); err != nil {
		return model.Identity{}, err
	}
	s.logger.InfoContext(ctx, "admin credentials changed", "category", model.EventCategoryUser, "username", id.Username)
	return id, nil
}
