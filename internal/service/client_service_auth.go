// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/geosync/geosync/internal/adapter"
	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/internal/store"
	"github.com/geosync/geosync/models"
)

// clientAuthService is the concrete implementation of ClientAuthService.
// It delegates credential exchange to the server adapter and persists the
// issued session in the local database so later runs can skip the login
// screen.
type clientAuthService struct {
	adapter  adapter.ServerAdapter
	sessions store.SessionRepository
	logger   *logger.Logger
}

// NewClientAuthService constructs a ClientAuthService wired to the given
// server adapter and session store.
func NewClientAuthService(serverAdapter adapter.ServerAdapter, sessions store.SessionRepository, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{
		adapter:  serverAdapter,
		sessions: sessions,
		logger:   logger,
	}
}

// Register creates a new account on the server. The adapter stores the
// issued bearer token internally; Register additionally persists it as the
// device session.
func (c *clientAuthService) Register(ctx context.Context, user models.User) (models.User, error) {
	if user.Login == "" || user.Password == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	registered, err := c.adapter.Register(ctx, user)
	if err != nil {
		return models.User{}, fmt.Errorf("registration failed: %w", err)
	}

	c.persistSession(ctx, registered.UserID)
	return registered, nil
}

// Login authenticates against the server and persists the issued session.
func (c *clientAuthService) Login(ctx context.Context, user models.User) (models.Token, error) {
	if user.Login == "" || user.Password == "" {
		return models.Token{}, ErrInvalidDataProvided
	}

	token, err := c.adapter.Login(ctx, user)
	if err != nil {
		return models.Token{}, fmt.Errorf("login failed: %w", err)
	}

	c.persistSession(ctx, token.UserID)
	return token, nil
}

// RestoreSession loads the persisted session and installs its token into the
// server adapter. The token is not validated here; an expired token surfaces
// as adapter.ErrUnauthorized on the first authenticated call.
func (c *clientAuthService) RestoreSession(ctx context.Context) (store.Session, error) {
	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		return store.Session{}, fmt.Errorf("session lookup failed: %w", err)
	}

	c.adapter.SetToken(session.Token)
	return session, nil
}

// Logout clears the persisted session and drops the adapter token.
func (c *clientAuthService) Logout(ctx context.Context) error {
	c.adapter.SetToken("")

	if err := c.sessions.ClearSession(ctx); err != nil {
		return fmt.Errorf("session clearing failed: %w", err)
	}
	return nil
}

// persistSession stores the adapter's current token as the device session.
// Persistence failure is not fatal: the user is logged in for this run and
// will simply be asked to log in again next time.
func (c *clientAuthService) persistSession(ctx context.Context, userID int64) {
	session := store.Session{
		UserID:  userID,
		Token:   c.adapter.Token(),
		SavedAt: time.Now(),
	}
	if err := c.sessions.SaveSession(ctx, session); err != nil {
		c.logger.Warn().Err(err).Int64("user", userID).Msg("failed to persist session")
	}
}
