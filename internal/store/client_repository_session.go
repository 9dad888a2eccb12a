// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/geosync/geosync/internal/logger"
)

type sessionRepository struct {
	*DB
	logger *logger.Logger
}

// NewSessionRepository constructs a [SessionRepository] over the client's
// SQLite connection. The session table holds at most one row.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	return &sessionRepository{
		DB:     db,
		logger: logger,
	}
}

func (s *sessionRepository) SaveSession(ctx context.Context, session Session) error {
	log := logger.FromContext(ctx)

	if _, err := s.DB.ExecContext(ctx, upsertSession, session.UserID, session.Token, session.SavedAt); err != nil {
		log.Err(err).Str("func", "sessionRepository.SaveSession").Msg("failed to save session")
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *sessionRepository) GetSession(ctx context.Context) (Session, error) {
	log := logger.FromContext(ctx)

	var session Session
	row := s.DB.QueryRowContext(ctx, getSession)
	if err := row.Scan(&session.UserID, &session.Token, &session.SavedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrLocalSessionNotFound
		}
		log.Err(err).Str("func", "sessionRepository.GetSession").Msg("failed to scan session row")
		return Session{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return session, nil
}

func (s *sessionRepository) ClearSession(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if _, err := s.DB.ExecContext(ctx, clearSession); err != nil {
		log.Err(err).Str("func", "sessionRepository.ClearSession").Msg("failed to clear session")
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}
