// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/geosync/geosync/internal/config"
	"github.com/geosync/geosync/internal/logger"
)

// NewConnectSQLite opens (creating if needed) the client's local SQLite
// database file and bootstraps the schema. The client has no migration
// tooling; the schema is small and created idempotently at startup.
func NewConnectSQLite(ctx context.Context, cfg config.ClientDB, log *logger.Logger) (*DB, error) {
	if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file")
	}

	conn, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB")
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}

	if err = ensureClientSchema(ctx, conn); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error bootstrapping schema")
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to database successfully")

	return &DB{
		DB:     conn,
		logger: log,
	}, nil
}

func ensureClientSchema(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range []string{createLocalProjectsTable, createSessionTable} {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap client schema: %w", err)
		}
	}
	return nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}
