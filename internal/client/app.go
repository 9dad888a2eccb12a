package client

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/geosync/geosync/internal/config"
	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/internal/service"
	"github.com/geosync/geosync/internal/store"
	"github.com/geosync/geosync/internal/tui"
)

type App struct {
	services *service.ClientServices
	tui      *tui.TUI
	workers  config.ClientWorkers
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, ui *tui.TUI, workers config.ClientWorkers, logger *logger.Logger) (*App, error) {
	if services == nil || ui == nil {
		return nil, errors.New("client app: services and ui are required")
	}

	return &App{
		services: services,
		tui:      ui,
		workers:  workers,
		logger:   logger,
	}, nil
}

// Run restores the saved session or walks the user through the login flow,
// performs an initial full sync, starts the background sync job, and hands
// control to the interactive main loop. A logout from the main loop restarts
// the whole cycle with a fresh login.
func (a *App) Run() error {
	ctx := context.Background()

	session, err := a.services.Auth.RestoreSession(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrLocalSessionNotFound) {
			return fmt.Errorf("restore session: %w", err)
		}

		if _, err = a.tui.LoginFlow(ctx); err != nil {
			if errors.Is(err, tui.ErrUserQuit) {
				return nil
			}
			return err
		}
	} else {
		a.logger.Debug().Int64("user_id", session.UserID).Msg("session restored")
	}

	if err = a.services.Sync.SyncAll(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "sync warning: %v\n", err)
	}

	a.services.SyncJob.Start(ctx, a.workers.SyncInterval)
	defer a.services.SyncJob.Stop()

	logout, err := a.tui.MainLoop(ctx)
	if err != nil {
		return err
	}
	if logout {
		if err = a.services.Auth.Logout(ctx); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		return a.Run()
	}

	return nil
}
