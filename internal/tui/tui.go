package tui

import (
	"context"
	"errors"

	"github.com/geosync/geosync/internal/logger"
	"github.com/geosync/geosync/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("вышел из программы")

type TUI struct {
	services *service.ClientServices
}

func New(services *service.ClientServices, _ *logger.Logger) (*TUI, error) {
	return &TUI{services: services}, nil
}

// LoginFlow drives the menu/login/register pages until the user either
// authenticates or quits. On success the session token is already installed
// in the server adapter and persisted by the auth service.
func (t *TUI) LoginFlow(ctx context.Context) (username string, err error) {
	pages := map[string]tea.Model{
		"menu":     NewMenuModel(),
		"login":    NewLoginModel(ctx, t.services.Auth),
		"register": NewRegisterModel(ctx, t.services.Auth),
	}

	root := NewRootModel(pages, "menu")
	finalModel, runErr := tea.NewProgram(root, tea.WithAltScreen()).Run()
	if runErr != nil {
		return "", runErr
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return "", tea.ErrProgramKilled
	}
	if result.quitByUser {
		return "", ErrUserQuit
	}

	return result.username, nil
}

// MainLoop runs the project browser until the user quits or logs out.
func (t *TUI) MainLoop(ctx context.Context) (logout bool, err error) {
	model := newMainLoopModel(ctx, t.services)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return false, runErr
	}

	result, ok := finalModel.(mainLoopModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	return result.logout, nil
}
