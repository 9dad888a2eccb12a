package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/geosync/geosync/internal/qgis"
	"github.com/geosync/geosync/models"
)

// NavigateTo switches the root router to another page. An optional Payload is
// re-dispatched as a message to the destination page.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

// LoginResult finishes the login flow. A nil Err means the session token is
// installed in the adapter and persisted locally.
type LoginResult struct {
	Err      error
	Username string
}

// RegisterResult reports the outcome of an account registration.
type RegisterResult struct {
	Err      error
	Username string
}

// RegisterSuccessNotice is passed back to the menu after registration.
type RegisterSuccessNotice struct {
	Username string
}

type listLoadedMsg struct {
	items []models.LocalProject
	err   error
}

type syncDoneMsg struct {
	plan models.FileSyncPlan
	err  error
}

type cloneDoneMsg struct {
	project models.LocalProject
	err     error
}

type themeLoadedMsg struct {
	project *qgis.Project
	err     error
}

type detailLoadedMsg struct {
	meta models.ProjectMetadata
	err  error
}
