package models

import "time"

// ProjectInfo is the lightweight server-side project record returned by
// listing endpoints. It carries identity and version but no file inventory;
// the full inventory lives in the project metadata document.
type ProjectInfo struct {
	// ID is the unique identifier of the project in the database.
	ID int64 `json:"-"`

	// OwnerID is the user who created the project.
	OwnerID int64 `json:"-"`

	// Name is the project name, unique within its namespace.
	Name string `json:"name"`

	// Namespace is the owning namespace on the sync server.
	Namespace string `json:"namespace"`

	// Version is the current numeric project version.
	Version int `json:"version"`

	// CreatedAt is the timestamp when the project was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last pushed version.
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns the canonical "namespace/name" identifier used in API
// paths and UI labels.
func (p ProjectInfo) FullName() string {
	return p.Namespace + "/" + p.Name
}

// TableName returns the name of the database table
// associated with the ProjectInfo model.
func (p ProjectInfo) TableName() string {
	return "projects"
}
