// SPDX-License-Identifier: Apache-2.0

package models

// CreateProjectRequest is sent by the client to create an empty project
// (version 0, no files) in the given namespace.
type CreateProjectRequest struct {
	// Name is the requested project name, unique within the namespace.
	Name string `json:"name"`

	// Namespace is the namespace the project is created in. The server
	// rejects namespaces the authenticated user does not own.
	Namespace string `json:"namespace"`
}

// PushRequest is sent by the client to publish a new project version.
// The file inventory replaces the previous version's inventory wholesale;
// the server derives per-file changes by diffing against the stored version.
type PushRequest struct {
	// Namespace and Name identify the target project.
	Namespace string `json:"namespace"`
	Name      string `json:"name"`

	// BaseVersion is the version the client last synced against. The server
	// rejects the push with a version conflict when the project has moved on.
	BaseVersion int `json:"base_version"`

	// Files is the complete file inventory of the new version.
	Files []FileEntry `json:"files"`

	// Hash is an HMAC-SHA256 integrity hash computed over Files using the
	// shared transport hash key. Empty when no key is configured.
	Hash string `json:"hash,omitempty"`

	// Length is the total number of entries in Files.
	Length int `json:"length"`
}
