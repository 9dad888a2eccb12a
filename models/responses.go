package models

// ProjectListResponse contains every project visible to the authenticated
// user. The client uses it to populate the project browser and to decide
// which projects need a metadata fetch.
type ProjectListResponse struct {
	// Projects is the list of project records, ordered by namespace and name.
	Projects []ProjectInfo `json:"projects"`

	// Length is the total number of entries in Projects. Provided for
	// convenience so the client can pre-allocate or validate the response
	// without iterating the slice.
	Length int `json:"length"`
}

// PushResponse acknowledges a successful project push and reports the
// version number assigned to the new project state.
type PushResponse struct {
	// Version is the project version created by the push.
	Version int `json:"version"`
}
