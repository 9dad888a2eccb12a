package models

// FileSyncPlan is the result of a three-way comparison between the file
// inventory cached at the last sync (base), the files currently on disk
// (local), and the server's latest metadata (remote). Every differing file
// is classified into exactly one action list.
type FileSyncPlan struct {
	// Download lists files to fetch from the server: new on the server or
	// changed remotely while unchanged locally.
	Download []FileEntry

	// Upload lists files to push to the server: created or edited locally
	// while unchanged remotely.
	Upload []FileEntry

	// DeleteLocal lists files removed on the server whose local copy is
	// still at the base state and can be dropped safely.
	DeleteLocal []FileEntry

	// DeleteRemote lists files deleted locally that are still unchanged on
	// the server; the deletion is propagated with the next push.
	DeleteRemote []FileEntry

	// Conflict lists files edited on both sides since the base version.
	// The local copy is kept; resolution is left to the user.
	Conflict []FileEntry
}

// IsEmpty reports whether the plan contains no actions, i.e. local and
// remote state are already reconciled.
func (p FileSyncPlan) IsEmpty() bool {
	return len(p.Download) == 0 &&
		len(p.Upload) == 0 &&
		len(p.DeleteLocal) == 0 &&
		len(p.DeleteRemote) == 0 &&
		len(p.Conflict) == 0
}

// LocalProject is the client-side registry record of a project that has been
// downloaded to the device. The cached metadata document of the last synced
// version lives under Dir (see store.CachedMetadataPath).
type LocalProject struct {
	// ID is the unique identifier of the record in the local database.
	ID int64 `json:"id"`

	// Namespace and Name identify the project on the sync server.
	Namespace string `json:"namespace"`
	Name      string `json:"name"`

	// Version is the project version the local copy was last synced to.
	Version int `json:"version"`

	// Dir is the absolute path of the project directory on the device.
	Dir string `json:"dir"`
}

// FullName returns the canonical "namespace/name" identifier of the project.
func (p LocalProject) FullName() string {
	return p.Namespace + "/" + p.Name
}
