// SPDX-License-Identifier: Apache-2.0

package store

const (
	createLocalProjectsTable = `
		CREATE TABLE IF NOT EXISTS local_projects (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			namespace TEXT NOT NULL,
			name      TEXT NOT NULL,
			version   INTEGER NOT NULL DEFAULT 0,
			dir       TEXT NOT NULL,
			UNIQUE (namespace, name)
		);`

	createSessionTable = `
		CREATE TABLE IF NOT EXISTS session (
			id       INTEGER PRIMARY KEY CHECK (id = 1),
			user_id  INTEGER NOT NULL,
			token    TEXT NOT NULL,
			saved_at TIMESTAMP NOT NULL
		);`

	upsertLocalProject = `
		INSERT INTO local_projects (namespace, name, version, dir)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, name) DO UPDATE SET
			version = excluded.version,
			dir     = excluded.dir;`

	getLocalProject = `
		SELECT id, namespace, name, version, dir
		FROM local_projects
		WHERE namespace = ? AND name = ?;`

	listLocalProjects = `
		SELECT id, namespace, name, version, dir
		FROM local_projects
		ORDER BY namespace, name;`

	setLocalProjectVersion = `
		UPDATE local_projects
		SET version = ?
		WHERE id = ?;`

	deleteLocalProject = `
		DELETE FROM local_projects
		WHERE id = ?;`

	upsertSession = `
		INSERT INTO session (id, user_id, token, saved_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			user_id  = excluded.user_id,
			token    = excluded.token,
			saved_at = excluded.saved_at;`

	getSession = `
		SELECT user_id, token, saved_at
		FROM session
		WHERE id = 1;`

	clearSession = `
		DELETE FROM session
		WHERE id = 1;`
)
