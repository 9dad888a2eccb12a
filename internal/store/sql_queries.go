// SPDX-License-Identifier: Apache-2.0

package store

import "github.com/Masterminds/squirrel"

const (
	createUser = `INSERT INTO users (login, password, name)
    VALUES ($1, $2, $3)
    RETURNING user_id, login, password, name, created_at;`

	findUserByLogin = `SELECT user_id, login, password, name, created_at
    FROM users
    WHERE login = $1;`

	createProject = `INSERT INTO projects (owner_id, namespace, name)
    VALUES ($1, $2, $3)
    RETURNING id, owner_id, namespace, name, version, created_at, updated_at;`

	getProjectByFullName = `SELECT id, owner_id, namespace, name, version, created_at, updated_at
    FROM projects
    WHERE namespace = $1 AND name = $2;`

	listProjectsByOwner = `SELECT id, owner_id, namespace, name, version, created_at, updated_at
    FROM projects
    WHERE owner_id = $1
    ORDER BY namespace, name;`

	bumpProjectVersion = `UPDATE projects
    SET version = version + 1, updated_at = NOW()
    WHERE id = $1 AND version = $2
    RETURNING version;`

	insertProjectFile = `INSERT INTO project_files (project_id, version, path, checksum, size, mtime)
    VALUES ($1, $2, $3, $4, $5, $6);`
)

// buildProjectFilesQuery assembles the SELECT over project_files for the
// given project. version > 0 pins an explicit inventory version; otherwise
// the project's current version is resolved with a subquery. A non-empty
// pathPrefix narrows the result to paths under that prefix.
func buildProjectFilesQuery(projectID int64, version int, pathPrefix string) (string, []any, error) {
	qb := squirrel.Select("path", "checksum", "size", "mtime").
		From("project_files").
		Where(squirrel.Eq{"project_id": projectID}).
		PlaceholderFormat(squirrel.Dollar)

	if version > 0 {
		qb = qb.Where(squirrel.Eq{"version": version})
	} else {
		qb = qb.Where("version = (SELECT version FROM projects WHERE id = ?)", projectID)
	}

	if pathPrefix != "" {
		qb = qb.Where(squirrel.Like{"path": pathPrefix + "%"})
	}

	return qb.OrderBy("path").ToSql()
}
