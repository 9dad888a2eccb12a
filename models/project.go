// SPDX-License-Identifier: Apache-2.0

package models

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// FileEntry describes a single file inside a synchronized project as reported
// by the project metadata document: relative path, content checksum, byte
// size, and last modification time in UTC.
//
// The checksum scheme is defined by the sync service and treated as an opaque
// string here; entries are compared by exact checksum equality only.
type FileEntry struct {
	// Path is the file path relative to the project root. It is the unique
	// key of a file within one project version.
	Path string `json:"path"`

	// Checksum is the content hash of the file as computed by the sync
	// service.
	Checksum string `json:"checksum"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// MTime is the file's last modification time in UTC. The zero value
	// means the source document carried no parsable timestamp.
	MTime time.Time `json:"mtime"`
}

// ProjectMetadata is the decoded form of a project metadata document: the
// JSON description of a synchronized project's file inventory and version,
// used to reconcile local and remote state.
//
// ProjectMetadata is a plain value object; callers own decoded instances
// outright and no reference to the source document is retained.
type ProjectMetadata struct {
	// Name is the project name within its namespace.
	Name string `json:"name"`

	// Namespace is the owning namespace (user or organisation) on the
	// sync server.
	Namespace string `json:"namespace"`

	// Version is the numeric project version, parsed from the document's
	// "v<N>" version tag. Zero when the tag is absent or unparsable.
	Version int `json:"version"`

	// Files lists every file of this project version in document order.
	// The codec does not enforce path uniqueness; duplicates in the source
	// document are preserved.
	Files []FileEntry `json:"files"`
}

// mtimeLayout is the ISO-8601-with-milliseconds timestamp format used by the
// sync service for file modification times.
const mtimeLayout = "2006-01-02T15:04:05.000Z07:00"

// DecodeProjectMetadata parses data as a project metadata JSON document.
//
// Decoding is deliberately tolerant: a field that is absent or has the wrong
// JSON type degrades to its zero value and is reported only as a diagnostic
// log line. The sole structural requirement is that the top-level value is a
// JSON object; anything else yields a zero ProjectMetadata. A missing or
// mistyped "files" member is treated as an empty file list.
//
// The "version" member is expected to be a string of the form "v<N>"; the
// "v" prefix is optional and a non-numeric remainder degrades to 0.
func DecodeProjectMetadata(data []byte) ProjectMetadata {
	var meta ProjectMetadata

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Debug().Err(err).Msg("project metadata: document is not a JSON object")
		return meta
	}

	meta.Name = stringField(doc, "name")
	meta.Namespace = stringField(doc, "namespace")
	meta.Version = parseProjectVersion(stringField(doc, "version"))

	var rawFiles []json.RawMessage
	if raw, ok := doc["files"]; ok {
		if err := json.Unmarshal(raw, &rawFiles); err != nil {
			log.Debug().Err(err).Msg("project metadata: files member is not an array")
		}
	}

	meta.Files = make([]FileEntry, 0, len(rawFiles))
	for _, raw := range rawFiles {
		meta.Files = append(meta.Files, decodeFileEntry(raw))
	}

	return meta
}

// LoadCachedProjectMetadata reads the cached metadata document at path and
// decodes it. Any read failure (missing file, permissions) is silent at this
// layer and yields a zero ProjectMetadata.
func LoadCachedProjectMetadata(path string) ProjectMetadata {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("project metadata: cache file not readable")
		return ProjectMetadata{}
	}
	return DecodeProjectMetadata(data)
}

// FileInfo returns the first file entry whose path equals filePath, or a zero
// FileEntry when the project has no such file. A miss is logged as a
// diagnostic but is never an error.
func (m ProjectMetadata) FileInfo(filePath string) FileEntry {
	for _, f := range m.Files {
		if f.Path == filePath {
			return f
		}
	}
	log.Debug().Str("path", filePath).Msg("project metadata: file info requested for unknown file")
	return FileEntry{}
}

// VersionTag renders the project version in the wire form used by the sync
// service ("v<N>").
func (m ProjectMetadata) VersionTag() string {
	return "v" + strconv.Itoa(m.Version)
}

// EncodeDocument renders the metadata in the wire document format: the
// version as a "v<N>" tag and file mtimes as ISO-8601 with milliseconds.
// A zero MTime is emitted as an empty string, which decodes back to a zero
// time.
func (m ProjectMetadata) EncodeDocument() ([]byte, error) {
	files := make([]wireFileEntry, 0, len(m.Files))
	for _, f := range m.Files {
		var mtime string
		if !f.MTime.IsZero() {
			mtime = f.MTime.UTC().Format(mtimeLayout)
		}
		files = append(files, wireFileEntry{
			Path:     f.Path,
			Checksum: f.Checksum,
			Size:     f.Size,
			MTime:    mtime,
		})
	}

	return json.Marshal(wireProjectMetadata{
		Name:      m.Name,
		Namespace: m.Namespace,
		Version:   m.VersionTag(),
		Files:     files,
	})
}

type wireProjectMetadata struct {
	Name      string          `json:"name"`
	Namespace string          `json:"namespace"`
	Version   string          `json:"version"`
	Files     []wireFileEntry `json:"files"`
}

type wireFileEntry struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
	Size     int64  `json:"size"`
	MTime    string `json:"mtime"`
}

// decodeFileEntry decodes one element of the "files" array. Each field
// degrades to its zero value independently; a single malformed field never
// discards the whole entry.
func decodeFileEntry(raw json.RawMessage) FileEntry {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		log.Debug().Err(err).Msg("project metadata: file entry is not an object")
		return FileEntry{}
	}

	entry := FileEntry{
		Path:     stringField(obj, "path"),
		Checksum: stringField(obj, "checksum"),
	}

	if raw, ok := obj["size"]; ok {
		if err := json.Unmarshal(raw, &entry.Size); err != nil {
			log.Debug().Err(err).Str("path", entry.Path).Msg("project metadata: size is not an integer")
		}
	}

	if mtime := stringField(obj, "mtime"); mtime != "" {
		t, err := time.Parse(mtimeLayout, mtime)
		if err != nil {
			log.Debug().Err(err).Str("path", entry.Path).Msg("project metadata: unparsable mtime")
		} else {
			entry.MTime = t.UTC()
		}
	}

	return entry
}

// parseProjectVersion converts a version tag to its numeric form.
// "" → 0, "v42" → 42, "42" → 42, anything non-numeric → 0.
func parseProjectVersion(tag string) int {
	if tag == "" {
		return 0
	}

	tag = strings.TrimPrefix(tag, "v")
	v, err := strconv.Atoi(tag)
	if err != nil {
		log.Debug().Str("version", tag).Msg("project metadata: non-numeric version tag")
		return 0
	}
	return v
}

// stringField extracts a string member from a decoded JSON object, degrading
// to "" when the member is absent or not a string.
func stringField(obj map[string]json.RawMessage, key string) string {
	raw, ok := obj[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		log.Debug().Str("field", key).Msg("project metadata: field is not a string")
		return ""
	}
	return s
}
