// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"sort"

	"github.com/geosync/geosync/models"
)

// fileSyncPlanner is the concrete implementation of FileSyncPlanner.
// It performs a purely in-memory comparison of three file inventories;
// no storage layer or logger is required because the operation is
// stateless and produces no side effects.
type fileSyncPlanner struct{}

// NewFileSyncPlanner constructs a FileSyncPlanner ready for use.
// Because BuildFileSyncPlan is a stateless, in-memory operation,
// no dependencies (storage, config, logger) are needed.
func NewFileSyncPlanner() FileSyncPlanner {
	return &fileSyncPlanner{}
}

// BuildFileSyncPlan implements FileSyncPlanner.
//
// It builds O(1) lookup indexes from the three inventories, then walks the
// sorted union of their paths and classifies each path by which sides hold
// it and whether the checksums diverged from the base:
//
//   - present on both sides with equal checksums → in sync, no action
//   - changed on exactly one side since base → propagate that side's change
//   - changed on both sides since base → conflict, the local copy is kept
//   - missing on one side → distinguish "never had it" (base absent) from
//     "deleted it" (base present) to pick create vs. delete propagation
//
// ctx cancellation is checked at the start of each iteration so that
// callers can abort early when operating on large projects.
func (s *fileSyncPlanner) BuildFileSyncPlan(
	ctx context.Context,
	base, local, remote []models.FileEntry,
) (models.FileSyncPlan, error) {
	var plan models.FileSyncPlan

	baseIndex := indexByPath(base)
	localIndex := indexByPath(local)
	remoteIndex := indexByPath(remote)

	for _, path := range sortedPathUnion(baseIndex, localIndex, remoteIndex) {
		if err := ctx.Err(); err != nil {
			return models.FileSyncPlan{}, err
		}

		baseEntry, inBase := baseIndex[path]
		localEntry, onDisk := localIndex[path]
		remoteEntry, onServer := remoteIndex[path]

		switch {
		case onDisk && onServer:
			if localEntry.Checksum == remoteEntry.Checksum {
				// Both sides hold identical content → already in sync.
				continue
			}
			switch {
			case inBase && baseEntry.Checksum == localEntry.Checksum:
				// Only the server changed the file → download.
				plan.Download = append(plan.Download, remoteEntry)
			case inBase && baseEntry.Checksum == remoteEntry.Checksum:
				// Only this device changed the file → upload.
				plan.Upload = append(plan.Upload, localEntry)
			default:
				// Both sides diverged from base (or the file appeared
				// independently on both) → conflict, keep the local copy.
				plan.Conflict = append(plan.Conflict, localEntry)
			}

		case onDisk && !onServer:
			switch {
			case !inBase:
				// New local file the server has never seen → upload.
				plan.Upload = append(plan.Upload, localEntry)
			case baseEntry.Checksum == localEntry.Checksum:
				// Deleted on the server, untouched here → drop the local copy.
				plan.DeleteLocal = append(plan.DeleteLocal, localEntry)
			default:
				// Deleted on the server but edited here → conflict, keep the
				// local copy.
				plan.Conflict = append(plan.Conflict, localEntry)
			}

		case !onDisk && onServer:
			switch {
			case !inBase:
				// New server file this device has never seen → download.
				plan.Download = append(plan.Download, remoteEntry)
			case baseEntry.Checksum == remoteEntry.Checksum:
				// Deleted here, untouched on the server → propagate the
				// deletion with the next push.
				plan.DeleteRemote = append(plan.DeleteRemote, remoteEntry)
			default:
				// Deleted here but edited on the server → conflict, left
				// unresolved for the user.
				plan.Conflict = append(plan.Conflict, remoteEntry)
			}

		default:
			// Base only: both sides already deleted the file → no action.
		}
	}

	return plan, nil
}

// indexByPath builds an O(1) lookup index keyed by file path. The metadata
// codec preserves duplicate paths; the last entry wins here, matching the
// server's replace-on-push semantics.
func indexByPath(files []models.FileEntry) map[string]models.FileEntry {
	index := make(map[string]models.FileEntry, len(files))
	for _, f := range files {
		index[f.Path] = f
	}
	return index
}

// sortedPathUnion returns every path present in at least one index, sorted
// so that plans are deterministic regardless of inventory order.
func sortedPathUnion(indexes ...map[string]models.FileEntry) []string {
	seen := make(map[string]struct{})
	for _, index := range indexes {
		for path := range index {
			seen[path] = struct{}{}
		}
	}

	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
