package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/cofre/internal/audit"
	kerrors "github.com/PolarWolf314/cofre/internal/errors"
	"github.com/PolarWolf314/cofre/internal/store"
)

// OrphanEntry represents an IV file or sidecar that does not belong to the
// current record.
type OrphanEntry struct {
	// Identifier is the identifier encoded in the file name.
	Identifier string

	// FilePath is the absolute path to the orphaned file.
	FilePath string

	// RelativePath is the path relative to the store directory.
	RelativePath string
}

// CleanOptions configures the clean workflow.
type CleanOptions struct {
	StoreDir   string
	RecordFile string

	// DryRun previews what would be removed without making changes.
	DryRun bool
}

// CleanResult contains the outcome of a clean operation.
type CleanResult struct {
	// Orphans is the list of orphaned entries found.
	Orphans []OrphanEntry

	// RemovedCount is the number of files removed (0 if dry-run).
	RemovedCount int

	// DryRun indicates whether this was a dry-run.
	DryRun bool
}

// Clean removes IV files and sidecars whose identifier differs from the
// current record's. These are left behind when encrypt --force replaces a
// record under a new identifier. If there is no record at all, every IV file
// and sidecar is an orphan.
//
// Returns ErrCorruptData if the record is malformed; nothing is removed then.
func Clean(ctx context.Context, opts CleanOptions) (*CleanResult, error) {
	layout, err := resolveLayout(opts.StoreDir, opts.RecordFile)
	if err != nil {
		return nil, err
	}

	current := ""
	record, err := store.ReadRecord(layout.RecordPath())
	switch {
	case errors.Is(err, kerrors.ErrRecordNotFound):
	case err != nil:
		return nil, err
	default:
		current = record.Identifier
	}

	orphans, err := findOrphans(layout, current)
	if err != nil {
		return nil, fmt.Errorf("finding orphaned files: %w", err)
	}

	result := &CleanResult{
		Orphans: orphans,
		DryRun:  opts.DryRun,
	}

	if len(orphans) == 0 || opts.DryRun {
		return result, nil
	}

	files := make([]string, 0, len(orphans))
	for _, orphan := range orphans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := os.Remove(orphan.FilePath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: removing %s: %v", kerrors.ErrStorage, orphan.FilePath, err)
		}
		result.RemovedCount++
		files = append(files, orphan.RelativePath)
	}

	auditEntry := audit.NewEntry("clean")
	auditEntry.RemovedCount = result.RemovedCount
	auditEntry.Files = files
	audit.Log(layout.AuditLogPath(), auditEntry)

	return result, nil
}

// findOrphans lists IV files and sidecars not named after current.
func findOrphans(layout store.Layout, current string) ([]OrphanEntry, error) {
	var orphans []OrphanEntry

	ivIDs, err := store.ListIVFiles(layout.Dir)
	if err != nil {
		return nil, err
	}
	for _, id := range ivIDs {
		if id == current {
			continue
		}
		orphans = append(orphans, OrphanEntry{
			Identifier:   id,
			FilePath:     layout.IVPath(id),
			RelativePath: id + store.IVFileSuffix,
		})
	}

	metaIDs, err := store.ListMetadataFiles(layout.Dir)
	if err != nil {
		return nil, err
	}
	for _, id := range metaIDs {
		if id == current {
			continue
		}
		orphans = append(orphans, OrphanEntry{
			Identifier:   id,
			FilePath:     layout.MetadataPath(id),
			RelativePath: id + store.MetadataFileSuffix,
		})
	}

	return orphans, nil
}
