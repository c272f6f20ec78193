package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/cofre/internal/configs"
	kerrors "github.com/PolarWolf314/cofre/internal/errors"
	"github.com/PolarWolf314/cofre/internal/secrets"
	"github.com/PolarWolf314/cofre/internal/store"
)

// ProtectedIVSize is the size of a well-formed IV file: one encrypted IV
// block and one encrypted padding block.
const ProtectedIVSize = 2 * secrets.IVSize

// StatusOptions configures the status workflow.
type StatusOptions struct {
	StoreDir   string
	RecordFile string
}

// StatusResult describes the store without decrypting anything.
type StatusResult struct {
	StoreDir   string
	RecordPath string

	// HasRecord is false when no record file exists. The remaining record
	// fields are then empty.
	HasRecord bool

	Identifier string

	// CiphertextSize is the decoded ciphertext length in bytes.
	CiphertextSize int

	IVPath string

	// IVFilePresent reports whether the record's IV file exists.
	IVFilePresent bool

	// IVFileWellFormed reports whether the IV file has the expected size.
	IVFileWellFormed bool

	// Metadata is the record's sidecar, or nil for a legacy record.
	Metadata *configs.RecordMetadata

	// Orphans lists IV files and sidecars that Clean would remove.
	Orphans []OrphanEntry
}

// Status reports on the record, its IV file and its sidecar. No password is
// needed and no key is derived.
//
// Returns ErrCorruptData if the record file exists but is malformed.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	layout, err := resolveLayout(opts.StoreDir, opts.RecordFile)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		StoreDir:   layout.Dir,
		RecordPath: layout.RecordPath(),
	}

	record, err := store.ReadRecord(layout.RecordPath())
	switch {
	case errors.Is(err, kerrors.ErrRecordNotFound):
		// Nothing stored yet.
	case err != nil:
		return nil, err
	default:
		result.HasRecord = true
		result.Identifier = record.Identifier

		ciphertext, err := record.Ciphertext()
		if err != nil {
			return nil, err
		}
		result.CiphertextSize = len(ciphertext)

		result.IVPath = layout.IVPath(record.Identifier)
		info, err := os.Stat(result.IVPath)
		switch {
		case err == nil:
			result.IVFilePresent = true
			result.IVFileWellFormed = info.Size() == ProtectedIVSize
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("%w: %v", kerrors.ErrStorage, err)
		}

		metadataPath := layout.MetadataPath(record.Identifier)
		exists, err := store.Exists(metadataPath)
		if err != nil {
			return nil, err
		}
		if exists {
			metadata, err := configs.LoadRecordMetadata(metadataPath)
			if err != nil {
				return nil, err
			}
			result.Metadata = metadata
		}
	}

	orphans, err := findOrphans(layout, result.Identifier)
	if err != nil {
		return nil, err
	}
	result.Orphans = orphans

	return result, nil
}
