package workflows

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/cofre/internal/configs"
	"github.com/PolarWolf314/cofre/internal/store"
)

// resolveLayout builds the store layout, defaulting to the working directory
// and the standard record file name.
func resolveLayout(storeDir, recordFile string) (store.Layout, error) {
	if storeDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return store.Layout{}, fmt.Errorf("getting working directory: %w", err)
		}
		storeDir = wd
	}
	if recordFile == "" {
		recordFile = configs.DefaultRecordFile
	}
	// The record file name comes from config or the environment and must
	// stay inside the store directory.
	if err := store.ValidateIdentifier(recordFile); err != nil {
		return store.Layout{}, fmt.Errorf("record file %q: %w", recordFile, err)
	}

	abs, err := filepath.Abs(storeDir)
	if err != nil {
		return store.Layout{}, fmt.Errorf("resolving store directory: %w", err)
	}

	return store.Layout{Dir: abs, RecordFile: recordFile}, nil
}
