package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/cofre/internal/errors"
)

// Batch replaces several files in one directory as a unit. Contents are
// staged under temporary names first; Commit then renames them into place in
// the order they were staged. If a rename fails, every file already replaced
// gets its previous content back.
//
// Until Commit starts, the files on disk are untouched, so an interrupted
// writer leaves only hidden ".cofre-*" temp files behind.
type Batch struct {
	dir    string
	staged []stagedFile
}

type stagedFile struct {
	path string
	tmp  string

	// previous content, nil when the target did not exist.
	prev []byte
}

// NewBatch returns an empty batch for files in dir.
func NewBatch(dir string) *Batch {
	return &Batch{dir: dir}
}

// Stage writes data to a synced temp file that Commit will rename to path.
func (b *Batch) Stage(path string, data []byte) error {
	if filepath.Dir(path) != filepath.Clean(b.dir) {
		return fmt.Errorf("%w: %s is outside %s", kerrors.ErrInvalidInput, path, b.dir)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: refusing to stage an empty %s", kerrors.ErrInvalidInput, filepath.Base(path))
	}

	tmp, err := writeTemp(b.dir, data, 0600)
	if err != nil {
		return fmt.Errorf("%w: failed to stage %s: %v", kerrors.ErrStorage, path, err)
	}
	b.staged = append(b.staged, stagedFile{path: path, tmp: tmp})
	return nil
}

// Commit moves every staged file into place.
func (b *Batch) Commit() error {
	for i := range b.staged {
		prev, err := os.ReadFile(b.staged[i].path)
		switch {
		case err == nil:
			b.staged[i].prev = prev
		case !os.IsNotExist(err):
			b.Abort()
			return fmt.Errorf("%w: failed to read %s: %v", kerrors.ErrStorage, b.staged[i].path, err)
		}
	}

	for i, f := range b.staged {
		if err := os.Rename(f.tmp, f.path); err != nil {
			restoreErr := b.restore(i)
			b.Abort()
			err = fmt.Errorf("%w: failed to replace %s: %v", kerrors.ErrStorage, f.path, err)
			if restoreErr != nil {
				return errors.Join(err, restoreErr)
			}
			return err
		}
	}

	b.staged = nil
	_ = syncDir(b.dir)
	return nil
}

// Abort removes any temp files that were not committed. It is safe to call
// after Commit.
func (b *Batch) Abort() {
	for _, f := range b.staged {
		os.Remove(f.tmp)
	}
	b.staged = nil
}

// restore puts back the previous content of the first n staged files.
func (b *Batch) restore(n int) error {
	var errs []error
	for i := n - 1; i >= 0; i-- {
		f := b.staged[i]
		var err error
		if f.prev == nil {
			err = os.Remove(f.path)
		} else {
			err = atomicWriteFile(f.path, f.prev, 0600)
		}
		if err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("%w: failed to restore %s: %v", kerrors.ErrStorage, f.path, err))
		}
	}
	return errors.Join(errs...)
}
