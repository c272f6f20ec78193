package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	kerrors "github.com/PolarWolf314/cofre/internal/errors"
	"github.com/bmatcuk/doublestar/v4"
)

// WriteIVBlob atomically writes the protected IV bytes as-is.
func WriteIVBlob(path string, blob []byte) error {
	if len(blob) == 0 {
		return fmt.Errorf("%w: protected IV cannot be empty", kerrors.ErrInvalidInput)
	}
	if err := atomicWriteFile(path, blob, 0600); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", kerrors.ErrStorage, path, err)
	}
	return nil
}

// ReadIVBlob reads a protected IV file. Returns ErrIVFileNotFound when the
// file does not exist.
func ReadIVBlob(path string) ([]byte, error) {
	blob, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrIVFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", kerrors.ErrStorage, path, err)
	}
	return blob, nil
}

// Exists reports whether path exists.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", kerrors.ErrStorage, err)
}

// ListIVFiles returns the identifiers of every protected IV file in dir,
// sorted.
func ListIVFiles(dir string) ([]string, error) {
	return listBySuffix(dir, IVFileSuffix)
}

// ListMetadataFiles returns the identifiers of every parameter sidecar in
// dir, sorted.
func ListMetadataFiles(dir string) ([]string, error) {
	return listBySuffix(dir, MetadataFileSuffix)
}

func listBySuffix(dir, suffix string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list %s: %v", kerrors.ErrStorage, dir, err)
	}

	identifiers := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(filepath.Join(dir, m))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		identifiers = append(identifiers, strings.TrimSuffix(m, suffix))
	}
	sort.Strings(identifiers)
	return identifiers, nil
}

func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmpPath, err := writeTemp(dir, data, perm)
	if err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	_ = syncDir(dir)
	return nil
}

// writeTemp writes data to a synced hidden temp file in dir and returns its
// path. The caller renames or removes it.
func writeTemp(dir string, data []byte, perm os.FileMode) (string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}

	tmpFile, err := os.CreateTemp(dir, ".cofre-*")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()

	err = func() error {
		defer tmpFile.Close()
		if _, err := tmpFile.Write(data); err != nil {
			return err
		}
		if err := tmpFile.Chmod(perm); err != nil {
			return err
		}
		if err := tmpFile.Sync(); err != nil {
			return err
		}
		return tmpFile.Close()
	}()
	if err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
