package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
)

// CopyTree recursively copies the contents of src into dst, preserving structure.
// dst is created if it does not exist. Entries whose base name is in skip are not copied.
// Symlinks are recreated as symlinks rather than followed.
func CopyTree(src, dst string, skip ...string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to read source %s: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", src)
	}

	opts := copy.Options{
		OnSymlink: func(string) copy.SymlinkAction {
			return copy.Shallow
		},
		Skip: func(_ os.FileInfo, path, _ string) (bool, error) {
			return ContainsString(skip, filepath.Base(path)), nil
		},
	}

	if err := copy.Copy(src, dst, opts); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// RemoveFile deletes a single file. A missing file is not an error.
// It reports whether something was removed.
func RemoveFile(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// RemoveDirectories deletes every directory directly inside dir and returns the
// names it removed. Files are left alone. A missing dir is not an error.
// A symlink to a directory is removed as a link; its target is untouched.
// Removal continues past individual failures, which are joined into the returned error.
func RemoveDirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var (
		removed []string
		errs    []error
	)
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		// Stat follows symlinks, so linked theme directories count as directories
		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !info.IsDir() {
			continue
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			err = os.Remove(path)
		} else {
			err = os.RemoveAll(path)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", path, err))
			continue
		}
		removed = append(removed, entry.Name())
	}

	return removed, errors.Join(errs...)
}
