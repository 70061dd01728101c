// Package output delivers generation results to the terminal or to disk.
package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
)

// WriteFileAtomic streams r into a temporary file next to path and renames it
// into place once everything has been written and synced. On any error the
// temporary file is removed and path is left as it was.
func WriteFileAtomic(path string, r io.Reader, perm os.FileMode) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if base == "" {
		return fmt.Errorf("output path %q names a directory", path)
	}

	tmpPath := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move image into place: %w", err)
	}
	if err := syncDir(dir); err != nil {
		return fmt.Errorf("failed to sync %s: %w", dir, err)
	}
	return nil
}

// syncDir flushes the directory entry created by the rename. Windows cannot
// fsync a directory handle.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}

// WriteImage saves decoded image bytes to path.
func WriteImage(path string, data []byte) error {
	return WriteFileAtomic(path, bytes.NewReader(data), 0o644)
}
