// Package osfilesystem provides a filesystem implementation using the os package.
package osfilesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/AT-290690/gif-player/pkg/ports"
)

// FileSystem implements ports.FileSystem using the os package.
type FileSystem struct{}

// New creates a new FileSystem.
func New() *FileSystem {
	return &FileSystem{}
}

// ReadFile reads the entire contents of a file.
func (fsys *FileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file, creating parent directories as needed.
// The data is written to a temporary file in the same directory and renamed
// into place, so a directory watcher never sees a partial file.
func (fsys *FileSystem) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// MkdirAll creates a directory and all parent directories.
func (fsys *FileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// Exists checks if a file or directory exists.
func (fsys *FileSystem) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ReadDir returns the names of the regular files in a directory, sorted by
// name. Hidden files are skipped.
func (fsys *FileSystem) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || e.Name()[0] == '.' {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes a file or empty directory.
func (fsys *FileSystem) Remove(path string) error {
	return os.Remove(path)
}

// Ensure FileSystem implements ports.FileSystem
var _ ports.FileSystem = (*FileSystem)(nil)
