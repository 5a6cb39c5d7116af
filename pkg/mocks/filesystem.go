package mocks

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/AT-290690/gif-player/pkg/ports"
)

// FileSystem is an in-memory ports.FileSystem. Paths are cleaned, so
// "a/./b" and "a/b" name the same entry. Writing a file creates its parent
// directories, as osfilesystem does.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
	fails map[string]error
}

// NewFileSystem creates an empty FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		dirs:  map[string]bool{".": true},
		fails: make(map[string]error),
	}
}

// Fail makes every later call of the named method ("WriteFile", "ReadDir",
// ...) return err. A nil err clears the failure.
func (m *FileSystem) Fail(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fails, method)
		return
	}
	m.fails[method] = err
}

func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.fails["ReadFile"]; err != nil {
		return nil, err
	}
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, notExist("read", path)
	}
	return data, nil
}

func (m *FileSystem) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fails["WriteFile"]; err != nil {
		return err
	}
	path = filepath.Clean(path)
	if m.dirs[path] {
		return &fs.PathError{Op: "write", Path: path, Err: errors.New("is a directory")}
	}
	m.mkdirs(filepath.Dir(path))
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *FileSystem) MkdirAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fails["MkdirAll"]; err != nil {
		return err
	}
	m.mkdirs(filepath.Clean(path))
	return nil
}

// mkdirs records dir and its parents. m.mu must be held.
func (m *FileSystem) mkdirs(dir string) {
	for !m.dirs[dir] {
		m.dirs[dir] = true
		dir = filepath.Dir(dir)
	}
}

func (m *FileSystem) Exists(path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.fails["Exists"]; err != nil {
		return false, err
	}
	path = filepath.Clean(path)
	_, isFile := m.files[path]
	return isFile || m.dirs[path], nil
}

func (m *FileSystem) ReadDir(path string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.fails["ReadDir"]; err != nil {
		return nil, err
	}
	dir := filepath.Clean(path)
	if !m.dirs[dir] {
		return nil, notExist("readdir", path)
	}
	var names []string
	for p := range m.files {
		if name := filepath.Base(p); filepath.Dir(p) == dir && !strings.HasPrefix(name, ".") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *FileSystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fails["Remove"]; err != nil {
		return err
	}
	path = filepath.Clean(path)
	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		return nil
	}
	if !m.dirs[path] {
		return notExist("remove", path)
	}
	for p := range m.files {
		if filepath.Dir(p) == path {
			return &fs.PathError{Op: "remove", Path: path, Err: errors.New("directory not empty")}
		}
	}
	for d := range m.dirs {
		if d != path && filepath.Dir(d) == path {
			return &fs.PathError{Op: "remove", Path: path, Err: errors.New("directory not empty")}
		}
	}
	delete(m.dirs, path)
	return nil
}

func notExist(op, path string) error {
	return &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
}

// File returns the contents of the file at path.
func (m *FileSystem) File(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[filepath.Clean(path)]
	return data, ok
}

// Files returns the paths of all files, sorted.
func (m *FileSystem) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

var _ ports.FileSystem = (*FileSystem)(nil)
