package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
)

// ErrNotExist is returned when a file does not exist
var ErrNotExist = fmt.Errorf("file does not exist: %w", fs.ErrNotExist)

// MemFileSystem is an in-memory FileSystem for tests
type MemFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
}

// NewMemFileSystem creates an empty in-memory filesystem
func NewMemFileSystem() *MemFileSystem {
	return &MemFileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// MkdirAll implements FileSystem
func (f *MemFileSystem) MkdirAll(path string, _ fs.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for dir := filepath.Clean(path); ; dir = filepath.Dir(dir) {
		f.dirs[dir] = true
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}
	return nil
}

// ReadFile returns a copy of the file's content
func (f *MemFileSystem) ReadFile(name string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, ok := f.files[filepath.Clean(name)]
	if !ok {
		return nil, ErrNotExist
	}

	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// WriteFileAtomic stores a copy of data. The parent directory must exist.
func (f *MemFileSystem) WriteFileAtomic(name string, data []byte, _ fs.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	name = filepath.Clean(name)
	if !f.dirs[filepath.Dir(name)] {
		return fmt.Errorf("directory %s: %w", filepath.Dir(name), ErrNotExist)
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)
	f.files[name] = dataCopy
	return nil
}

// ReadDir implements FileSystem
func (f *MemFileSystem) ReadDir(dir string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	dir = filepath.Clean(dir)
	if !f.dirs[dir] {
		return nil, ErrNotExist
	}

	var names []string
	for name := range f.files {
		if filepath.Dir(name) == dir {
			names = append(names, filepath.Base(name))
		}
	}
	sort.Strings(names)
	return names, nil
}

// IsNotExist implements FileSystem
func (f *MemFileSystem) IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

var (
	_ FileSystem = (*MemFileSystem)(nil)
	_ FileSystem = (*OSFileSystem)(nil)
)
