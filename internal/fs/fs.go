// Package fs abstracts the few filesystem operations key stores need so
// they can run against an in-memory filesystem in tests.
package fs

import (
	"io/fs"
)

// FileSystem is the filesystem surface used by the disk key store
type FileSystem interface {
	// MkdirAll creates a directory and all necessary parents
	MkdirAll(path string, perm fs.FileMode) error

	// ReadFile reads the entire file
	ReadFile(name string) ([]byte, error)

	// WriteFileAtomic replaces name with data so readers never see a partial file
	WriteFileAtomic(name string, data []byte, perm fs.FileMode) error

	// ReadDir returns the names of the regular files in dir, sorted
	ReadDir(dir string) ([]string, error)

	// IsNotExist reports whether err means a file or directory is missing
	IsNotExist(err error) bool
}
