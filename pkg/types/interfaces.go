package types

import (
	"io/fs"
)

// FS is the filesystem boundary of the template synchronizer. The OS
// implementation lives in pkg/filesystem; tests use the afero-backed one.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// RemoveAll removes path and any children it contains. A missing path
	// is not an error.
	RemoveAll(path string) error
}
