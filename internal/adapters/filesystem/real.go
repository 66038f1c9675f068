// Package filesystem provides os-backed file system adapters.
package filesystem

import (
	"os"

	"github.com/aidock-dev/aidock/internal/ports"
)

// RealFileSystem implements ports.FileSystem against the local disk.
type RealFileSystem struct{}

// NewRealFileSystem creates a new RealFileSystem.
func NewRealFileSystem() *RealFileSystem {
	return &RealFileSystem{}
}

// ReadFile reads the named file.
func (fs *RealFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to path, truncating any existing file. The perm
// bits are enforced with an explicit chmod because os.WriteFile only
// applies them on creation, and regenerated helper scripts must keep
// their executable bit across runs.
func (fs *RealFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return err
	}
	return os.Chmod(path, perm)
}

// Exists reports whether path exists.
func (fs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// MkdirAll creates a directory and any missing parents.
func (fs *RealFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove deletes the named file.
func (fs *RealFileSystem) Remove(path string) error {
	return os.Remove(path)
}

// Ensure RealFileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*RealFileSystem)(nil)
