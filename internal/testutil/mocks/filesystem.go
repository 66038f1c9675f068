package mocks

import (
	"fmt"
	"os"
	"sync"

	"github.com/aidock-dev/aidock/internal/ports"
)

// FileSystem is a thread-safe in-memory test double for ports.FileSystem.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	modes map[string]os.FileMode
	dirs  map[string]bool

	writeErr error
}

// NewFileSystem creates a new FileSystem mock.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		modes: make(map[string]os.FileMode),
		dirs:  make(map[string]bool),
	}
}

// AddFile adds a file to the mock filesystem.
func (fs *FileSystem) AddFile(path, content string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = []byte(content)
	fs.modes[path] = 0o644
}

// FailWrites makes every subsequent WriteFile call return err.
func (fs *FileSystem) FailWrites(err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.writeErr = err
}

// Mode returns the permission bits recorded for path.
func (fs *FileSystem) Mode(path string) os.FileMode {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.modes[path]
}

// ReadFile reads a file from the mock filesystem.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, ok := fs.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// WriteFile writes a file to the mock filesystem.
func (fs *FileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.writeErr != nil {
		return fs.writeErr
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	fs.files[path] = stored
	fs.modes[path] = perm
	return nil
}

// Exists reports whether a file or directory is present.
func (fs *FileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if _, ok := fs.files[path]; ok {
		return true
	}
	return fs.dirs[path]
}

// MkdirAll records a directory.
func (fs *FileSystem) MkdirAll(path string, _ os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
	return nil
}

// Remove deletes a file.
func (fs *FileSystem) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.files[path]; !ok {
		return fmt.Errorf("remove %s: %w", path, os.ErrNotExist)
	}
	delete(fs.files, path)
	delete(fs.modes, path)
	return nil
}

// Ensure FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)
