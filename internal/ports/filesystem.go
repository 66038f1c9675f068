package ports

import (
	"os"
	"path/filepath"
	"strings"
)

// FileSystem provides the file system operations the sequencer needs to
// write generated artifacts and read them back for verification.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	// WriteFile writes data to path, creating or truncating it. The
	// permission bits apply to the final file even if it already existed,
	// so regenerating a helper script keeps its executable bit.
	WriteFile(path string, data []byte, perm os.FileMode) error
	Exists(path string) bool
	MkdirAll(path string, perm os.FileMode) error
	Remove(path string) error
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
