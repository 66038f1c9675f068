package run

import (
	"time"

	"github.com/google/uuid"
)

// Record identifies one execution of the sequencer. It is created at
// process launch and lives only for the duration of the process.
type Record struct {
	ID        uuid.UUID
	StartedAt time.Time
	LogPath   string
}

// NewRecord creates a Record stamped with the current time.
func NewRecord(logPath string) Record {
	return Record{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		LogPath:   logPath,
	}
}
