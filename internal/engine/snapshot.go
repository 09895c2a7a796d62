package engine

import (
	"time"

	"quizline/internal/dayclock"
)

// SchemaVersion is bumped whenever the snapshot layout changes incompatibly.
const SchemaVersion = 1

// Snapshot is the serialized progression state written to durable storage.
// Superseded, never merged: each save fully replaces the previous snapshot.
type Snapshot struct {
	SchemaVersion int             `json:"schema_version"`
	SavedAt       time.Time       `json:"saved_at"`
	Enabled       bool            `json:"enabled"`
	Stats         ProgressStats   `json:"stats"`
	Rating        Rating          `json:"rating"`
	Set           *TaskSet        `json:"task_set,omitempty"`
	Day           dayclock.DayKey `json:"day,omitempty"`
}

// Validate checks the fields recovery depends on.
func (s *Snapshot) Validate() error {
	if s.SchemaVersion != SchemaVersion {
		return CorruptSnapshotError{Reason: "unknown schema version"}
	}
	if s.Stats.CurrentStreak > s.Stats.LongestStreak {
		return CorruptSnapshotError{Reason: "current streak exceeds longest streak"}
	}
	if s.Set != nil && s.Set.Day.IsZero() {
		return CorruptSnapshotError{Reason: "task set missing day key"}
	}
	return nil
}
