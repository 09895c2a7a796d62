package engine

import "fmt"

// InvalidPoolError indicates the template pool is too small for the configured
// daily set size. Fatal to generation; the engine never emits a short set.
type InvalidPoolError struct {
	Have int
	Need int
}

func (e InvalidPoolError) Error() string {
	return fmt.Sprintf("template pool has %d entries, need at least %d", e.Have, e.Need)
}

// CorruptSnapshotError indicates a persisted snapshot could not be decoded or
// carries an unknown schema version. Recovered by falling back to fresh state.
type CorruptSnapshotError struct {
	Reason string
}

func (e CorruptSnapshotError) Error() string {
	return fmt.Sprintf("corrupt snapshot: %s", e.Reason)
}
