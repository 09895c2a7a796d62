// Package persist owns the save/load lifecycle for progression state: the
// debounced auto-save, forced saves, recovery on load and clearing. It is the
// sole writer of durable storage; every other component mutates only the
// in-memory engine state.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"quizline/internal/dayclock"
	"quizline/internal/engine"
	"quizline/internal/storage"
)

// State is the scheduler's lifecycle state.
type State int

const (
	Idle State = iota
	SaveInFlight
	LoadInFlight
)

// WriteFailureError wraps a rejected storage write. The scheduler retries on
// the next scheduled tick; only a repeated failure reaches ForceSave callers.
type WriteFailureError struct {
	Err error
}

func (e WriteFailureError) Error() string {
	return fmt.Sprintf("snapshot write failed: %v", e.Err)
}

func (e WriteFailureError) Unwrap() error { return e.Err }

// SnapshotStore is the durable store surface the scheduler writes through.
// *storage.SnapshotRepo is the production implementation.
type SnapshotStore interface {
	Replace(ctx context.Context, row storage.SnapshotRow) error
	Latest(ctx context.Context) (*storage.SnapshotRow, error)
	DeleteAll(ctx context.Context) error
}

// SaveStatus is the pull-based status surface for presentation components.
type SaveStatus struct {
	Enabled   bool
	LastSaved time.Time
	// NextSave estimates the next scheduled write as LastSaved plus the
	// interval. The ticker in Run keeps its own cadence and is not reset by
	// forced saves, so the actual tick can land earlier.
	NextSave time.Time
}

// Scheduler serializes all snapshot writes. Invariant: no two writes are in
// flight concurrently; a save request arriving mid-write is coalesced into at
// most one pending save that runs with the latest state afterwards.
type Scheduler struct {
	mu   sync.Mutex
	cond *sync.Cond

	eng      *engine.Engine
	repo     SnapshotStore
	clock    dayclock.Clock
	log      *logrus.Entry
	interval time.Duration

	state      State
	enabled    bool
	pending    bool
	lastSaved  time.Time
	lastStamp  time.Time
	retryQueue bool // a failed write awaiting its one scheduled-tick retry
}

// NewScheduler builds a scheduler around the engine and snapshot repo.
func NewScheduler(eng *engine.Engine, repo SnapshotStore, clock dayclock.Clock, interval time.Duration, enabled bool, log *logrus.Entry) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	s := &Scheduler{
		eng:      eng,
		repo:     repo,
		clock:    clock,
		log:      log,
		interval: interval,
		enabled:  enabled,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Run drives the scheduled auto-save until ctx is done. Each tick also gives
// the engine a day-boundary check.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := s.clock.Now()
			if err := s.eng.OnTick(now); err != nil {
				s.log.WithError(err).Error("day-boundary check failed")
			}
			s.scheduledSave(ctx)
		}
	}
}

// scheduledSave behaves like ForceSave but is silently skipped when a save is
// already in flight, to avoid redundant writes. It also services the one
// retry a failed write has earned.
func (s *Scheduler) scheduledSave(ctx context.Context) {
	s.mu.Lock()
	retry := s.retryQueue
	s.retryQueue = false
	if (!s.enabled && !retry) || s.state != Idle {
		s.mu.Unlock()
		return
	}
	s.state = SaveInFlight
	s.mu.Unlock()

	if err := s.writeOnce(ctx); err != nil {
		s.log.WithError(err).Warn("scheduled save failed")
		s.mu.Lock()
		s.retryQueue = true
		s.mu.Unlock()
	}
	s.finishSave(ctx)
}

// ForceSave writes the current progression state now. If a save is already in
// flight the request is coalesced: later requests overwrite the queued one
// rather than stacking, and exactly one additional write runs afterwards with
// the most recent state.
func (s *Scheduler) ForceSave(ctx context.Context) error {
	s.mu.Lock()
	for {
		if s.state == SaveInFlight {
			s.pending = true
			s.mu.Unlock()
			return nil
		}
		if s.state == Idle {
			break
		}
		s.cond.Wait()
	}
	s.state = SaveInFlight
	s.mu.Unlock()

	err := s.writeOnce(ctx)
	if err != nil {
		s.mu.Lock()
		s.retryQueue = true
		s.mu.Unlock()
	}
	s.finishSave(ctx)
	return err
}

// finishSave drains at most the coalesced pending request, then returns to Idle.
func (s *Scheduler) finishSave(ctx context.Context) {
	for {
		s.mu.Lock()
		if !s.pending {
			s.state = Idle
			s.cond.Broadcast()
			s.mu.Unlock()
			return
		}
		s.pending = false
		s.mu.Unlock()

		if err := s.writeOnce(ctx); err != nil {
			s.log.WithError(err).Warn("coalesced save failed")
			s.mu.Lock()
			s.retryQueue = true
			s.mu.Unlock()
		}
	}
}

// writeOnce serializes the engine state and replaces the durable snapshot.
// The write is atomic from the store's perspective.
func (s *Scheduler) writeOnce(ctx context.Context) error {
	snap := s.eng.Snapshot()

	s.mu.Lock()
	snap.Enabled = s.enabled
	// Save timestamps are strictly monotonic even if the wall clock stalls,
	// so last-request-wins ordering is unambiguous.
	stamp := s.clock.Now()
	if !stamp.After(s.lastStamp) {
		stamp = s.lastStamp.Add(time.Millisecond)
	}
	s.lastStamp = stamp
	s.mu.Unlock()
	snap.SavedAt = stamp

	payload, err := json.Marshal(snap)
	if err != nil {
		return WriteFailureError{Err: fmt.Errorf("marshal snapshot: %w", err)}
	}

	row := storage.SnapshotRow{
		ID:            uuid.NewString(),
		SchemaVersion: snap.SchemaVersion,
		Payload:       payload,
		SavedAt:       stamp,
	}
	if err := s.repo.Replace(ctx, row); err != nil {
		return WriteFailureError{Err: err}
	}

	s.mu.Lock()
	s.lastSaved = stamp
	s.mu.Unlock()
	s.log.WithField("saved_at", stamp).Debug("snapshot written")
	return nil
}

// Load restores the engine from the latest snapshot. A corrupt snapshot
// (unknown schema version, missing fields, undecodable payload) is logged and
// the engine starts fresh instead of refusing to start.
func (s *Scheduler) Load(ctx context.Context) error {
	s.mu.Lock()
	for s.state != Idle {
		s.cond.Wait()
	}
	s.state = LoadInFlight
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = Idle
		s.cond.Broadcast()
		s.mu.Unlock()
	}()

	row, err := s.repo.Latest(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if row == nil {
		s.log.Info("no snapshot found, starting fresh")
		return nil
	}

	snap, err := decodeSnapshot(row)
	if err != nil {
		s.log.WithError(err).Warn("snapshot unusable, starting fresh")
		s.eng.Reset()
		return nil
	}
	if err := s.eng.Restore(*snap); err != nil {
		s.log.WithError(err).Warn("snapshot rejected, starting fresh")
		s.eng.Reset()
		return nil
	}

	s.mu.Lock()
	s.enabled = snap.Enabled
	s.lastSaved = snap.SavedAt
	s.lastStamp = snap.SavedAt
	s.mu.Unlock()
	s.log.WithField("saved_at", snap.SavedAt).Info("snapshot restored")
	return nil
}

func decodeSnapshot(row *storage.SnapshotRow) (*engine.Snapshot, error) {
	if row.SchemaVersion != engine.SchemaVersion {
		return nil, engine.CorruptSnapshotError{Reason: "unknown schema version"}
	}
	var snap engine.Snapshot
	if err := json.Unmarshal(row.Payload, &snap); err != nil {
		return nil, engine.CorruptSnapshotError{Reason: fmt.Sprintf("decode payload: %v", err)}
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Clear deletes the durable snapshot and resets in-memory state. It waits for
// any in-flight save to finish first so a stale snapshot cannot resurrect the
// cleared state. Irreversible; confirmation happens at the boundary.
func (s *Scheduler) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.pending = false // drop any queued save of about-to-be-cleared state
	for s.state != Idle {
		s.cond.Wait()
	}
	s.state = SaveInFlight // hold the write slot while clearing
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = Idle
		s.pending = false
		s.cond.Broadcast()
		s.mu.Unlock()
	}()

	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	s.eng.Reset()

	s.mu.Lock()
	s.lastSaved = time.Time{}
	s.mu.Unlock()
	s.log.Info("progression state cleared")
	return nil
}

// SetEnabled toggles the scheduled auto-save. It never cancels an in-flight
// write and does not affect ForceSave.
func (s *Scheduler) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled
	s.mu.Unlock()
}

// Status reports the save lifecycle for pull-based consumers.
func (s *Scheduler) Status() SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := SaveStatus{Enabled: s.enabled, LastSaved: s.lastSaved}
	if s.enabled {
		base := s.lastSaved
		if base.IsZero() {
			base = s.clock.Now()
		}
		st.NextSave = base.Add(s.interval)
	}
	return st
}
