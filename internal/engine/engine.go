package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"quizline/internal/dayclock"
)

// Engine owns the in-memory progression state: today's task set, the
// progression stats and the skill rating. It is an explicitly constructed
// instance; consumers receive it by reference, there is no ambient global.
//
// All entry points are serialized by a mutex, so play events are applied in
// the order received and reward crediting for one event lands before the next
// event is processed.
type Engine struct {
	mu sync.Mutex

	pool      []TaskTemplate
	policy    RewardPolicy
	ratingCfg RatingConfig
	res       *dayclock.Resolver
	log       *logrus.Entry

	stats    ProgressStats
	rating   Rating
	set      *TaskSet
	prev     *TaskSet // yesterday's set, archived read-only
	dayState DayState
}

// New builds an engine over an injected template pool and configuration.
// Fails with InvalidPoolError when the pool cannot fill a daily set.
func New(pool []TaskTemplate, policy RewardPolicy, ratingCfg RatingConfig, res *dayclock.Resolver, log *logrus.Entry) (*Engine, error) {
	count := policy.DailyTaskCount
	if count <= 0 {
		count = DefaultRewardPolicy().DailyTaskCount
	}
	if len(pool) < count {
		return nil, InvalidPoolError{Have: len(pool), Need: count}
	}
	return &Engine{
		pool:      pool,
		policy:    policy,
		ratingCfg: ratingCfg,
		res:       res,
		log:       log,
		stats:     NewProgressStats(),
		rating:    ratingCfg.NewRating(),
	}, nil
}

// OnTick is the explicit day-boundary entry point. The host calls it
// periodically and on resume; with a synthetic clock it makes every day
// transition testable without wall-clock timers.
func (e *Engine) OnTick(now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensureDay(e.res.KeyFor(now))
}

// ensureDay generates/rolls the task set for the observed day. Caller holds mu.
func (e *Engine) ensureDay(day dayclock.DayKey) error {
	if e.set != nil {
		if e.set.Day == day {
			return nil
		}
		gap, err := e.res.Diff(e.set.Day, day)
		if err != nil {
			return err
		}
		if gap < 0 {
			// Wall clock moved backwards across a day boundary. Keep the
			// current set; the streak never decrements on skew.
			e.log.WithFields(logrus.Fields{
				"active":   e.set.Day,
				"observed": day,
			}).Warn("clock skew: ignoring earlier day key")
			return nil
		}
	}

	state := evaluateTransition(&e.stats, day, e.res, e.log)

	set, err := Generate(day, e.pool, e.policy)
	if err != nil {
		return fmt.Errorf("generate task set for %s: %w", day, err)
	}
	if e.set != nil {
		e.prev = e.set
	}
	e.set = set
	e.dayState = state
	e.log.WithFields(logrus.Fields{
		"day":   day,
		"tasks": len(set.Tasks),
		"state": state.String(),
	}).Info("daily task set active")
	return nil
}

// ApplyEvent routes one play event through the progress tracker. Events are
// fatal only on malformed kinds; the state is untouched in that case.
func (e *Engine) ApplyEvent(ev PlayEvent) (*ApplyResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !ev.Kind.IsValid() {
		return nil, fmt.Errorf("invalid requirement kind: %q", ev.Kind)
	}
	at := ev.Timestamp
	if at.IsZero() {
		at = time.Now()
		ev.Timestamp = at
	}
	if err := e.ensureDay(e.res.KeyFor(at)); err != nil {
		return nil, err
	}

	res, err := applyEvent(e.set, ev, &e.stats, e.policy)
	if err != nil {
		return nil, err
	}

	if ev.Kind == KindGamesPlayed && ev.Magnitude > 0 {
		e.stats.GamesPlayed += ev.Magnitude
	}

	if res.SetCompleted {
		recordCompletion(&e.stats, e.set.Day, e.policy)
		e.dayState = DayCompletedToday
		e.log.WithFields(logrus.Fields{
			"day":    e.set.Day,
			"streak": e.stats.CurrentStreak,
		}).Info("daily set completed")
	}
	return res, nil
}

// RecordSession feeds a finished game session's accuracy into the skill
// rating. The rating update is pure; only the stored rating advances.
func (e *Engine) RecordSession(accuracy float64) Rating {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rating = UpdateRating(e.rating, accuracy, e.ratingCfg)
	return e.rating
}

// TaskSet returns a deep copy of today's set, or nil before the first tick.
func (e *Engine) TaskSet() *TaskSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.set.clone()
}

// PreviousTaskSet returns the archived set from before the last rollover.
func (e *Engine) PreviousTaskSet() *TaskSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prev.clone()
}

// Stats returns a copy of the progression stats.
func (e *Engine) Stats() ProgressStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Rating returns the current skill rating.
func (e *Engine) Rating() Rating {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rating
}

// RatingCategory maps the current rating into its configured band.
func (e *Engine) RatingCategory() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ratingCfg.CategoryFor(e.rating.Value)
}

// DayState reports the streak state for the active day.
func (e *Engine) DayState() DayState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dayState
}

// Snapshot captures the full progression state for persistence. SavedAt and
// Enabled are filled in by the persistence scheduler.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := Snapshot{
		SchemaVersion: SchemaVersion,
		Stats:         e.stats,
		Rating:        e.rating,
		Set:           e.set.clone(),
	}
	if e.set != nil {
		snap.Day = e.set.Day
	}
	return snap
}

// Restore replaces the in-memory state from a validated snapshot.
func (e *Engine) Restore(snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats = snap.Stats
	e.rating = snap.Rating
	e.set = snap.Set.clone()
	e.prev = nil
	if e.set != nil && e.set.Completed {
		e.dayState = DayCompletedToday
	} else {
		e.dayState = DayPending
	}
	return nil
}

// Reset drops all progression state back to initial values. The next tick
// regenerates the day's set.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats = NewProgressStats()
	e.rating = e.ratingCfg.NewRating()
	e.set = nil
	e.prev = nil
	e.dayState = DayPending
}
