package engine

import (
	"github.com/sirupsen/logrus"

	"quizline/internal/dayclock"
)

// DayState is the streak machine's state for the current day.
type DayState int

const (
	// DayPending: today's set exists but is not yet fully completed.
	DayPending DayState = iota
	// DayCompletedToday: today's set is fully completed.
	DayCompletedToday
	// DayMissedCovered: a gap was forgiven by consuming the grace token.
	DayMissedCovered
	// DayMissedLost: a gap broke the streak.
	DayMissedLost
)

func (s DayState) String() string {
	switch s {
	case DayPending:
		return "pending"
	case DayCompletedToday:
		return "completed"
	case DayMissedCovered:
		return "missed-covered"
	case DayMissedLost:
		return "missed-lost"
	default:
		return "unknown"
	}
}

// evaluateTransition applies the streak rules for one day-boundary crossing.
// It compares LastCompletedDay against the newly observed day rather than any
// "has run today" flag, which keeps it idempotent across app restarts on the
// same day.
func evaluateTransition(stats *ProgressStats, newDay dayclock.DayKey, res *dayclock.Resolver, log *logrus.Entry) DayState {
	if stats.LastCompletedDay.IsZero() {
		return DayPending
	}

	gap, err := res.Diff(stats.LastCompletedDay, newDay)
	if err != nil {
		log.WithError(err).Warn("unparseable day key in streak evaluation")
		return DayPending
	}

	switch {
	case gap <= 0:
		// Day key at or before the last recorded completion: clock skew.
		// Treated as a no-op transition, never decrements the streak.
		if gap < 0 {
			log.WithFields(logrus.Fields{
				"last_completed": stats.LastCompletedDay,
				"observed":       newDay,
			}).Warn("clock skew: observed day precedes last completed day")
		}
		return DayPending
	case gap == 1:
		// Yesterday was completed (LastCompletedDay says so); streak intact,
		// it grows when today's set completes.
		return DayPending
	case stats.CurrentStreak == 0:
		// No live streak to preserve or break; never burn a token here.
		return DayPending
	case stats.GraceAvailable && !stats.GraceUsed:
		// One missed day forgiven. Tokens never stack: exactly one gap per
		// streak lifetime unless the policy replenishes.
		stats.GraceUsed = true
		stats.GraceAvailable = false
		log.WithFields(logrus.Fields{
			"gap":    gap,
			"streak": stats.CurrentStreak,
		}).Info("grace period consumed, streak preserved")
		return DayMissedCovered
	default:
		stats.CurrentStreak = 0
		// A fresh streak lifetime starts with a fresh token.
		stats.GraceUsed = false
		stats.GraceAvailable = true
		log.WithField("gap", gap).Info("streak broken")
		return DayMissedLost
	}
}

// recordCompletion bumps the streak for a fully completed day set.
// Called exactly once per set completion by the progress tracker.
func recordCompletion(stats *ProgressStats, day dayclock.DayKey, p RewardPolicy) {
	stats.CurrentStreak++
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastCompletedDay = day

	if p.GraceReplenishDays > 0 && stats.CurrentStreak > 0 &&
		stats.CurrentStreak%p.GraceReplenishDays == 0 {
		stats.GraceAvailable = true
		stats.GraceUsed = false
	}
}
