package engine

import (
	"fmt"
	"time"
)

// ApplyResult reports what one play event changed.
type ApplyResult struct {
	// NewlyCompleted lists tasks that transitioned to completed in this call,
	// bonus task included. Rewards for them are already credited.
	NewlyCompleted []Task
	XPEarned       int
	PointsEarned   int
	// SetCompleted is true only on the call that completed the full set.
	SetCompleted bool
}

// applyEvent mutates the set and stats for one play event. Reward crediting is
// atomic with the task state change: a task is never marked complete without
// its xp/points landing in stats in the same call.
func applyEvent(set *TaskSet, ev PlayEvent, stats *ProgressStats, p RewardPolicy) (*ApplyResult, error) {
	if !ev.Kind.IsValid() {
		return nil, fmt.Errorf("invalid requirement kind: %q", ev.Kind)
	}
	magnitude := ev.Magnitude
	if magnitude < 0 {
		magnitude = 0
	}
	at := ev.Timestamp
	if at.IsZero() {
		at = time.Now()
	}

	res := &ApplyResult{}
	for i := range set.Tasks {
		t := &set.Tasks[i]
		if t.Completed || t.Kind != ev.Kind {
			continue
		}
		if t.Kind.HighWater() {
			if magnitude > t.Progress {
				t.Progress = magnitude
			}
		} else {
			t.Progress += magnitude
		}
		if t.Progress >= t.Target {
			completeTask(t, at, stats, p, res)
		}
	}

	// The bonus task tracks how many regular tasks are done.
	if set.Bonus != nil && !set.Bonus.Completed {
		set.Bonus.Progress = set.CompletedCount()
		if set.Bonus.Progress >= set.Bonus.Target {
			completeTask(set.Bonus, at, stats, p, res)
		}
	}

	if !set.Completed && set.AllTasksCompleted() {
		set.Completed = true
		set.CompletedAt = &at
		stats.TotalXP += p.CompletionBonus
		res.XPEarned += p.CompletionBonus
		res.SetCompleted = true
	}

	return res, nil
}

func completeTask(t *Task, at time.Time, stats *ProgressStats, p RewardPolicy, res *ApplyResult) {
	t.Completed = true
	t.CompletedAt = &at
	reward := ComputeReward(*t, *stats, p)
	stats.TasksCompleted++
	stats.TotalXP += reward.XP
	stats.TotalPoints += reward.Points
	res.XPEarned += reward.XP
	res.PointsEarned += reward.Points
	res.NewlyCompleted = append(res.NewlyCompleted, *t)
}
