package engine

import (
	"hash/fnv"
	"math/rand"

	"quizline/internal/dayclock"
)

// BonusTaskID identifies the optional complete-all bonus task.
const BonusTaskID = "daily_all"

// daySeed derives a deterministic RNG seed from the day key so regenerating
// the same day's set after a crash yields identical selections.
func daySeed(day dayclock.DayKey) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(day))
	return int64(h.Sum64())
}

// Generate produces the task set for one day from the template pool.
// Pure given its inputs: same day + pool + policy always selects the same
// subset in the same order. The caller persists the result.
func Generate(day dayclock.DayKey, pool []TaskTemplate, p RewardPolicy) (*TaskSet, error) {
	count := p.DailyTaskCount
	if count <= 0 {
		count = DefaultRewardPolicy().DailyTaskCount
	}
	if len(pool) < count {
		return nil, InvalidPoolError{Have: len(pool), Need: count}
	}

	rng := rand.New(rand.NewSource(daySeed(day)))
	perm := rng.Perm(len(pool))

	set := &TaskSet{Day: day, Tasks: make([]Task, 0, count)}
	for _, idx := range perm[:count] {
		tpl := pool[idx]
		set.Tasks = append(set.Tasks, Task{
			ID:           tpl.ID,
			Title:        tpl.Title,
			Kind:         tpl.Kind,
			Target:       tpl.Target,
			Difficulty:   tpl.Difficulty,
			XPReward:     p.BaseXPFor(tpl.Difficulty),
			PointsReward: tpl.Points,
		})
	}

	if p.BonusTask {
		set.Bonus = &Task{
			ID:           BonusTaskID,
			Title:        "Complete every daily task",
			Kind:         KindAchievement,
			Target:       count,
			Difficulty:   DifficultyHard,
			XPReward:     p.BonusTaskXP,
			PointsReward: p.BonusTaskPts,
		}
	}

	return set, nil
}
