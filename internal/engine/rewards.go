package engine

import "math"

// RewardPolicy holds every reward/streak tunable. Loaded from config; nothing
// here is mutated at runtime.
type RewardPolicy struct {
	DailyTaskCount int
	BonusTask      bool
	BonusTaskXP    int
	BonusTaskPts   int

	// BaseXP maps difficulty to the base XP a task of that difficulty pays.
	BaseXP map[Difficulty]int

	// CompletionBonus is flat XP added exactly once when the full set completes.
	CompletionBonus int

	// Streak multiplier step curve: +StreakStepBonus per StreakStepDays of
	// streak, capped at StreakMultiplierCap.
	StreakStepDays      int
	StreakStepBonus     float64
	StreakMultiplierCap float64

	// GraceReplenishDays regrants the grace token every N streak days.
	// Zero disables replenishment.
	GraceReplenishDays int
}

// DefaultRewardPolicy returns the built-in tuning.
func DefaultRewardPolicy() RewardPolicy {
	return RewardPolicy{
		DailyTaskCount: 3,
		BonusTask:      true,
		BonusTaskXP:    75,
		BonusTaskPts:   50,
		BaseXP: map[Difficulty]int{
			DifficultyEasy:   25,
			DifficultyMedium: 50,
			DifficultyHard:   100,
		},
		CompletionBonus:     50,
		StreakStepDays:      5,
		StreakStepBonus:     0.10,
		StreakMultiplierCap: 2.0,
		GraceReplenishDays:  30,
	}
}

// BaseXPFor returns the base XP for a difficulty, clamping unknown values to
// the easy tier rather than failing.
func (p RewardPolicy) BaseXPFor(d Difficulty) int {
	if xp, ok := p.BaseXP[d]; ok {
		return xp
	}
	if xp, ok := p.BaseXP[DifficultyEasy]; ok {
		return xp
	}
	return 25
}

// Reward is what completing a task pays out.
type Reward struct {
	XP     int
	Points int
}

// StreakMultiplier is a monotonically non-decreasing step function of streak
// length. A 5-day step with 10% bonus gives 1.0 for days 0-4, 1.1 for 5-9, etc.
func StreakMultiplier(streak int, p RewardPolicy) float64 {
	if streak < 0 {
		streak = 0
	}
	step := p.StreakStepDays
	if step <= 0 {
		return 1.0
	}
	mult := 1.0 + float64(streak/step)*p.StreakStepBonus
	if p.StreakMultiplierCap > 0 && mult > p.StreakMultiplierCap {
		mult = p.StreakMultiplierCap
	}
	return mult
}

// ComputeReward is the pure reward function for a single completed task.
// XP scales with the streak multiplier and is floored, never rounded up, so
// repeated fractional awards cannot inflate over time. Points stay flat; the
// multiplier could be relocated onto points instead, but XP is where it lives.
func ComputeReward(task Task, stats ProgressStats, p RewardPolicy) Reward {
	base := task.XPReward
	if base < 0 {
		base = 0
	}
	xp := int(math.Floor(float64(base) * StreakMultiplier(stats.CurrentStreak, p)))
	pts := task.PointsReward
	if pts < 0 {
		pts = 0
	}
	return Reward{XP: xp, Points: pts}
}
