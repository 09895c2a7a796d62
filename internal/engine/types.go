package engine

import (
	"fmt"
	"strings"
	"time"

	"quizline/internal/dayclock"
)

// RequirementKind classifies what a daily task measures.
type RequirementKind string

const (
	KindScore         RequirementKind = "score"
	KindGamesPlayed   RequirementKind = "games-played"
	KindAccuracy      RequirementKind = "accuracy"
	KindStreak        RequirementKind = "streak"
	KindTime          RequirementKind = "time"
	KindCategoryMatch RequirementKind = "category-match"
	KindModeMatch     RequirementKind = "mode-match"
	KindAchievement   RequirementKind = "achievement"
)

func (k RequirementKind) IsValid() bool {
	switch k {
	case KindScore, KindGamesPlayed, KindAccuracy, KindStreak, KindTime,
		KindCategoryMatch, KindModeMatch, KindAchievement:
		return true
	default:
		return false
	}
}

// HighWater reports whether progress for this kind is a high-water mark
// (best value so far) rather than a running total.
func (k RequirementKind) HighWater() bool {
	switch k {
	case KindScore, KindAccuracy, KindStreak:
		return true
	default:
		return false
	}
}

// ParseRequirementKind parses user/config input into a RequirementKind.
func ParseRequirementKind(input string) (RequirementKind, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	k := RequirementKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid requirement kind: %q", input)
	}
	return k, nil
}

// Difficulty scales a task's base XP.
type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

func (d Difficulty) IsValid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

// TaskTemplate is an immutable entry in the template pool the daily generator
// draws from.
type TaskTemplate struct {
	ID         string          `json:"id" mapstructure:"id"`
	Title      string          `json:"title" mapstructure:"title"`
	Kind       RequirementKind `json:"kind" mapstructure:"kind"`
	Target     int             `json:"target" mapstructure:"target"`
	Difficulty Difficulty      `json:"difficulty" mapstructure:"difficulty"`
	Points     int             `json:"points" mapstructure:"points"`
}

// Task is one daily objective. Template fields are frozen at generation time;
// only Progress/Completed/CompletedAt mutate, and only through ApplyEvent.
type Task struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Kind         RequirementKind `json:"kind"`
	Target       int             `json:"target"`
	Difficulty   Difficulty      `json:"difficulty"`
	XPReward     int             `json:"xp_reward"`
	PointsReward int             `json:"points_reward"`
	Progress     int             `json:"progress"`
	Completed    bool            `json:"completed"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// TaskSet is the bundle of tasks active for one calendar day.
// Invariant: Completed is true iff every task in Tasks is completed.
type TaskSet struct {
	Day         dayclock.DayKey `json:"day"`
	Tasks       []Task          `json:"tasks"`
	Bonus       *Task           `json:"bonus,omitempty"`
	Completed   bool            `json:"completed"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// AllTasksCompleted reports whether every regular task is done.
func (s *TaskSet) AllTasksCompleted() bool {
	for i := range s.Tasks {
		if !s.Tasks[i].Completed {
			return false
		}
	}
	return len(s.Tasks) > 0
}

// CompletedCount returns how many regular tasks are done.
func (s *TaskSet) CompletedCount() int {
	n := 0
	for i := range s.Tasks {
		if s.Tasks[i].Completed {
			n++
		}
	}
	return n
}

// clone returns a deep copy so accessors never leak mutable engine state.
func (s *TaskSet) clone() *TaskSet {
	if s == nil {
		return nil
	}
	out := *s
	out.Tasks = make([]Task, len(s.Tasks))
	copy(out.Tasks, s.Tasks)
	for i := range out.Tasks {
		out.Tasks[i].CompletedAt = copyTime(s.Tasks[i].CompletedAt)
	}
	if s.Bonus != nil {
		b := *s.Bonus
		b.CompletedAt = copyTime(s.Bonus.CompletedAt)
		out.Bonus = &b
	}
	out.CompletedAt = copyTime(s.CompletedAt)
	return &out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// ProgressStats is the single per-user progression record.
// Invariant: CurrentStreak <= LongestStreak after every mutation.
type ProgressStats struct {
	CurrentStreak    int             `json:"current_streak"`
	LongestStreak    int             `json:"longest_streak"`
	TasksCompleted   int             `json:"tasks_completed"`
	TotalXP          int             `json:"total_xp"`
	TotalPoints      int             `json:"total_points"`
	GamesPlayed      int             `json:"games_played"`
	LastCompletedDay dayclock.DayKey `json:"last_completed_day,omitempty"`
	GraceUsed        bool            `json:"grace_used"`
	GraceAvailable   bool            `json:"grace_available"`
}

// NewProgressStats returns fresh stats. Each streak lifetime starts with one
// unused grace token.
func NewProgressStats() ProgressStats {
	return ProgressStats{GraceAvailable: true}
}

// PlayEvent is a raw play signal fed into the progress tracker.
type PlayEvent struct {
	Kind      RequirementKind
	Magnitude int
	Timestamp time.Time
}
