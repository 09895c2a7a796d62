package engine

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"quizline/internal/dayclock"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func testResolver(t *testing.T) *dayclock.Resolver {
	t.Helper()
	res, err := dayclock.NewResolver("")
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return res
}

// fixedPool has exactly DailyTaskCount templates so every generated set
// contains all of them, regardless of selection order.
func fixedPool() []TaskTemplate {
	return []TaskTemplate{
		{ID: "score_100", Title: "Score 100 points", Kind: KindScore, Target: 100, Difficulty: DifficultyEasy, Points: 20},
		{ID: "play_2", Title: "Play 2 games", Kind: KindGamesPlayed, Target: 2, Difficulty: DifficultyMedium, Points: 30},
		{ID: "accuracy_80", Title: "Hit 80% accuracy", Kind: KindAccuracy, Target: 80, Difficulty: DifficultyHard, Points: 40},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(fixedPool(), DefaultRewardPolicy(), DefaultRatingConfig(), testResolver(t), testLog())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng
}

// completeDay drives every task of the active set to completion.
func completeDay(t *testing.T, eng *Engine, at time.Time) {
	t.Helper()
	events := []PlayEvent{
		{Kind: KindScore, Magnitude: 100, Timestamp: at},
		{Kind: KindGamesPlayed, Magnitude: 2, Timestamp: at},
		{Kind: KindAccuracy, Magnitude: 80, Timestamp: at},
	}
	for _, ev := range events {
		if _, err := eng.ApplyEvent(ev); err != nil {
			t.Fatalf("ApplyEvent(%s): %v", ev.Kind, err)
		}
	}
}

func TestNewRejectsSmallPool(t *testing.T) {
	_, err := New(fixedPool()[:2], DefaultRewardPolicy(), DefaultRatingConfig(), testResolver(t), testLog())
	var poolErr InvalidPoolError
	if !errors.As(err, &poolErr) {
		t.Fatalf("expected InvalidPoolError, got %v", err)
	}
}

func TestOnTickActivatesDay(t *testing.T) {
	eng := newTestEngine(t)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	if eng.TaskSet() != nil {
		t.Fatalf("set should be nil before first tick")
	}
	if err := eng.OnTick(now); err != nil {
		t.Fatalf("OnTick: %v", err)
	}

	set := eng.TaskSet()
	if set == nil || set.Day != "2026-03-14" {
		t.Fatalf("unexpected set: %+v", set)
	}
	if len(set.Tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(set.Tasks))
	}

	// Ticks within the same day keep the same set and progress.
	if _, err := eng.ApplyEvent(PlayEvent{Kind: KindScore, Magnitude: 40, Timestamp: now}); err != nil {
		t.Fatalf("ApplyEvent: %v", err)
	}
	if err := eng.OnTick(now.Add(6 * time.Hour)); err != nil {
		t.Fatalf("OnTick: %v", err)
	}
	for _, task := range eng.TaskSet().Tasks {
		if task.Kind == KindScore && task.Progress != 40 {
			t.Fatalf("same-day tick reset progress: %d", task.Progress)
		}
	}
}

func TestTaskSetAccessorReturnsCopy(t *testing.T) {
	eng := newTestEngine(t)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	if err := eng.OnTick(now); err != nil {
		t.Fatalf("OnTick: %v", err)
	}

	leaked := eng.TaskSet()
	leaked.Tasks[0].Progress = 9999
	leaked.Completed = true

	fresh := eng.TaskSet()
	if fresh.Tasks[0].Progress != 0 || fresh.Completed {
		t.Fatalf("accessor leaked mutable state: %+v", fresh)
	}
}

func TestApplyEventHighWaterNeverRegresses(t *testing.T) {
	eng := newTestEngine(t)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	scoreProgress := func() int {
		for _, task := range eng.TaskSet().Tasks {
			if task.Kind == KindScore {
				return task.Progress
			}
		}
		t.Fatalf("no score task in set")
		return 0
	}

	for _, m := range []int{40, 30, 55} {
		if _, err := eng.ApplyEvent(PlayEvent{Kind: KindScore, Magnitude: m, Timestamp: now}); err != nil {
			t.Fatalf("ApplyEvent: %v", err)
		}
	}
	if got := scoreProgress(); got != 55 {
		t.Fatalf("high-water progress=%d, want 55", got)
	}
}

func TestApplyEventCumulativeAccumulates(t *testing.T) {
	eng := newTestEngine(t)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	res1, err := eng.ApplyEvent(PlayEvent{Kind: KindGamesPlayed, Magnitude: 1, Timestamp: now})
	if err != nil {
		t.Fatalf("ApplyEvent: %v", err)
	}
	if len(res1.NewlyCompleted) != 0 {
		t.Fatalf("task completed early: %+v", res1.NewlyCompleted)
	}

	res2, err := eng.ApplyEvent(PlayEvent{Kind: KindGamesPlayed, Magnitude: 1, Timestamp: now})
	if err != nil {
		t.Fatalf("ApplyEvent: %v", err)
	}
	if len(res2.NewlyCompleted) != 1 || res2.NewlyCompleted[0].ID != "play_2" {
		t.Fatalf("expected play_2 completed, got %+v", res2.NewlyCompleted)
	}
	if stats := eng.Stats(); stats.GamesPlayed != 2 {
		t.Fatalf("GamesPlayed=%d, want 2", stats.GamesPlayed)
	}
}

func TestRewardCreditedExactlyOnce(t *testing.T) {
	eng := newTestEngine(t)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	res, err := eng.ApplyEvent(PlayEvent{Kind: KindScore, Magnitude: 150, Timestamp: now})
	if err != nil {
		t.Fatalf("ApplyEvent: %v", err)
	}
	if res.XPEarned != 25 || res.PointsEarned != 20 {
		t.Fatalf("reward=%d/%d, want 25/20", res.XPEarned, res.PointsEarned)
	}

	// A second qualifying event must not re-credit the completed task.
	again, err := eng.ApplyEvent(PlayEvent{Kind: KindScore, Magnitude: 200, Timestamp: now})
	if err != nil {
		t.Fatalf("ApplyEvent: %v", err)
	}
	if again.XPEarned != 0 || len(again.NewlyCompleted) != 0 {
		t.Fatalf("completed task re-credited: %+v", again)
	}
	if stats := eng.Stats(); stats.TotalXP != 25 || stats.TasksCompleted != 1 {
		t.Fatalf("stats drifted: %+v", stats)
	}
}

func TestFullSetCompletionPaysBonuses(t *testing.T) {
	eng := newTestEngine(t)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	completeDay(t, eng, now)

	// Streak 0 at crediting time: 25+50+100 task XP, 75 bonus task,
	// 50 completion bonus.
	stats := eng.Stats()
	if stats.TotalXP != 300 {
		t.Fatalf("TotalXP=%d, want 300", stats.TotalXP)
	}
	if stats.TotalPoints != 140 {
		t.Fatalf("TotalPoints=%d, want 140", stats.TotalPoints)
	}
	if stats.TasksCompleted != 4 {
		t.Fatalf("TasksCompleted=%d, want 4 (3 tasks + bonus)", stats.TasksCompleted)
	}
	if stats.CurrentStreak != 1 || stats.LastCompletedDay != "2026-03-14" {
		t.Fatalf("completion did not advance streak: %+v", stats)
	}
	if eng.DayState() != DayCompletedToday {
		t.Fatalf("day state=%s, want completed", eng.DayState())
	}

	set := eng.TaskSet()
	if !set.Completed || set.Bonus == nil || !set.Bonus.Completed {
		t.Fatalf("set not fully completed: %+v", set)
	}
}

func TestMultiDayStreakFlow(t *testing.T) {
	eng := newTestEngine(t)
	clock := dayclock.NewFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))

	for day := 0; day < 3; day++ {
		if err := eng.OnTick(clock.Now()); err != nil {
			t.Fatalf("OnTick day %d: %v", day, err)
		}
		completeDay(t, eng, clock.Now())
		clock.Advance(24 * time.Hour)
	}
	if stats := eng.Stats(); stats.CurrentStreak != 3 || stats.LongestStreak != 3 {
		t.Fatalf("streak=%d/%d, want 3/3", stats.CurrentStreak, stats.LongestStreak)
	}

	// Skip a day: the grace token covers the gap.
	clock.Advance(24 * time.Hour)
	if err := eng.OnTick(clock.Now()); err != nil {
		t.Fatalf("OnTick after gap: %v", err)
	}
	if eng.DayState() != DayMissedCovered {
		t.Fatalf("day state=%s, want missed-covered", eng.DayState())
	}
	completeDay(t, eng, clock.Now())
	if stats := eng.Stats(); stats.CurrentStreak != 4 {
		t.Fatalf("streak=%d, want 4 after covered gap", stats.CurrentStreak)
	}

	prev := eng.PreviousTaskSet()
	if prev == nil || prev.Day != "2026-03-16" {
		t.Fatalf("previous set not archived: %+v", prev)
	}
}

func TestRolloverDiscardsIncompleteProgress(t *testing.T) {
	eng := newTestEngine(t)
	clock := dayclock.NewFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))

	if err := eng.OnTick(clock.Now()); err != nil {
		t.Fatalf("OnTick: %v", err)
	}
	if _, err := eng.ApplyEvent(PlayEvent{Kind: KindScore, Magnitude: 60, Timestamp: clock.Now()}); err != nil {
		t.Fatalf("ApplyEvent: %v", err)
	}

	clock.Advance(24 * time.Hour)
	if err := eng.OnTick(clock.Now()); err != nil {
		t.Fatalf("OnTick: %v", err)
	}

	for _, task := range eng.TaskSet().Tasks {
		if task.Progress != 0 {
			t.Fatalf("rollover carried progress: %+v", task)
		}
	}
	// Partial progress earns nothing.
	if stats := eng.Stats(); stats.TotalXP != 0 || stats.CurrentStreak != 0 {
		t.Fatalf("incomplete day paid out: %+v", stats)
	}
}

func TestApplyEventInvalidKind(t *testing.T) {
	eng := newTestEngine(t)
	if _, err := eng.ApplyEvent(PlayEvent{Kind: "bogus", Magnitude: 1}); err == nil {
		t.Fatalf("expected error for invalid kind")
	}
}

func TestRecordSessionMovesRating(t *testing.T) {
	eng := newTestEngine(t)
	before := eng.Rating()
	after := eng.RecordSession(0.95)
	if after.Value <= before.Value {
		t.Fatalf("winning session should raise rating: %v -> %v", before.Value, after.Value)
	}
	if after.Games != before.Games+1 {
		t.Fatalf("Games=%d, want %d", after.Games, before.Games+1)
	}
	if eng.RatingCategory() == "" {
		t.Fatalf("empty rating category")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	eng := newTestEngine(t)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	if err := eng.OnTick(now); err != nil {
		t.Fatalf("OnTick: %v", err)
	}
	completeDay(t, eng, now)
	eng.RecordSession(0.9)

	snap := eng.Snapshot()
	if snap.SchemaVersion != SchemaVersion || snap.Day != "2026-03-14" {
		t.Fatalf("bad snapshot header: %+v", snap)
	}

	eng.Reset()
	if eng.Stats().TotalXP != 0 {
		t.Fatalf("reset did not clear stats")
	}

	if err := eng.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	stats := eng.Stats()
	if stats.TotalXP != 300 || stats.CurrentStreak != 1 {
		t.Fatalf("restored stats wrong: %+v", stats)
	}
	if eng.Rating().Games != 1 {
		t.Fatalf("restored rating wrong: %+v", eng.Rating())
	}
	if eng.DayState() != DayCompletedToday {
		t.Fatalf("restored day state=%s, want completed", eng.DayState())
	}
}

func TestRestoreRejectsCorruptSnapshot(t *testing.T) {
	eng := newTestEngine(t)
	snap := eng.Snapshot()
	snap.Stats.CurrentStreak = 10
	snap.Stats.LongestStreak = 2

	err := eng.Restore(snap)
	var corrupt CorruptSnapshotError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected CorruptSnapshotError, got %v", err)
	}
}
