package engine

import (
	"math"
	"testing"
)

func TestUpdateRatingWinAtBaseline(t *testing.T) {
	cfg := DefaultRatingConfig()
	r := cfg.NewRating()

	// Equal ratings: expected = 0.5, win pays K/2.
	got := UpdateRating(r, 0.95, cfg)
	want := cfg.Initial + cfg.KProvisional*0.5
	if math.Abs(got.Value-want) > 1e-9 {
		t.Fatalf("Value=%v, want %v", got.Value, want)
	}
	if got.Games != 1 {
		t.Fatalf("Games=%d, want 1", got.Games)
	}
}

func TestUpdateRatingDrawAndLoss(t *testing.T) {
	cfg := DefaultRatingConfig()
	r := cfg.NewRating()

	draw := UpdateRating(r, 0.6, cfg)
	if math.Abs(draw.Value-cfg.Initial) > 1e-9 {
		t.Fatalf("draw at baseline should not move rating: %v", draw.Value)
	}

	loss := UpdateRating(r, 0.2, cfg)
	if loss.Value >= cfg.Initial {
		t.Fatalf("loss should lower rating: %v", loss.Value)
	}
}

func TestUpdateRatingProvisionalK(t *testing.T) {
	cfg := DefaultRatingConfig()

	early := UpdateRating(Rating{Value: cfg.Initial, Games: 0}, 1.0, cfg)
	late := UpdateRating(Rating{Value: cfg.Initial, Games: cfg.ProvisionalGames}, 1.0, cfg)

	earlyDelta := early.Value - cfg.Initial
	lateDelta := late.Value - cfg.Initial
	if earlyDelta <= lateDelta {
		t.Fatalf("provisional games should move rating more: early %v, late %v", earlyDelta, lateDelta)
	}
}

func TestUpdateRatingClamps(t *testing.T) {
	cfg := DefaultRatingConfig()

	low := UpdateRating(Rating{Value: cfg.Floor, Games: 100}, 0, cfg)
	if low.Value < cfg.Floor {
		t.Fatalf("rating below floor: %v", low.Value)
	}

	high := UpdateRating(Rating{Value: cfg.Ceiling, Games: 100}, 1, cfg)
	if high.Value > cfg.Ceiling {
		t.Fatalf("rating above ceiling: %v", high.Value)
	}

	// Accuracy outside [0,1] is clamped, not rejected.
	wild := UpdateRating(cfg.NewRating(), 12.5, cfg)
	sane := UpdateRating(cfg.NewRating(), 1.0, cfg)
	if wild.Value != sane.Value {
		t.Fatalf("accuracy 12.5 should clamp to 1.0: %v vs %v", wild.Value, sane.Value)
	}
}

func TestCategoryFor(t *testing.T) {
	cfg := DefaultRatingConfig()
	cases := []struct {
		value float64
		want  string
	}{
		{100, "Novice"},
		{800, "Apprentice"},
		{1199, "Apprentice"},
		{1200, "Skilled"},
		{1700, "Expert"},
		{2500, "Master"},
	}
	for _, c := range cases {
		if got := cfg.CategoryFor(c.value); got != c.want {
			t.Fatalf("CategoryFor(%v)=%q, want %q", c.value, got, c.want)
		}
	}
}

func TestCategoryForUnsortedBands(t *testing.T) {
	cfg := DefaultRatingConfig()
	cfg.Bands = []RatingBand{
		{Min: 2000, Name: "Master"},
		{Min: 0, Name: "Novice"},
		{Min: 1200, Name: "Skilled"},
		{Min: 800, Name: "Apprentice"},
		{Min: 1600, Name: "Expert"},
	}

	cases := []struct {
		value float64
		want  string
	}{
		{100, "Novice"},
		{1000, "Apprentice"},
		{1400, "Skilled"},
		{2500, "Master"},
	}
	for _, c := range cases {
		if got := cfg.CategoryFor(c.value); got != c.want {
			t.Fatalf("CategoryFor(%v)=%q, want %q", c.value, got, c.want)
		}
	}
}
