package engine

import "math"

// Rating is the user's skill rating plus the rated-game count that drives the
// provisional-period K factor.
type Rating struct {
	Value float64 `json:"value"`
	Games int     `json:"games"`
}

// RatingBand maps a rating range onto a display category.
type RatingBand struct {
	Min  float64 `json:"min" mapstructure:"min"`
	Name string  `json:"name" mapstructure:"name"`
}

// RatingConfig holds the paired-comparison update tunables.
type RatingConfig struct {
	Initial  float64
	Baseline float64
	Floor    float64
	Ceiling  float64

	// K is larger during the provisional period to converge quickly, then
	// smaller to stabilize.
	KProvisional     float64
	KStable          float64
	ProvisionalGames int

	// Accuracy thresholds mapping a session onto {loss, draw, win}.
	WinAccuracy  float64
	DrawAccuracy float64

	Bands []RatingBand
}

// DefaultRatingConfig returns the built-in tuning.
func DefaultRatingConfig() RatingConfig {
	return RatingConfig{
		Initial:          1000,
		Baseline:         1000,
		Floor:            100,
		Ceiling:          3000,
		KProvisional:     32,
		KStable:          16,
		ProvisionalGames: 20,
		WinAccuracy:      0.80,
		DrawAccuracy:     0.50,
		Bands: []RatingBand{
			{Min: 0, Name: "Novice"},
			{Min: 800, Name: "Apprentice"},
			{Min: 1200, Name: "Skilled"},
			{Min: 1600, Name: "Expert"},
			{Min: 2000, Name: "Master"},
		},
	}
}

// NewRating returns the starting rating.
func (cfg RatingConfig) NewRating() Rating {
	return Rating{Value: cfg.Initial}
}

// CategoryFor maps a rating value into the configured bands. The band with
// the highest matching Min wins; config may list bands in any order.
func (cfg RatingConfig) CategoryFor(value float64) string {
	name := ""
	best := math.Inf(-1)
	for _, b := range cfg.Bands {
		if value >= b.Min && b.Min > best {
			best = b.Min
			name = b.Name
		}
	}
	return name
}

// outcomeFor maps session accuracy onto {0, 0.5, 1}. Accuracy outside [0,1]
// is clamped, not rejected.
func outcomeFor(accuracy float64, cfg RatingConfig) float64 {
	if accuracy < 0 {
		accuracy = 0
	}
	if accuracy > 1 {
		accuracy = 1
	}
	switch {
	case accuracy >= cfg.WinAccuracy:
		return 1
	case accuracy >= cfg.DrawAccuracy:
		return 0.5
	default:
		return 0
	}
}

// UpdateRating is the pure skill-rating update:
//
//	new = old + K * (outcome - expected)
//	expected = 1 / (1 + 10^((baseline-old)/400))
//
// The result is clamped to the configured floor/ceiling.
func UpdateRating(r Rating, accuracy float64, cfg RatingConfig) Rating {
	expected := 1.0 / (1.0 + math.Pow(10, (cfg.Baseline-r.Value)/400.0))
	k := cfg.KStable
	if r.Games < cfg.ProvisionalGames {
		k = cfg.KProvisional
	}
	value := r.Value + k*(outcomeFor(accuracy, cfg)-expected)
	if value < cfg.Floor {
		value = cfg.Floor
	}
	if cfg.Ceiling > 0 && value > cfg.Ceiling {
		value = cfg.Ceiling
	}
	return Rating{Value: value, Games: r.Games + 1}
}
