// Package config loads engine configuration from quizline.yaml via viper.
// Every tunable has a coded default, so a missing file yields a working setup.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"quizline/internal/engine"
)

// Config is the full runtime configuration.
type Config struct {
	Timezone string
	LogLevel string

	DBPath           string
	AutosaveInterval time.Duration
	AutosaveEnabled  bool

	Policy    engine.RewardPolicy
	RatingCfg engine.RatingConfig
	Templates []engine.TaskTemplate
}

// DefaultDBPath returns the default database location.
func DefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".quizline.db"), nil
}

func setDefaults(v *viper.Viper) {
	pol := engine.DefaultRewardPolicy()
	rc := engine.DefaultRatingConfig()

	v.SetDefault("timezone", "UTC")
	v.SetDefault("log.level", "info")

	v.SetDefault("persistence.autosave_interval", "30m")
	v.SetDefault("persistence.autosave_enabled", true)

	v.SetDefault("rewards.daily_task_count", pol.DailyTaskCount)
	v.SetDefault("rewards.bonus_task", pol.BonusTask)
	v.SetDefault("rewards.bonus_task_xp", pol.BonusTaskXP)
	v.SetDefault("rewards.bonus_task_points", pol.BonusTaskPts)
	v.SetDefault("rewards.base_xp.easy", pol.BaseXP[engine.DifficultyEasy])
	v.SetDefault("rewards.base_xp.medium", pol.BaseXP[engine.DifficultyMedium])
	v.SetDefault("rewards.base_xp.hard", pol.BaseXP[engine.DifficultyHard])
	v.SetDefault("rewards.completion_bonus", pol.CompletionBonus)
	v.SetDefault("rewards.streak_step_days", pol.StreakStepDays)
	v.SetDefault("rewards.streak_step_bonus", pol.StreakStepBonus)
	v.SetDefault("rewards.streak_multiplier_cap", pol.StreakMultiplierCap)
	v.SetDefault("rewards.grace_replenish_days", pol.GraceReplenishDays)

	v.SetDefault("rating.initial", rc.Initial)
	v.SetDefault("rating.baseline", rc.Baseline)
	v.SetDefault("rating.floor", rc.Floor)
	v.SetDefault("rating.ceiling", rc.Ceiling)
	v.SetDefault("rating.k_provisional", rc.KProvisional)
	v.SetDefault("rating.k_stable", rc.KStable)
	v.SetDefault("rating.provisional_games", rc.ProvisionalGames)
	v.SetDefault("rating.win_accuracy", rc.WinAccuracy)
	v.SetDefault("rating.draw_accuracy", rc.DrawAccuracy)
}

// Load reads configuration from path. An empty path looks for quizline.yaml in
// the working directory and is fine with not finding one.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("quizline")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Timezone:        v.GetString("timezone"),
		LogLevel:        v.GetString("log.level"),
		DBPath:          v.GetString("persistence.path"),
		AutosaveEnabled: v.GetBool("persistence.autosave_enabled"),
	}

	interval := v.GetDuration("persistence.autosave_interval")
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	cfg.AutosaveInterval = interval

	if cfg.DBPath == "" {
		p, err := DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = p
	}

	cfg.Policy = engine.RewardPolicy{
		DailyTaskCount: v.GetInt("rewards.daily_task_count"),
		BonusTask:      v.GetBool("rewards.bonus_task"),
		BonusTaskXP:    v.GetInt("rewards.bonus_task_xp"),
		BonusTaskPts:   v.GetInt("rewards.bonus_task_points"),
		BaseXP: map[engine.Difficulty]int{
			engine.DifficultyEasy:   v.GetInt("rewards.base_xp.easy"),
			engine.DifficultyMedium: v.GetInt("rewards.base_xp.medium"),
			engine.DifficultyHard:   v.GetInt("rewards.base_xp.hard"),
		},
		CompletionBonus:     v.GetInt("rewards.completion_bonus"),
		StreakStepDays:      v.GetInt("rewards.streak_step_days"),
		StreakStepBonus:     v.GetFloat64("rewards.streak_step_bonus"),
		StreakMultiplierCap: v.GetFloat64("rewards.streak_multiplier_cap"),
		GraceReplenishDays:  v.GetInt("rewards.grace_replenish_days"),
	}

	cfg.RatingCfg = engine.RatingConfig{
		Initial:          v.GetFloat64("rating.initial"),
		Baseline:         v.GetFloat64("rating.baseline"),
		Floor:            v.GetFloat64("rating.floor"),
		Ceiling:          v.GetFloat64("rating.ceiling"),
		KProvisional:     v.GetFloat64("rating.k_provisional"),
		KStable:          v.GetFloat64("rating.k_stable"),
		ProvisionalGames: v.GetInt("rating.provisional_games"),
		WinAccuracy:      v.GetFloat64("rating.win_accuracy"),
		DrawAccuracy:     v.GetFloat64("rating.draw_accuracy"),
	}
	if err := v.UnmarshalKey("rating.bands", &cfg.RatingCfg.Bands); err != nil {
		return nil, fmt.Errorf("parse rating bands: %w", err)
	}
	if len(cfg.RatingCfg.Bands) == 0 {
		cfg.RatingCfg.Bands = engine.DefaultRatingConfig().Bands
	}

	if err := v.UnmarshalKey("templates", &cfg.Templates); err != nil {
		return nil, fmt.Errorf("parse task templates: %w", err)
	}
	if len(cfg.Templates) == 0 {
		cfg.Templates = DefaultTemplatePool()
	}
	for i, tpl := range cfg.Templates {
		if !tpl.Kind.IsValid() {
			return nil, fmt.Errorf("template %d (%s): invalid requirement kind %q", i, tpl.ID, tpl.Kind)
		}
		if tpl.Target <= 0 {
			return nil, fmt.Errorf("template %d (%s): target must be positive", i, tpl.ID)
		}
	}

	return cfg, nil
}

// DefaultTemplatePool is the built-in daily task template pool.
func DefaultTemplatePool() []engine.TaskTemplate {
	return []engine.TaskTemplate{
		{ID: "score_500", Title: "Score 500 points in one game", Kind: engine.KindScore, Target: 500, Difficulty: engine.DifficultyEasy, Points: 20},
		{ID: "score_1500", Title: "Score 1500 points in one game", Kind: engine.KindScore, Target: 1500, Difficulty: engine.DifficultyHard, Points: 60},
		{ID: "play_3", Title: "Play 3 games", Kind: engine.KindGamesPlayed, Target: 3, Difficulty: engine.DifficultyEasy, Points: 20},
		{ID: "play_5", Title: "Play 5 games", Kind: engine.KindGamesPlayed, Target: 5, Difficulty: engine.DifficultyMedium, Points: 40},
		{ID: "accuracy_80", Title: "Finish a game at 80% accuracy", Kind: engine.KindAccuracy, Target: 80, Difficulty: engine.DifficultyMedium, Points: 40},
		{ID: "answer_streak_10", Title: "Answer 10 questions in a row", Kind: engine.KindStreak, Target: 10, Difficulty: engine.DifficultyMedium, Points: 40},
		{ID: "time_10m", Title: "Play for 10 minutes", Kind: engine.KindTime, Target: 600, Difficulty: engine.DifficultyEasy, Points: 20},
		{ID: "category_science", Title: "Complete a science round", Kind: engine.KindCategoryMatch, Target: 1, Difficulty: engine.DifficultyEasy, Points: 20},
		{ID: "mode_blitz", Title: "Finish a blitz mode game", Kind: engine.KindModeMatch, Target: 1, Difficulty: engine.DifficultyMedium, Points: 40},
	}
}
