package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"quizline/internal/engine"
)

func writeConfig(t *testing.T, doc map[string]any) string {
	t.Helper()
	raw, err := yaml.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "quizline.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, map[string]any{}))
	require.NoError(t, err)

	require.Equal(t, "UTC", cfg.Timezone)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 30*time.Minute, cfg.AutosaveInterval)
	require.True(t, cfg.AutosaveEnabled)
	require.NotEmpty(t, cfg.DBPath)

	require.Equal(t, engine.DefaultRewardPolicy(), cfg.Policy)
	require.Equal(t, engine.DefaultRatingConfig(), cfg.RatingCfg)
	require.Equal(t, DefaultTemplatePool(), cfg.Templates)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"timezone": "Europe/Berlin",
		"log":      map[string]any{"level": "debug"},
		"persistence": map[string]any{
			"path":              "/tmp/custom.db",
			"autosave_interval": "5m",
			"autosave_enabled":  false,
		},
		"rewards": map[string]any{
			"daily_task_count": 5,
			"completion_bonus": 100,
		},
		"rating": map[string]any{
			"initial": 1200,
		},
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Europe/Berlin", cfg.Timezone)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "/tmp/custom.db", cfg.DBPath)
	require.Equal(t, 5*time.Minute, cfg.AutosaveInterval)
	require.False(t, cfg.AutosaveEnabled)
	require.Equal(t, 5, cfg.Policy.DailyTaskCount)
	require.Equal(t, 100, cfg.Policy.CompletionBonus)
	require.Equal(t, float64(1200), cfg.RatingCfg.Initial)

	// Untouched keys keep their defaults.
	require.Equal(t, engine.DefaultRewardPolicy().BaseXP, cfg.Policy.BaseXP)
	require.Equal(t, engine.DefaultRatingConfig().Bands, cfg.RatingCfg.Bands)
}

func TestLoadCustomTemplates(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"templates": []map[string]any{
			{"id": "score_9000", "title": "Score 9000", "kind": "score", "target": 9000, "difficulty": 3, "points": 80},
			{"id": "play_1", "title": "Play a game", "kind": "games-played", "target": 1, "difficulty": 1, "points": 10},
		},
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Templates, 2)
	require.Equal(t, engine.KindScore, cfg.Templates[0].Kind)
	require.Equal(t, engine.DifficultyHard, cfg.Templates[0].Difficulty)
	require.Equal(t, 9000, cfg.Templates[0].Target)
}

func TestLoadRejectsInvalidTemplateKind(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"templates": []map[string]any{
			{"id": "bad", "title": "Bad", "kind": "teleport", "target": 1, "difficulty": 1, "points": 10},
		},
	})

	_, err := Load(path)
	require.ErrorContains(t, err, "invalid requirement kind")
}

func TestLoadRejectsNonPositiveTarget(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"templates": []map[string]any{
			{"id": "bad", "title": "Bad", "kind": "score", "target": 0, "difficulty": 1, "points": 10},
		},
	})

	_, err := Load(path)
	require.ErrorContains(t, err, "target must be positive")
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadNoFileUsesDefaults(t *testing.T) {
	// Empty path tolerates an absent quizline.yaml.
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, engine.DefaultRewardPolicy(), cfg.Policy)
}
