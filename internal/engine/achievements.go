package engine

// Achievement represents a badge the player can earn. Achievements are derived
// read-only from lifetime stats; nothing here is stored.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Earned      bool
}

// AchievementChecker calculates which achievements the player has earned.
type AchievementChecker struct {
	stats  ProgressStats
	rating Rating
	cfg    RatingConfig
}

func NewAchievementChecker(stats ProgressStats, rating Rating, cfg RatingConfig) *AchievementChecker {
	return &AchievementChecker{stats: stats, rating: rating, cfg: cfg}
}

// GetAchievements returns all achievements with their earned status.
func (c *AchievementChecker) GetAchievements() []Achievement {
	return []Achievement{
		// Task completion milestones
		c.taskCountAchievement("first_task", "First Steps", "Complete 1 daily task", "✓", 1),
		c.taskCountAchievement("productive", "Productive", "Complete 10 daily tasks", "📋", 10),
		c.taskCountAchievement("achiever", "Achiever", "Complete 50 daily tasks", "🏅", 50),
		c.taskCountAchievement("powerhouse", "Powerhouse", "Complete 100 daily tasks", "🏆", 100),

		// Streak milestones
		c.streakAchievement("warming_up", "Warming Up", "3-day streak", "🔥", 3),
		c.streakAchievement("committed", "Committed", "7-day streak", "🔥", 7),
		c.streakAchievement("unstoppable", "Unstoppable", "30-day streak", "🌋", 30),

		// XP milestones
		c.xpAchievement("scholar", "Scholar", "Earn 1,000 XP", "📚", 1000),
		c.xpAchievement("sage", "Sage", "Earn 10,000 XP", "🦉", 10000),

		// Rating bands
		c.ratingAchievement("skilled_mind", "Skilled Mind", "Reach the Skilled band", "🧠", "Skilled"),
		c.ratingAchievement("expert_mind", "Expert Mind", "Reach the Expert band", "💫", "Expert"),

		// Grace period
		{
			ID: "close_call", Name: "Close Call", Icon: "🛟",
			Description: "Save a streak with a grace period",
			Earned:      c.stats.GraceUsed,
		},
	}
}

// CountEarned returns how many achievements have been earned.
func (c *AchievementChecker) CountEarned() int {
	count := 0
	for _, a := range c.GetAchievements() {
		if a.Earned {
			count++
		}
	}
	return count
}

func (c *AchievementChecker) taskCountAchievement(id, name, desc, icon string, count int) Achievement {
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: c.stats.TasksCompleted >= count}
}

func (c *AchievementChecker) streakAchievement(id, name, desc, icon string, days int) Achievement {
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: c.stats.LongestStreak >= days}
}

func (c *AchievementChecker) xpAchievement(id, name, desc, icon string, xp int) Achievement {
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: c.stats.TotalXP >= xp}
}

func (c *AchievementChecker) ratingAchievement(id, name, desc, icon, band string) Achievement {
	earned := false
	for _, b := range c.cfg.Bands {
		if b.Name == band && c.rating.Value >= b.Min {
			earned = true
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

// Achievements is a convenience accessor on the engine.
func (e *Engine) Achievements() []Achievement {
	return NewAchievementChecker(e.Stats(), e.Rating(), e.ratingCfg).GetAchievements()
}
