package model

import "time"

type UserStats struct {
	ID                   int64      `json:"id"`
	UserID               int64      `json:"user_id"`
	TotalPoints          int        `json:"total_points"`
	CurrentLevel         int        `json:"current_level"`
	ExperiencePoints     int        `json:"experience_points"`
	TasksCompleted       int        `json:"tasks_completed"`
	CurrentStreak        int        `json:"current_streak"`
	LongestStreak        int        `json:"longest_streak"`
	TotalTimeSaved       int        `json:"total_time_saved"`
	AchievementsUnlocked []string   `json:"achievements_unlocked"`
	DailyGoalStreak      int        `json:"daily_goal_streak"`
	PreferredCategories  []string   `json:"preferred_categories"`
	LastActivity         *time.Time `json:"last_activity"`
}

// NewUserStats returns the zeroed row created at registration.
func NewUserStats(userID int64) *UserStats {
	return &UserStats{
		UserID:               userID,
		CurrentLevel:         1,
		AchievementsUnlocked: []string{},
		PreferredCategories:  []string{},
	}
}
