package dto

import (
	"encoding/json"
	"time"
)

var StatsFieldMap = FieldMap{
	"total_points":          "total_points",
	"totalPoints":           "total_points",
	"current_level":         "current_level",
	"currentLevel":          "current_level",
	"experience_points":     "experience_points",
	"experiencePoints":      "experience_points",
	"tasks_completed":       "tasks_completed",
	"tasksCompleted":        "tasks_completed",
	"current_streak":        "current_streak",
	"currentStreak":         "current_streak",
	"longest_streak":        "longest_streak",
	"longestStreak":         "longest_streak",
	"total_time_saved":      "total_time_saved",
	"totalTimeSaved":        "total_time_saved",
	"achievements_unlocked": "achievements_unlocked",
	"achievementsUnlocked":  "achievements_unlocked",
	"daily_goal_streak":     "daily_goal_streak",
	"dailyGoalStreak":       "daily_goal_streak",
	"preferred_categories":  "preferred_categories",
	"preferredCategories":   "preferred_categories",
	"last_activity":         "last_activity",
	"lastActivity":          "last_activity",
}

// StatsInput is a partial stats update. current_level is accepted but
// always recomputed from experience points.
type StatsInput struct {
	TotalPoints          *int       `json:"total_points" binding:"omitempty,min=0"`
	CurrentLevel         *int       `json:"current_level" binding:"omitempty,min=1"`
	ExperiencePoints     *int       `json:"experience_points" binding:"omitempty,min=0"`
	TasksCompleted       *int       `json:"tasks_completed" binding:"omitempty,min=0"`
	CurrentStreak        *int       `json:"current_streak" binding:"omitempty,min=0"`
	LongestStreak        *int       `json:"longest_streak" binding:"omitempty,min=0"`
	TotalTimeSaved       *int       `json:"total_time_saved" binding:"omitempty,min=0"`
	AchievementsUnlocked []string   `json:"achievements_unlocked"`
	DailyGoalStreak      *int       `json:"daily_goal_streak" binding:"omitempty,min=0"`
	PreferredCategories  []string   `json:"preferred_categories"`
	LastActivity         *time.Time `json:"last_activity"`

	Present Fields `json:"-"`
}

func DecodeStatsInput(raw map[string]json.RawMessage) (*StatsInput, error) {
	in := &StatsInput{}
	present, err := decodeFields(raw, StatsFieldMap, in)
	if err != nil {
		return nil, err
	}
	in.Present = present
	return in, nil
}
