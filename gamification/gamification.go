// Package gamification holds the point, level, streak and achievement rules.
// Every code path that awards progress goes through this package.
package gamification

import (
	"time"

	"taskboss/model"
)

const (
	PointsPerDifficulty = 10
	MinutesPerTimeBonus = 15
	PointsPerTimeBonus  = 5
	XPPerLevel          = 1000
)

// TaskPoints is difficulty×10 + floor(estimatedMinutes/15)×5.
func TaskPoints(difficulty, estimatedMinutes int) int {
	if difficulty < 0 {
		difficulty = 0
	}
	if estimatedMinutes < 0 {
		estimatedMinutes = 0
	}
	return difficulty*PointsPerDifficulty + (estimatedMinutes/MinutesPerTimeBonus)*PointsPerTimeBonus
}

// LevelForXP is floor(xp/1000)+1. Negative XP stays at level 1.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/XPPerLevel + 1
}

// NextStreak returns the streak after activity at now. Activity on the same
// UTC day leaves it unchanged, activity on the following day extends it, and
// any longer gap restarts it at 1.
func NextStreak(current, longest int, lastActivity *time.Time, now time.Time) (int, int) {
	switch {
	case lastActivity == nil:
		current = 1
	default:
		gap := daysBetween(*lastActivity, now)
		switch {
		case gap <= 0:
			if current < 1 {
				current = 1
			}
		case gap == 1:
			current++
		default:
			current = 1
		}
	}
	if current > longest {
		longest = current
	}
	return current, longest
}

func daysBetween(from, to time.Time) int {
	f := truncateDay(from)
	t := truncateDay(to)
	return int(t.Sub(f).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ApplyCompletion folds one completed task into stats and returns the ids of
// achievements unlocked by it.
func ApplyCompletion(stats *model.UserStats, task *model.Task, points int, now time.Time) []string {
	stats.TotalPoints += points
	stats.ExperiencePoints += points
	stats.CurrentLevel = LevelForXP(stats.ExperiencePoints)
	stats.TasksCompleted++
	if task.EstimatedTime > 0 {
		stats.TotalTimeSaved += task.EstimatedTime
	}
	stats.CurrentStreak, stats.LongestStreak = NextStreak(stats.CurrentStreak, stats.LongestStreak, stats.LastActivity, now)
	at := now.UTC()
	stats.LastActivity = &at

	unlocked := Unlock(stats)
	stats.AchievementsUnlocked = append(stats.AchievementsUnlocked, unlocked...)
	return unlocked
}
