package gamification

import "taskboss/model"

type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	earned      func(*model.UserStats) bool
}

// Catalog is evaluated in order; unlock order follows it.
var Catalog = []Achievement{
	{ID: "first_task", Title: "First Step", Description: "Complete your first task",
		earned: func(s *model.UserStats) bool { return s.TasksCompleted >= 1 }},
	{ID: "tasks_10", Title: "Getting Things Done", Description: "Complete 10 tasks",
		earned: func(s *model.UserStats) bool { return s.TasksCompleted >= 10 }},
	{ID: "tasks_50", Title: "Task Master", Description: "Complete 50 tasks",
		earned: func(s *model.UserStats) bool { return s.TasksCompleted >= 50 }},
	{ID: "tasks_100", Title: "Centurion", Description: "Complete 100 tasks",
		earned: func(s *model.UserStats) bool { return s.TasksCompleted >= 100 }},
	{ID: "streak_3", Title: "On a Roll", Description: "Keep a 3 day streak",
		earned: func(s *model.UserStats) bool { return s.LongestStreak >= 3 }},
	{ID: "streak_7", Title: "Week Warrior", Description: "Keep a 7 day streak",
		earned: func(s *model.UserStats) bool { return s.LongestStreak >= 7 }},
	{ID: "streak_30", Title: "Unstoppable", Description: "Keep a 30 day streak",
		earned: func(s *model.UserStats) bool { return s.LongestStreak >= 30 }},
	{ID: "level_5", Title: "Rising Star", Description: "Reach level 5",
		earned: func(s *model.UserStats) bool { return s.CurrentLevel >= 5 }},
	{ID: "level_10", Title: "Boss Level", Description: "Reach level 10",
		earned: func(s *model.UserStats) bool { return s.CurrentLevel >= 10 }},
	{ID: "points_1000", Title: "Point Collector", Description: "Earn 1000 points",
		earned: func(s *model.UserStats) bool { return s.TotalPoints >= 1000 }},
	{ID: "time_saver", Title: "Time Saver", Description: "Complete 10 hours of estimated work",
		earned: func(s *model.UserStats) bool { return s.TotalTimeSaved >= 600 }},
}

// Unlock returns catalog ids earned by stats that are not yet recorded in
// stats.AchievementsUnlocked.
func Unlock(stats *model.UserStats) []string {
	have := make(map[string]struct{}, len(stats.AchievementsUnlocked))
	for _, id := range stats.AchievementsUnlocked {
		have[id] = struct{}{}
	}
	var out []string
	for _, a := range Catalog {
		if _, ok := have[a.ID]; ok {
			continue
		}
		if a.earned(stats) {
			out = append(out, a.ID)
		}
	}
	return out
}
