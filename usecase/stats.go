package usecase

import (
	"context"
	"errors"
	"strings"

	"taskboss/apierr"
	"taskboss/dto"
	"taskboss/gamification"
	"taskboss/model"
	"taskboss/repository"
)

type StatsService struct {
	stats *repository.StatsRepo
}

func NewStatsService(stats *repository.StatsRepo) *StatsService {
	return &StatsService{stats: stats}
}

// Get returns the caller's stats, creating a zeroed row when missing.
func (s *StatsService) Get(ctx context.Context, userID int64) (*model.UserStats, error) {
	st, err := s.stats.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		st = model.NewUserStats(userID)
		if err := s.stats.Create(ctx, st); err != nil {
			return nil, err
		}
		return st, nil
	}
	return st, err
}

func (s *StatsService) GetByID(ctx context.Context, userID, id int64) (*model.UserStats, error) {
	st, err := s.stats.GetByID(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierr.NotFound("stats not found")
	}
	return st, err
}

// Update applies a partial update to the caller's stats row, or to row id
// when given. The level always follows experience points and the longest
// streak never trails the current one.
func (s *StatsService) Update(ctx context.Context, userID int64, id *int64, in *dto.StatsInput) (*model.UserStats, error) {
	var (
		st  *model.UserStats
		err error
	)
	if id != nil {
		st, err = s.GetByID(ctx, userID, *id)
	} else {
		st, err = s.Get(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	setInt(&st.TotalPoints, in.TotalPoints)
	setInt(&st.ExperiencePoints, in.ExperiencePoints)
	setInt(&st.TasksCompleted, in.TasksCompleted)
	setInt(&st.CurrentStreak, in.CurrentStreak)
	setInt(&st.LongestStreak, in.LongestStreak)
	setInt(&st.TotalTimeSaved, in.TotalTimeSaved)
	setInt(&st.DailyGoalStreak, in.DailyGoalStreak)
	if in.Present.Has("achievements_unlocked") {
		st.AchievementsUnlocked = uniqueStrings(in.AchievementsUnlocked)
	}
	if in.Present.Has("preferred_categories") {
		st.PreferredCategories = uniqueStrings(in.PreferredCategories)
	}
	if in.Present.Has("last_activity") {
		st.LastActivity = in.LastActivity
	}

	st.CurrentLevel = gamification.LevelForXP(st.ExperiencePoints)
	if st.LongestStreak < st.CurrentStreak {
		st.LongestStreak = st.CurrentStreak
	}

	if err := s.stats.Save(ctx, st); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.NotFound("stats not found")
		}
		return nil, err
	}
	return st, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// uniqueStrings trims values and drops blanks and repeats, keeping first-seen order.
func uniqueStrings(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
