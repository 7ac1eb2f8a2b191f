package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskboss/model"
	"taskboss/utils"
)

type StatsRepo struct {
	db DBTX
}

func NewStatsRepo(db DBTX) *StatsRepo {
	return &StatsRepo{db: db}
}

func (r *StatsRepo) WithTx(tx *sql.Tx) *StatsRepo {
	return &StatsRepo{db: tx}
}

const statsColumns = `id, user_id, total_points, current_level, experience_points, tasks_completed,
	current_streak, longest_streak, total_time_saved, achievements_unlocked, daily_goal_streak,
	preferred_categories, last_activity`

func (r *StatsRepo) Create(ctx context.Context, s *model.UserStats) error {
	timer := utils.TrackDBOperation("insert", "user_stats")
	defer timer.ObserveDuration()

	achievements, err := encodeStrings(s.AchievementsUnlocked)
	if err != nil {
		return err
	}
	categories, err := encodeStrings(s.PreferredCategories)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO user_stats
		(user_id, total_points, current_level, experience_points, tasks_completed, current_streak,
		 longest_streak, total_time_saved, achievements_unlocked, daily_goal_streak,
		 preferred_categories, last_activity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.UserID, s.TotalPoints, s.CurrentLevel, s.ExperiencePoints, s.TasksCompleted, s.CurrentStreak,
		s.LongestStreak, s.TotalTimeSaved, achievements, s.DailyGoalStreak, categories,
		nullableTime(s.LastActivity))
	if err != nil {
		utils.TrackError("database", "stats_creation_failed")
		return fmt.Errorf("insert user stats: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

func (r *StatsRepo) GetByUserID(ctx context.Context, userID int64) (*model.UserStats, error) {
	timer := utils.TrackDBOperation("find", "user_stats")
	defer timer.ObserveDuration()

	return scanStats(r.db.QueryRowContext(ctx, `SELECT `+statsColumns+` FROM user_stats WHERE user_id = ?`, userID))
}

// GetByID looks up a stats row by its own id, scoped to userID.
func (r *StatsRepo) GetByID(ctx context.Context, userID, id int64) (*model.UserStats, error) {
	timer := utils.TrackDBOperation("find", "user_stats")
	defer timer.ObserveDuration()

	return scanStats(r.db.QueryRowContext(ctx,
		`SELECT `+statsColumns+` FROM user_stats WHERE id = ? AND user_id = ?`, id, userID))
}

// Save overwrites every counter of the row identified by s.ID and s.UserID.
func (r *StatsRepo) Save(ctx context.Context, s *model.UserStats) error {
	timer := utils.TrackDBOperation("update", "user_stats")
	defer timer.ObserveDuration()

	achievements, err := encodeStrings(s.AchievementsUnlocked)
	if err != nil {
		return err
	}
	categories, err := encodeStrings(s.PreferredCategories)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE user_stats SET
		total_points = ?, current_level = ?, experience_points = ?, tasks_completed = ?,
		current_streak = ?, longest_streak = ?, total_time_saved = ?, achievements_unlocked = ?,
		daily_goal_streak = ?, preferred_categories = ?, last_activity = ?
		WHERE id = ? AND user_id = ?`,
		s.TotalPoints, s.CurrentLevel, s.ExperiencePoints, s.TasksCompleted, s.CurrentStreak,
		s.LongestStreak, s.TotalTimeSaved, achievements, s.DailyGoalStreak, categories,
		nullableTime(s.LastActivity), s.ID, s.UserID)
	if err != nil {
		utils.TrackError("database", "stats_update_failed")
		return fmt.Errorf("update user stats: %w", err)
	}
	return requireAffected(res)
}

func scanStats(row *sql.Row) (*model.UserStats, error) {
	var (
		s            model.UserStats
		achievements string
		categories   string
		lastActivity sql.NullString
	)
	err := row.Scan(&s.ID, &s.UserID, &s.TotalPoints, &s.CurrentLevel, &s.ExperiencePoints, &s.TasksCompleted,
		&s.CurrentStreak, &s.LongestStreak, &s.TotalTimeSaved, &achievements, &s.DailyGoalStreak,
		&categories, &lastActivity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.AchievementsUnlocked, err = decodeStrings(achievements); err != nil {
		return nil, err
	}
	if s.PreferredCategories, err = decodeStrings(categories); err != nil {
		return nil, err
	}
	if s.LastActivity, err = parseNullTime(lastActivity); err != nil {
		return nil, err
	}
	return &s, nil
}
