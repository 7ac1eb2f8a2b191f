package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskboss/model"
	"taskboss/utils"
)

type GoalRepo struct {
	db DBTX
}

func NewGoalRepo(db DBTX) *GoalRepo {
	return &GoalRepo{db: db}
}

func (r *GoalRepo) WithTx(tx *sql.Tx) *GoalRepo {
	return &GoalRepo{db: tx}
}

// GoalUpdatable lists the columns a partial goal update may touch.
var GoalUpdatable = map[string]bool{
	"title":          true,
	"description":    true,
	"priority":       true,
	"category":       true,
	"difficulty":     true,
	"estimated_time": true,
	"due_date":       true,
	"tags":           true,
}

// goalSelect joins the linked task counts used for progress.
const goalSelect = `SELECT g.id, g.user_id, g.title, g.description, g.priority, g.category, g.difficulty,
	g.estimated_time, g.due_date, g.tags, g.created_at,
	(SELECT COUNT(1) FROM tasks t WHERE t.goal_id = g.id),
	(SELECT COUNT(1) FROM tasks t WHERE t.goal_id = g.id AND t.status = 'completed')
	FROM goals g`

func (r *GoalRepo) Create(ctx context.Context, g *model.Goal) error {
	timer := utils.TrackDBOperation("insert", "goals")
	defer timer.ObserveDuration()

	tags, err := encodeStrings(g.Tags)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO goals
		(user_id, title, description, priority, category, difficulty, estimated_time, due_date, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.UserID, g.Title, g.Description, string(g.Priority), g.Category, g.Difficulty,
		g.EstimatedTime, nullableString(g.DueDate), tags, FormatTime(g.CreatedAt))
	if err != nil {
		utils.TrackError("database", "goal_creation_failed")
		return fmt.Errorf("insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = id
	if g.Tags == nil {
		g.Tags = []string{}
	}
	return nil
}

func (r *GoalRepo) List(ctx context.Context, userID int64) ([]*model.Goal, error) {
	timer := utils.TrackDBOperation("find", "goals")
	defer timer.ObserveDuration()

	rows, err := r.db.QueryContext(ctx, goalSelect+` WHERE g.user_id = ? ORDER BY g.created_at DESC, g.id DESC`, userID)
	if err != nil {
		utils.TrackError("database", "goal_fetch_failed")
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	goals := []*model.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *GoalRepo) Get(ctx context.Context, userID, id int64) (*model.Goal, error) {
	timer := utils.TrackDBOperation("find", "goals")
	defer timer.ObserveDuration()

	g, err := scanGoal(r.db.QueryRowContext(ctx, goalSelect+` WHERE g.id = ? AND g.user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

// Exists reports whether goal id belongs to userID.
func (r *GoalRepo) Exists(ctx context.Context, userID, id int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM goals WHERE id = ? AND user_id = ?`, id, userID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Update applies patch; a "tags" entry must be a []string.
func (r *GoalRepo) Update(ctx context.Context, userID, id int64, patch Patch) error {
	timer := utils.TrackDBOperation("update", "goals")
	defer timer.ObserveDuration()

	if len(patch) == 0 {
		_, err := r.Get(ctx, userID, id)
		return err
	}
	if raw, ok := patch["tags"]; ok {
		tags, _ := raw.([]string)
		encoded, err := encodeStrings(tags)
		if err != nil {
			return err
		}
		patch["tags"] = encoded
	}
	set, args, err := buildUpdate(patch, GoalUpdatable)
	if err != nil {
		return err
	}
	args = append(args, id, userID)
	res, err := r.db.ExecContext(ctx, `UPDATE goals SET `+set+` WHERE id = ? AND user_id = ?`, args...)
	if err != nil {
		utils.TrackError("database", "goal_update_failed")
		return fmt.Errorf("update goal: %w", err)
	}
	return requireAffected(res)
}

func (r *GoalRepo) Delete(ctx context.Context, userID, id int64) error {
	timer := utils.TrackDBOperation("delete", "goals")
	defer timer.ObserveDuration()

	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		utils.TrackError("database", "goal_delete_failed")
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireAffected(res)
}

func scanGoal(row rowScanner) (*model.Goal, error) {
	var (
		g         model.Goal
		priority  string
		dueDate   sql.NullString
		tags      string
		createdAt string
	)
	if err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &priority, &g.Category, &g.Difficulty,
		&g.EstimatedTime, &dueDate, &tags, &createdAt, &g.TasksTotal, &g.TasksCompleted); err != nil {
		return nil, err
	}
	g.Priority = model.Priority(priority)
	g.DueDate = stringPtr(dueDate)

	var err error
	if g.Tags, err = decodeStrings(tags); err != nil {
		return nil, err
	}
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &g, nil
}
