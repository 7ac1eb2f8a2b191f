package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskboss/model"
	"taskboss/utils"
)

type TaskRepo struct {
	db DBTX
}

func NewTaskRepo(db DBTX) *TaskRepo {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) WithTx(tx *sql.Tx) *TaskRepo {
	return &TaskRepo{db: tx}
}

const taskColumns = `id, user_id, goal_id, title, description, status, priority, difficulty,
	estimated_time, due_date, completed_at, points_earned, created_at`

// TaskUpdatable lists the columns a partial task update may touch.
var TaskUpdatable = map[string]bool{
	"goal_id":        true,
	"title":          true,
	"description":    true,
	"status":         true,
	"priority":       true,
	"difficulty":     true,
	"estimated_time": true,
	"due_date":       true,
	"completed_at":   true,
	"points_earned":  true,
}

func (r *TaskRepo) Create(ctx context.Context, t *model.Task) error {
	timer := utils.TrackDBOperation("insert", "tasks")
	defer timer.ObserveDuration()

	res, err := r.db.ExecContext(ctx, `INSERT INTO tasks
		(user_id, goal_id, title, description, status, priority, difficulty, estimated_time,
		 due_date, completed_at, points_earned, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.GoalID, t.Title, t.Description, string(t.Status), string(t.Priority),
		t.Difficulty, t.EstimatedTime, nullableString(t.DueDate), nullableTime(t.CompletedAt),
		t.PointsEarned, FormatTime(t.CreatedAt))
	if err != nil {
		utils.TrackError("database", "task_creation_failed")
		return fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// List returns the user's tasks, newest first.
func (r *TaskRepo) List(ctx context.Context, userID int64, filter model.TaskFilter) ([]*model.Task, error) {
	timer := utils.TrackDBOperation("find", "tasks")
	defer timer.ObserveDuration()

	where := []string{"user_id = ?"}
	args := []any{userID}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.GoalID != nil {
		where = append(where, "goal_id = ?")
		args = append(args, *filter.GoalID)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE `+strings.Join(where, " AND ")+` ORDER BY created_at DESC, id DESC`,
		args...)
	if err != nil {
		utils.TrackError("database", "task_fetch_failed")
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepo) Get(ctx context.Context, userID, id int64) (*model.Task, error) {
	timer := utils.TrackDBOperation("find", "tasks")
	defer timer.ObserveDuration()

	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// Update applies patch to the task owned by userID. ErrNotFound when no row matches.
func (r *TaskRepo) Update(ctx context.Context, userID, id int64, patch Patch) error {
	timer := utils.TrackDBOperation("update", "tasks")
	defer timer.ObserveDuration()

	if len(patch) == 0 {
		_, err := r.Get(ctx, userID, id)
		return err
	}
	set, args, err := buildUpdate(patch, TaskUpdatable)
	if err != nil {
		return err
	}
	args = append(args, id, userID)
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET `+set+` WHERE id = ? AND user_id = ?`, args...)
	if err != nil {
		utils.TrackError("database", "task_update_failed")
		return fmt.Errorf("update task: %w", err)
	}
	return requireAffected(res)
}

func (r *TaskRepo) Delete(ctx context.Context, userID, id int64) error {
	timer := utils.TrackDBOperation("delete", "tasks")
	defer timer.ObserveDuration()

	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		utils.TrackError("database", "task_delete_failed")
		return fmt.Errorf("delete task: %w", err)
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.Task, error) {
	var (
		t           model.Task
		goalID      sql.NullInt64
		status      string
		priority    string
		dueDate     sql.NullString
		completedAt sql.NullString
		createdAt   string
	)
	if err := row.Scan(&t.ID, &t.UserID, &goalID, &t.Title, &t.Description, &status, &priority,
		&t.Difficulty, &t.EstimatedTime, &dueDate, &completedAt, &t.PointsEarned, &createdAt); err != nil {
		return nil, err
	}
	if goalID.Valid {
		g := goalID.Int64
		t.GoalID = &g
	}
	t.Status = model.TaskStatus(status)
	t.Priority = model.Priority(priority)
	t.DueDate = stringPtr(dueDate)

	var err error
	if t.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}
