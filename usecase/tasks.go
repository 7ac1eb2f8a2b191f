package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboss/apierr"
	"taskboss/dto"
	"taskboss/gamification"
	"taskboss/logger"
	"taskboss/model"
	"taskboss/repository"
	"taskboss/utils"
)

type TaskService struct {
	db    *sql.DB
	tasks *repository.TaskRepo
	goals *repository.GoalRepo
	stats *repository.StatsRepo
	log   *logger.Logger
	now   func() time.Time
}

func NewTaskService(db *sql.DB, log *logger.Logger) *TaskService {
	return &TaskService{
		db:    db,
		tasks: repository.NewTaskRepo(db),
		goals: repository.NewGoalRepo(db),
		stats: repository.NewStatsRepo(db),
		log:   log,
		now:   time.Now,
	}
}

// completion is the award computed while a task enters completed.
type completion struct {
	points   int
	unlocked []string
}

func (s *TaskService) List(ctx context.Context, userID int64, filter model.TaskFilter) ([]*model.Task, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apierr.BadRequest("invalid status filter")
	}
	return s.tasks.List(ctx, userID, filter)
}

func (s *TaskService) Get(ctx context.Context, userID, id int64) (*model.Task, error) {
	t, err := s.tasks.Get(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierr.NotFound("task not found")
	}
	return t, err
}

func (s *TaskService) Create(ctx context.Context, userID int64, in *dto.TaskInput) (*model.Task, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, apierr.BadRequest("title is required")
	}

	task := &model.Task{
		UserID:     userID,
		Title:      strings.TrimSpace(*in.Title),
		Status:     model.StatusPending,
		Priority:   model.PriorityMedium,
		Difficulty: 1,
		CreatedAt:  s.now().UTC(),
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.Difficulty != nil {
		task.Difficulty = *in.Difficulty
	}
	if in.EstimatedTime != nil {
		task.EstimatedTime = *in.EstimatedTime
	}
	if in.DueDate != nil && strings.TrimSpace(*in.DueDate) != "" {
		d := strings.TrimSpace(*in.DueDate)
		task.DueDate = &d
	}
	task.GoalID = in.GoalID

	var done *completion
	err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.checkGoal(ctx, tx, userID, task.GoalID); err != nil {
			return err
		}
		if task.Status == model.StatusCompleted {
			now := s.now().UTC()
			task.CompletedAt = &now
			task.PointsEarned = gamification.TaskPoints(task.Difficulty, task.EstimatedTime)
		}
		if err := s.tasks.WithTx(tx).Create(ctx, task); err != nil {
			return err
		}
		if task.Status == model.StatusCompleted {
			unlocked, err := s.awardCompletion(ctx, tx, task, task.PointsEarned)
			if err != nil {
				return err
			}
			done = &completion{points: task.PointsEarned, unlocked: unlocked}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.reportCompletion(userID, task.ID, done)
	return task, nil
}

// Update applies a partial update. A transition into completed awards
// points and stats once per task, in the same transaction as the task
// write. Leaving completed clears completed_at and keeps the award.
func (s *TaskService) Update(ctx context.Context, userID, id int64, in *dto.TaskInput) (*model.Task, error) {
	var (
		updated *model.Task
		done    *completion
	)
	err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)
		current, err := tasks.Get(ctx, userID, id)
		if errors.Is(err, repository.ErrNotFound) {
			return apierr.NotFound("task not found")
		}
		if err != nil {
			return err
		}

		patch, err := s.taskPatch(ctx, tx, userID, in)
		if err != nil {
			return err
		}

		next := *current
		if in.Status != nil {
			next.Status = *in.Status
		}
		if in.Difficulty != nil {
			next.Difficulty = *in.Difficulty
		}
		if in.EstimatedTime != nil {
			next.EstimatedTime = *in.EstimatedTime
		}

		switch {
		case next.Status == model.StatusCompleted && current.Status != model.StatusCompleted:
			patch["completed_at"] = repository.FormatTime(s.now())
			if current.PointsEarned == 0 {
				points := gamification.TaskPoints(next.Difficulty, next.EstimatedTime)
				patch["points_earned"] = points
				unlocked, err := s.awardCompletion(ctx, tx, &next, points)
				if err != nil {
					return err
				}
				done = &completion{points: points, unlocked: unlocked}
			}
		case next.Status != model.StatusCompleted && current.Status == model.StatusCompleted:
			patch["completed_at"] = nil
		}

		if err := tasks.Update(ctx, userID, id, patch); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apierr.NotFound("task not found")
			}
			return err
		}
		updated, err = tasks.Get(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.reportCompletion(userID, id, done)
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	err := s.tasks.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apierr.NotFound("task not found")
	}
	return err
}

// taskPatch maps the fields present in the body to columns. Null values
// clear nullable columns and are ignored for the rest.
func (s *TaskService) taskPatch(ctx context.Context, tx *sql.Tx, userID int64, in *dto.TaskInput) (repository.Patch, error) {
	patch := repository.Patch{}
	if in.Present.Has("goal_id") {
		if err := s.checkGoal(ctx, tx, userID, in.GoalID); err != nil {
			return nil, err
		}
		if in.GoalID == nil {
			patch["goal_id"] = nil
		} else {
			patch["goal_id"] = *in.GoalID
		}
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apierr.BadRequest("title cannot be empty")
		}
		patch["title"] = title
	}
	if in.Present.Has("description") {
		desc := ""
		if in.Description != nil {
			desc = *in.Description
		}
		patch["description"] = desc
	}
	if in.Status != nil {
		patch["status"] = string(*in.Status)
	}
	if in.Priority != nil {
		patch["priority"] = string(*in.Priority)
	}
	if in.Difficulty != nil {
		patch["difficulty"] = *in.Difficulty
	}
	if in.EstimatedTime != nil {
		patch["estimated_time"] = *in.EstimatedTime
	}
	if in.Present.Has("due_date") {
		patch["due_date"] = dueDateValue(in.DueDate)
	}
	return patch, nil
}

func (s *TaskService) checkGoal(ctx context.Context, tx *sql.Tx, userID int64, goalID *int64) error {
	if goalID == nil {
		return nil
	}
	ok, err := s.goals.WithTx(tx).Exists(ctx, userID, *goalID)
	if err != nil {
		return err
	}
	if !ok {
		return apierr.BadRequest("goal_id does not reference one of your goals")
	}
	return nil
}

// awardCompletion folds the completed task into the owner's stats row,
// creating the row when it is missing.
func (s *TaskService) awardCompletion(ctx context.Context, tx *sql.Tx, task *model.Task, points int) ([]string, error) {
	stats := s.stats.WithTx(tx)
	row, err := stats.GetByUserID(ctx, task.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		row = model.NewUserStats(task.UserID)
		if err := stats.Create(ctx, row); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	unlocked := gamification.ApplyCompletion(row, task, points, s.now())
	if err := stats.Save(ctx, row); err != nil {
		return nil, fmt.Errorf("save stats: %w", err)
	}
	return unlocked, nil
}

func (s *TaskService) reportCompletion(userID, taskID int64, done *completion) {
	if done == nil {
		return
	}
	utils.TrackTaskCompletion(done.points)
	s.log.Info("task completed", "user_id", userID, "task_id", taskID, "points", done.points)
	if len(done.unlocked) > 0 {
		s.log.Info("achievements unlocked", "user_id", userID, "achievements", done.unlocked)
	}
}

func dueDateValue(d *string) any {
	if d == nil || strings.TrimSpace(*d) == "" {
		return nil
	}
	return strings.TrimSpace(*d)
}
