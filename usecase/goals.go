package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskboss/apierr"
	"taskboss/dto"
	"taskboss/model"
	"taskboss/repository"
)

type GoalService struct {
	goals *repository.GoalRepo
	now   func() time.Time
}

func NewGoalService(goals *repository.GoalRepo) *GoalService {
	return &GoalService{goals: goals, now: time.Now}
}

func (s *GoalService) List(ctx context.Context, userID int64) ([]*model.Goal, error) {
	return s.goals.List(ctx, userID)
}

func (s *GoalService) Get(ctx context.Context, userID, id int64) (*model.Goal, error) {
	g, err := s.goals.Get(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierr.NotFound("goal not found")
	}
	return g, err
}

func (s *GoalService) Create(ctx context.Context, userID int64, in *dto.GoalInput) (*model.Goal, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, apierr.BadRequest("title is required")
	}

	goal := &model.Goal{
		UserID:     userID,
		Title:      strings.TrimSpace(*in.Title),
		Priority:   model.PriorityMedium,
		Category:   model.DefaultGoalCategory,
		Difficulty: 1,
		Tags:       goalTags(in.Tags),
		CreatedAt:  s.now().UTC(),
	}
	if in.Description != nil {
		goal.Description = *in.Description
	}
	if in.Priority != nil {
		goal.Priority = *in.Priority
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		goal.Category = strings.TrimSpace(*in.Category)
	}
	if in.Difficulty != nil {
		goal.Difficulty = *in.Difficulty
	}
	if in.EstimatedTime != nil {
		goal.EstimatedTime = *in.EstimatedTime
	}
	if d, ok := dueDateValue(in.DueDate).(string); ok {
		goal.DueDate = &d
	}

	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Update(ctx context.Context, userID, id int64, in *dto.GoalInput) (*model.Goal, error) {
	patch := repository.Patch{}
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
	if in.Priority != nil {
		patch["priority"] = string(*in.Priority)
	}
	if in.Present.Has("category") {
		category := model.DefaultGoalCategory
		if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
			category = strings.TrimSpace(*in.Category)
		}
		patch["category"] = category
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
	if in.Present.Has("tags") {
		patch["tags"] = goalTags(in.Tags)
	}

	if err := s.goals.Update(ctx, userID, id, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.NotFound("goal not found")
		}
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

func (s *GoalService) Delete(ctx context.Context, userID, id int64) error {
	err := s.goals.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apierr.NotFound("goal not found")
	}
	return err
}

// goalTags keeps tags exactly as sent; null becomes an empty list.
func goalTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
