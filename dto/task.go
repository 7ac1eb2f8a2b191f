package dto

import (
	"encoding/json"

	"taskboss/model"
)

var TaskFieldMap = FieldMap{
	"goal_id":        "goal_id",
	"goalId":         "goal_id",
	"title":          "title",
	"description":    "description",
	"status":         "status",
	"priority":       "priority",
	"difficulty":     "difficulty",
	"estimated_time": "estimated_time",
	"estimatedTime":  "estimated_time",
	"due_date":       "due_date",
	"dueDate":        "due_date",
}

// TaskInput is the body of a task create or partial update. Nil fields
// were absent or null; Present tells the two apart.
type TaskInput struct {
	GoalID        *int64            `json:"goal_id" binding:"omitempty,min=1"`
	Title         *string           `json:"title" binding:"omitempty,max=255"`
	Description   *string           `json:"description" binding:"omitempty,max=5000"`
	Status        *model.TaskStatus `json:"status" binding:"omitempty,taskstatus"`
	Priority      *model.Priority   `json:"priority" binding:"omitempty,priority"`
	Difficulty    *int              `json:"difficulty" binding:"omitempty,min=1,max=10"`
	EstimatedTime *int              `json:"estimated_time" binding:"omitempty,min=0"`
	DueDate       *string           `json:"due_date" binding:"omitempty,duedate"`

	Present Fields `json:"-"`
}

func DecodeTaskInput(raw map[string]json.RawMessage) (*TaskInput, error) {
	in := &TaskInput{}
	present, err := decodeFields(raw, TaskFieldMap, in)
	if err != nil {
		return nil, err
	}
	in.Present = present
	return in, nil
}
