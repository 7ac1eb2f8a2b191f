package dto

import (
	"encoding/json"

	"taskboss/model"
)

var GoalFieldMap = FieldMap{
	"title":          "title",
	"description":    "description",
	"priority":       "priority",
	"category":       "category",
	"difficulty":     "difficulty",
	"estimated_time": "estimated_time",
	"estimatedTime":  "estimated_time",
	"due_date":       "due_date",
	"dueDate":        "due_date",
	"tags":           "tags",
}

type GoalInput struct {
	Title         *string         `json:"title" binding:"omitempty,max=255"`
	Description   *string         `json:"description" binding:"omitempty,max=5000"`
	Priority      *model.Priority `json:"priority" binding:"omitempty,priority"`
	Category      *string         `json:"category" binding:"omitempty,max=64"`
	Difficulty    *int            `json:"difficulty" binding:"omitempty,min=1,max=10"`
	EstimatedTime *int            `json:"estimated_time" binding:"omitempty,min=0"`
	DueDate       *string         `json:"due_date" binding:"omitempty,duedate"`
	Tags          []string        `json:"tags" binding:"omitempty,max=20,dive,max=50"`

	Present Fields `json:"-"`
}

func DecodeGoalInput(raw map[string]json.RawMessage) (*GoalInput, error) {
	in := &GoalInput{}
	present, err := decodeFields(raw, GoalFieldMap, in)
	if err != nil {
		return nil, err
	}
	in.Present = present
	return in, nil
}

// GoalResponse adds the derived completion percentage to a goal.
type GoalResponse struct {
	*model.Goal
	Progress int `json:"progress"`
}

func ToGoalResponse(g *model.Goal) GoalResponse {
	return GoalResponse{Goal: g, Progress: g.Progress()}
}

func ToGoalResponses(goals []*model.Goal) []GoalResponse {
	out := make([]GoalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, ToGoalResponse(g))
	}
	return out
}
