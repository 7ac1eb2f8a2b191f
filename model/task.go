package model

import "time"

type Priority string
type TaskStatus string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"

	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusPaused     TaskStatus = "paused"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusPaused:
		return true
	}
	return false
}

type Task struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	GoalID        *int64     `json:"goal_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        TaskStatus `json:"status"`
	Priority      Priority   `json:"priority"`
	Difficulty    int        `json:"difficulty"`
	EstimatedTime int        `json:"estimated_time"`
	DueDate       *string    `json:"due_date"`
	CompletedAt   *time.Time `json:"completed_at"`
	PointsEarned  int        `json:"points_earned"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TaskFilter narrows a task listing. Zero values mean "any".
type TaskFilter struct {
	Status TaskStatus
	GoalID *int64
}
