package model

import "time"

const DefaultGoalCategory = "personal"

type Goal struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Priority       Priority  `json:"priority"`
	Category       string    `json:"category"`
	Difficulty     int       `json:"difficulty"`
	EstimatedTime  int       `json:"estimated_time"`
	DueDate        *string   `json:"due_date"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"created_at"`
	TasksTotal     int       `json:"tasks_total"`
	TasksCompleted int       `json:"tasks_completed"`
}

// Progress is the completed share of linked tasks as a whole percentage.
func (g *Goal) Progress() int {
	if g.TasksTotal == 0 {
		return 0
	}
	return g.TasksCompleted * 100 / g.TasksTotal
}
