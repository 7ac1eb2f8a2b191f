package model

import "time"

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Password  string    `json:"-"` // bcrypt hash
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"created_at"`
}

// UserPreferences holds per-user settings. AIModels maps an AI use case
// ("chat", "quote", "task_advice", "invoke") to a model name.
type UserPreferences struct {
	ID       int64             `json:"id"`
	UserID   int64             `json:"user_id"`
	AIModels map[string]string `json:"ai_models"`
}
