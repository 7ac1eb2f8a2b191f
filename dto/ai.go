package dto

import "encoding/json"

type InvokeRequest struct {
	Prompt             string          `json:"prompt" binding:"required"`
	ResponseJSONSchema json.RawMessage `json:"response_json_schema"`
	Model              string          `json:"model"`
}

// HasSchema reports whether a non-null schema was supplied.
func (r InvokeRequest) HasSchema() bool {
	s := string(r.ResponseJSONSchema)
	return s != "" && s != "null"
}

type InvokeResponse struct {
	Response string `json:"response"`
	Model    string `json:"model"`
}

type ChatTurn struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

type ChatRequest struct {
	Message string     `json:"message" binding:"required,max=4000"`
	History []ChatTurn `json:"history" binding:"omitempty,max=50,dive"`
	Model   string     `json:"model"`
}

type ChatResponse struct {
	Response string `json:"response"`
	Model    string `json:"model"`
}

type QuoteRequest struct {
	Topic string `json:"topic" binding:"omitempty,max=100"`
	Model string `json:"model"`
}

// TaskAdviceRequest names a stored task by TaskID or describes one inline.
type TaskAdviceRequest struct {
	TaskID        *int64 `json:"task_id"`
	Title         string `json:"title" binding:"omitempty,max=255"`
	Description   string `json:"description" binding:"omitempty,max=5000"`
	Priority      string `json:"priority" binding:"omitempty,priority"`
	Difficulty    int    `json:"difficulty" binding:"omitempty,min=1,max=10"`
	EstimatedTime int    `json:"estimated_time" binding:"omitempty,min=0"`
	Model         string `json:"model"`
}
