package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"taskboss/apierr"
	"taskboss/dto"
	"taskboss/llm"
	"taskboss/logger"
	"taskboss/model"
	"taskboss/prompts"
	"taskboss/repository"
	"taskboss/utils"
)

// Completer is the chat-completions client the AI service calls.
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, req llm.Request) (string, error)
}

type AIConfig struct {
	DefaultModel  string
	FallbackModel string
}

// RawOutputError carries model output that could not be decoded as JSON.
type RawOutputError struct {
	Raw string
	Err error
}

func (e *RawOutputError) Error() string {
	return "model returned invalid JSON: " + e.Err.Error()
}

func (e *RawOutputError) Unwrap() error { return e.Err }

const maxOpenTasksInChat = 10

type AIService struct {
	client  Completer
	prompts *prompts.Registry
	prefs   *repository.PreferencesRepo
	tasks   *repository.TaskRepo
	stats   *repository.StatsRepo
	cfg     AIConfig
	log     *logger.Logger
}

func NewAIService(client Completer, registry *prompts.Registry, db repository.DBTX, cfg AIConfig, log *logger.Logger) *AIService {
	return &AIService{
		client:  client,
		prompts: registry,
		prefs:   repository.NewPreferencesRepo(db),
		tasks:   repository.NewTaskRepo(db),
		stats:   repository.NewStatsRepo(db),
		cfg:     cfg,
		log:     log,
	}
}

// aiResult is one successful model call.
type aiResult struct {
	Text   string
	Parsed any
	Model  string
	JSON   bool
}

// payload is the decoded reply for JSON prompts and the wrapped text otherwise.
func (r *aiResult) payload() any {
	if r.JSON {
		return r.Parsed
	}
	return dto.InvokeResponse{Response: r.Text, Model: r.Model}
}

// Invoke forwards a free-form prompt. With a schema the reply is decoded
// and returned as JSON; otherwise the text is wrapped in InvokeResponse.
func (s *AIService) Invoke(ctx context.Context, userID int64, req dto.InvokeRequest) (any, error) {
	data := struct {
		Prompt string
		Schema string
	}{Prompt: req.Prompt}
	if req.HasSchema() {
		var compact bytes.Buffer
		if err := json.Compact(&compact, req.ResponseJSONSchema); err != nil {
			return nil, apierr.BadRequest("response_json_schema must be valid JSON")
		}
		data.Schema = compact.String()
	}

	res, err := s.run(ctx, userID, UseCaseInvoke, prompts.Invoke, req.Model, data, nil, req.HasSchema())
	if err != nil {
		return nil, err
	}
	return res.payload(), nil
}

func (s *AIService) Chat(ctx context.Context, userID int64, req dto.ChatRequest) (*dto.ChatResponse, error) {
	data := struct {
		Message   string
		Stats     *model.UserStats
		OpenTasks []*model.Task
	}{Message: req.Message}

	if st, err := s.stats.GetByUserID(ctx, userID); err == nil {
		data.Stats = st
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx, userID, model.TaskFilter{})
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.Status == model.StatusCompleted {
			continue
		}
		data.OpenTasks = append(data.OpenTasks, t)
		if len(data.OpenTasks) == maxOpenTasksInChat {
			break
		}
	}

	history := make([]llm.Message, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	res, err := s.run(ctx, userID, UseCaseChat, prompts.Chat, req.Model, data, history, false)
	if err != nil {
		return nil, err
	}
	return &dto.ChatResponse{Response: res.Text, Model: res.Model}, nil
}

func (s *AIService) Quote(ctx context.Context, userID int64, req dto.QuoteRequest) (any, error) {
	data := struct{ Topic string }{Topic: strings.TrimSpace(req.Topic)}
	res, err := s.run(ctx, userID, UseCaseQuote, prompts.Quote, req.Model, data, nil, false)
	if err != nil {
		return nil, err
	}
	return res.payload(), nil
}

// TaskAdvice breaks a stored task, or one described inline, into steps.
func (s *AIService) TaskAdvice(ctx context.Context, userID int64, req dto.TaskAdviceRequest) (any, error) {
	data := struct {
		Title         string
		Description   string
		Priority      string
		Difficulty    int
		EstimatedTime int
	}{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Priority:      req.Priority,
		Difficulty:    req.Difficulty,
		EstimatedTime: req.EstimatedTime,
	}
	if req.TaskID != nil {
		t, err := s.tasks.Get(ctx, userID, *req.TaskID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.NotFound("task not found")
		}
		if err != nil {
			return nil, err
		}
		data.Title = t.Title
		data.Description = t.Description
		data.Priority = string(t.Priority)
		data.Difficulty = t.Difficulty
		data.EstimatedTime = t.EstimatedTime
	}
	if data.Title == "" {
		return nil, apierr.BadRequest("task_id or title is required")
	}
	if data.Priority == "" {
		data.Priority = string(model.PriorityMedium)
	}
	if data.Difficulty == 0 {
		data.Difficulty = 1
	}

	res, err := s.run(ctx, userID, UseCaseTaskAdvice, prompts.TaskAdvice, req.Model, data, nil, false)
	if err != nil {
		return nil, err
	}
	return res.payload(), nil
}

// ResolveModel picks the requested model, then the user's preference for
// useCase, then the configured default.
func (s *AIService) ResolveModel(ctx context.Context, userID int64, useCase, requested string) string {
	if m := strings.TrimSpace(requested); m != "" {
		return m
	}
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("preferences lookup failed", "user_id", userID, "error", err)
	}
	if err == nil {
		if m := strings.TrimSpace(prefs.AIModels[useCase]); m != "" {
			return m
		}
	}
	return s.cfg.DefaultModel
}

// run renders the prompt, calls the model and retries once with the
// fallback model when the call fails or the JSON reply does not decode.
// A JSON reply is expected when the template says so or forceJSON is set.
func (s *AIService) run(ctx context.Context, userID int64, useCase string, name prompts.Name, requested string, data any, history []llm.Message, forceJSON bool) (*aiResult, error) {
	if s.client == nil || !s.client.Configured() {
		return nil, apierr.Unavailable("AI service is not configured")
	}

	tmpl, err := s.prompts.Get(name)
	if err != nil {
		return nil, err
	}
	wantJSON := tmpl.JSON || forceJSON
	system, user, err := tmpl.Render(data)
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	messages := make([]llm.Message, 0, len(history)+2)
	if system != "" {
		messages = append(messages, llm.Message{Role: "system", Content: system})
	}
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: user})

	primary := s.ResolveModel(ctx, userID, useCase, requested)
	models := []string{primary}
	if fb := s.cfg.FallbackModel; fb != "" && fb != primary {
		models = append(models, fb)
	}

	var lastErr error
	for i, m := range models {
		res, err := s.attempt(ctx, m, messages, wantJSON)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if i+1 < len(models) {
			s.log.Warn("llm call failed, retrying with fallback model",
				"use_case", useCase, "model", m, "fallback", models[i+1], "error", err)
		}
	}
	return nil, classifyLLMError(lastErr)
}

func (s *AIService) attempt(ctx context.Context, modelName string, messages []llm.Message, wantJSON bool) (*aiResult, error) {
	start := time.Now()
	text, err := s.client.Complete(ctx, llm.Request{Model: modelName, Messages: messages, JSON: wantJSON})
	status := "ok"
	defer func() {
		utils.ObserveLLMRequest(modelName, status, time.Since(start).Seconds())
	}()
	if err != nil {
		status = "error"
		utils.TrackError("llm", "request_failed")
		return nil, err
	}

	res := &aiResult{Text: text, Model: modelName, JSON: wantJSON}
	if !wantJSON {
		return res, nil
	}
	if err := json.Unmarshal([]byte(llm.SanitizeJSONText(text)), &res.Parsed); err != nil {
		status = "invalid_json"
		utils.TrackError("llm", "invalid_json")
		return nil, &RawOutputError{Raw: text, Err: err}
	}
	return res, nil
}

func classifyLLMError(err error) error {
	var rawErr *RawOutputError
	switch {
	case errors.As(err, &rawErr):
		return apierr.New(http.StatusInternalServerError, "invalid_model_output", rawErr)
	case errors.Is(err, llm.ErrNotConfigured):
		return apierr.Unavailable("AI service is not configured")
	case errors.Is(err, context.DeadlineExceeded):
		return apierr.New(http.StatusGatewayTimeout, "llm_timeout", err)
	default:
		return apierr.New(http.StatusInternalServerError, "llm_error", err)
	}
}
