package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboss/handler"
	"taskboss/llm"
	"taskboss/logger"
	"taskboss/middleware"
	"taskboss/prompts"
	"taskboss/repository"
	"taskboss/services"
	"taskboss/usecase"
)

// scriptedCompleter answers every call with the reply registered for its model.
type scriptedCompleter struct {
	replies map[string]string
	off     bool
}

func (s *scriptedCompleter) Configured() bool { return !s.off }

func (s *scriptedCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	return s.replies[req.Model], nil
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T, ai *scriptedCompleter) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.Open(context.Background(), filepath.Join(t.TempDir(), "router_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logger.Nop()
	if ai == nil {
		ai = &scriptedCompleter{off: true}
	}
	registry, err := prompts.Default()
	require.NoError(t, err)

	users := repository.NewUserRepo(db)
	auth := usecase.NewAuthService(db, services.NewTokenService("router-secret", 24*time.Hour), services.NewMemoryTokenBlacklist(), log)
	aiService := usecase.NewAIService(ai, registry, db, usecase.AIConfig{DefaultModel: "primary", FallbackModel: "backup"}, log)

	router := NewRouter(RouterConfig{
		Log:            log,
		AuthMiddleware: middleware.NewAuthMiddleware(log, auth),
		AuthHandler:    handler.NewAuthHandler(log, auth),
		UserHandler:    handler.NewUserHandler(log, usecase.NewUserService(users, repository.NewPreferencesRepo(db))),
		TaskHandler:    handler.NewTaskHandler(log, usecase.NewTaskService(db, log)),
		GoalHandler:    handler.NewGoalHandler(log, usecase.NewGoalService(repository.NewGoalRepo(db))),
		StatsHandler:   handler.NewStatsHandler(log, usecase.NewStatsService(repository.NewStatsRepo(db))),
		LLMHandler:     handler.NewLLMHandler(log, aiService),
		HealthHandler:  handler.NewHealthHandler(log, users),
		MaxRequestSize: 1 << 20,
	})
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(email string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":     email,
		"password":  "secret1",
		"full_name": "Router Test",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	decode(s.t, w, &res)
	require.NotEmpty(s.t, res.Token)
	return res.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, nil)
	s.register("alice@example.com")

	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "alice@example.com", "password": "secret1", "full_name": "Again",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	tests := []struct {
		name     string
		body     gin.H
		expected int
	}{
		{"valid credentials", gin.H{"email": "alice@example.com", "password": "secret1"}, http.StatusOK},
		{"wrong password", gin.H{"email": "alice@example.com", "password": "nope123"}, http.StatusUnauthorized},
		{"unknown email", gin.H{"email": "bob@example.com", "password": "secret1"}, http.StatusUnauthorized},
		{"invalid email", gin.H{"email": "bob", "password": "secret1"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/auth/login", "", tt.body)
			assert.Equal(t, tt.expected, w.Code, w.Body.String())
		})
	}
}

func TestRegisterValidationErrorNamesField(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{"email": "a@example.com", "password": "123", "full_name": "A"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	decode(t, w, &body)
	assert.Contains(t, body.Error, "password")
	assert.Equal(t, "bad_request", body.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.register("carol@example.com")

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/tasks", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/tasks", "not-a-jwt", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/tasks", token, nil).Code)

	w := s.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/tasks", token, nil).Code, "revoked token")
}

func TestTaskCompletionAwardsPoints(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.register("dave@example.com")

	w := s.do(http.MethodPost, "/api/tasks", token, gin.H{
		"title": "Write report", "difficulty": 5, "estimatedTime": 30,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var task struct {
		ID           int64  `json:"id"`
		Status       string `json:"status"`
		PointsEarned int    `json:"points_earned"`
	}
	decode(t, w, &task)
	assert.Equal(t, "pending", task.Status)

	for i := 0; i < 2; i++ {
		w = s.do(http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), token, gin.H{"status": "completed"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		decode(t, w, &task)
		assert.Equal(t, 60, task.PointsEarned)
	}

	w = s.do(http.MethodGet, "/api/user-stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		TotalPoints    int `json:"total_points"`
		TasksCompleted int `json:"tasks_completed"`
		CurrentLevel   int `json:"current_level"`
	}
	decode(t, w, &stats)
	assert.Equal(t, 60, stats.TotalPoints, "points are awarded once")
	assert.Equal(t, 1, stats.TasksCompleted)
	assert.Equal(t, 1, stats.CurrentLevel)
}

func TestTaskValidation(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.register("erin@example.com")

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing title", gin.H{"difficulty": 3}},
		{"bad priority", gin.H{"title": "x", "priority": "someday"}},
		{"bad status", gin.H{"title": "x", "status": "done"}},
		{"difficulty out of range", gin.H{"title": "x", "difficulty": 11}},
		{"bad due date", gin.H{"title": "x", "due_date": "tomorrow"}},
		{"foreign goal", gin.H{"title": "x", "goal_id": 999}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/tasks", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/tasks/abc", token, nil).Code)
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	s := newTestServer(t, nil)
	owner := s.register("owner@example.com")
	other := s.register("other@example.com")

	w := s.do(http.MethodPost, "/api/tasks", owner, gin.H{"title": "private"})
	require.Equal(t, http.StatusCreated, w.Code)
	var task struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &task)
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, other, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, path, other, gin.H{"title": "mine"}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, path, other, nil).Code)

	w = s.do(http.MethodDelete, path, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "deleted successfully")
}

func TestGoalTagsAndProgress(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.register("frank@example.com")

	w := s.do(http.MethodPost, "/api/goals", token, gin.H{"title": "Ship v1", "tags": []string{"a", "b"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var goal struct {
		ID       int64    `json:"id"`
		Tags     []string `json:"tags"`
		Category string   `json:"category"`
		Progress int      `json:"progress"`
	}
	decode(t, w, &goal)
	assert.Equal(t, []string{"a", "b"}, goal.Tags)
	assert.Equal(t, "personal", goal.Category)

	for _, status := range []string{"completed", "pending"} {
		w = s.do(http.MethodPost, "/api/tasks", token, gin.H{"title": "step", "goal_id": goal.ID, "status": status})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = s.do(http.MethodGet, fmt.Sprintf("/api/goals/%d", goal.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &goal)
	assert.Equal(t, 50, goal.Progress)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/tasks?goal_id=%d", goal.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tasks []map[string]any
	decode(t, w, &tasks)
	assert.Len(t, tasks, 2)
}

func TestPreferences(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.register("gina@example.com")

	w := s.do(http.MethodPut, "/api/users/me/preferences", token, gin.H{"ai_models": gin.H{"chat": "gpt-4o"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/users/me/preferences", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var prefs struct {
		AIModels map[string]string `json:"ai_models"`
	}
	decode(t, w, &prefs)
	assert.Equal(t, "gpt-4o", prefs.AIModels["chat"])

	w = s.do(http.MethodPut, "/api/users/me/preferences", token, gin.H{"ai_models": gin.H{"poetry": "gpt-4o"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAIRoutes(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		s := newTestServer(t, nil)
		token := s.register("hank@example.com")
		w := s.do(http.MethodPost, "/api/llm/invoke", token, gin.H{"prompt": "hi"})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("schema decode failure echoes raw output", func(t *testing.T) {
		s := newTestServer(t, &scriptedCompleter{replies: map[string]string{"primary": "not json", "backup": "still not json"}})
		token := s.register("ivy@example.com")
		w := s.do(http.MethodPost, "/api/llm/invoke", token, gin.H{
			"prompt":               "give me json",
			"response_json_schema": gin.H{"type": "object"},
		})
		require.Equal(t, http.StatusInternalServerError, w.Code)
		var body struct {
			Code string `json:"code"`
			Raw  string `json:"raw"`
		}
		decode(t, w, &body)
		assert.Equal(t, "invalid_model_output", body.Code)
		assert.Equal(t, "still not json", body.Raw)
	})

	t.Run("plain text reply", func(t *testing.T) {
		s := newTestServer(t, &scriptedCompleter{replies: map[string]string{"primary": "hello there"}})
		token := s.register("jack@example.com")
		w := s.do(http.MethodPost, "/api/llm/invoke", token, gin.H{"prompt": "hi"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var body struct {
			Response string `json:"response"`
			Model    string `json:"model"`
		}
		decode(t, w, &body)
		assert.Equal(t, "hello there", body.Response)
		assert.Equal(t, "primary", body.Model)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status   string `json:"status"`
		Database bool   `json:"database"`
	}
	decode(t, w, &body)
	assert.Equal(t, "ok", body.Status)
	assert.True(t, body.Database)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
