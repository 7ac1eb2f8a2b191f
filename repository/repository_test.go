package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboss/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "taskboss_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createUser(t *testing.T, db *sql.DB, email string) *model.User {
	t.Helper()
	u := &model.User{Email: email, FullName: "Test User", Password: "hash", CreatedAt: time.Now()}
	require.NoError(t, NewUserRepo(db).Create(context.Background(), u))
	return u
}

func TestUserRepo(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepo(db)

	u := createUser(t, db, "alice@example.com")
	assert.NotZero(t, u.ID)

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, &model.User{Email: "alice@example.com", Password: "x", CreatedAt: time.Now()})
		assert.ErrorIs(t, err, ErrEmailTaken)

		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM users WHERE email = ?`, "alice@example.com").Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("find and update", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)

		require.NoError(t, repo.Update(ctx, u.ID, Patch{"full_name": "Alice B", "picture": "https://img/a.png"}))
		found, err = repo.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice B", found.FullName)
		assert.Equal(t, "https://img/a.png", found.Picture)

		_, err = repo.FindByID(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("password column is not updatable", func(t *testing.T) {
		err := repo.Update(ctx, u.ID, Patch{"password": "nope"})
		assert.Error(t, err)
	})
}

func TestGoalTagsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createUser(t, db, "tags@example.com")
	repo := NewGoalRepo(db)

	g := &model.Goal{
		UserID:     u.ID,
		Title:      "Run a marathon",
		Priority:   model.PriorityHigh,
		Category:   "health",
		Difficulty: 8,
		Tags:       []string{"a", "b"},
		CreatedAt:  time.Now(),
	}
	require.NoError(t, repo.Create(ctx, g))

	got, err := repo.Get(ctx, u.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Tags)

	require.NoError(t, repo.Update(ctx, u.ID, g.ID, Patch{"tags": []string{"z", "y", "x"}}))
	got, err = repo.Get(ctx, u.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "y", "x"}, got.Tags)

	empty := &model.Goal{UserID: u.ID, Title: "No tags", Priority: model.PriorityLow, Category: "work", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, empty))
	got, err = repo.Get(ctx, u.ID, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Tags)
}

func TestCrossUserAccess(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")

	tasks := NewTaskRepo(db)
	goals := NewGoalRepo(db)

	task := &model.Task{UserID: owner.ID, Title: "Mine", Status: model.StatusPending, Priority: model.PriorityMedium, Difficulty: 1, CreatedAt: time.Now()}
	require.NoError(t, tasks.Create(ctx, task))
	goal := &model.Goal{UserID: owner.ID, Title: "Mine", Priority: model.PriorityMedium, Category: "work", CreatedAt: time.Now()}
	require.NoError(t, goals.Create(ctx, goal))

	assert.ErrorIs(t, tasks.Update(ctx, other.ID, task.ID, Patch{"title": "stolen"}), ErrNotFound)
	assert.ErrorIs(t, tasks.Delete(ctx, other.ID, task.ID), ErrNotFound)
	_, err := tasks.Get(ctx, other.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, goals.Update(ctx, other.ID, goal.ID, Patch{"title": "stolen"}), ErrNotFound)
	assert.ErrorIs(t, goals.Delete(ctx, other.ID, goal.ID), ErrNotFound)

	ok, err := goals.Exists(ctx, other.ID, goal.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := tasks.Get(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
}

func TestTaskListFiltersAndGoalProgress(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createUser(t, db, "progress@example.com")
	tasks := NewTaskRepo(db)
	goals := NewGoalRepo(db)

	goal := &model.Goal{UserID: u.ID, Title: "Ship", Priority: model.PriorityUrgent, Category: "work", CreatedAt: time.Now()}
	require.NoError(t, goals.Create(ctx, goal))

	base := time.Now()
	for i, status := range []model.TaskStatus{model.StatusCompleted, model.StatusPending, model.StatusCompleted, model.StatusPaused} {
		task := &model.Task{
			UserID:    u.ID,
			GoalID:    &goal.ID,
			Title:     "step",
			Status:    status,
			Priority:  model.PriorityMedium,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, tasks.Create(ctx, task))
	}
	loose := &model.Task{UserID: u.ID, Title: "loose", Status: model.StatusPending, Priority: model.PriorityLow, CreatedAt: base.Add(time.Hour)}
	require.NoError(t, tasks.Create(ctx, loose))

	all, err := tasks.List(ctx, u.ID, model.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, loose.ID, all[0].ID, "newest first")

	completed, err := tasks.List(ctx, u.ID, model.TaskFilter{Status: model.StatusCompleted})
	require.NoError(t, err)
	assert.Len(t, completed, 2)

	linked, err := tasks.List(ctx, u.ID, model.TaskFilter{GoalID: &goal.ID})
	require.NoError(t, err)
	assert.Len(t, linked, 4)

	got, err := goals.Get(ctx, u.ID, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TasksTotal)
	assert.Equal(t, 2, got.TasksCompleted)
	assert.Equal(t, 50, got.Progress())

	// Deleting the goal detaches its tasks instead of removing them.
	require.NoError(t, goals.Delete(ctx, u.ID, goal.ID))
	all, err = tasks.List(ctx, u.ID, model.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	for _, task := range all {
		assert.Nil(t, task.GoalID)
	}
}

func TestStatsAndPreferences(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createUser(t, db, "stats@example.com")

	stats := NewStatsRepo(db)
	s := model.NewUserStats(u.ID)
	require.NoError(t, stats.Create(ctx, s))

	got, err := stats.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentLevel)
	assert.Equal(t, []string{}, got.AchievementsUnlocked)
	assert.Nil(t, got.LastActivity)

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	got.TotalPoints = 150
	got.AchievementsUnlocked = []string{"first_task", "streak_3"}
	got.PreferredCategories = []string{"work"}
	got.LastActivity = &now
	require.NoError(t, stats.Save(ctx, got))

	again, err := stats.GetByID(ctx, u.ID, got.ID)
	require.NoError(t, err)
	assert.Equal(t, 150, again.TotalPoints)
	assert.Equal(t, []string{"first_task", "streak_3"}, again.AchievementsUnlocked)
	assert.Equal(t, []string{"work"}, again.PreferredCategories)
	require.NotNil(t, again.LastActivity)
	assert.True(t, again.LastActivity.Equal(now))

	_, err = stats.GetByID(ctx, u.ID+1, got.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	prefs := NewPreferencesRepo(db)
	_, err = prefs.Get(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := prefs.Upsert(ctx, u.ID, map[string]string{"chat": "gpt-4o-mini"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.AIModels["chat"])

	p, err = prefs.Upsert(ctx, u.ID, map[string]string{"quote": "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"quote": "gpt-4o"}, p.AIModels)
}

func TestWithTxRollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		u := &model.User{Email: "rollback@example.com", Password: "x", CreatedAt: time.Now()}
		if err := NewUserRepo(db).WithTx(tx).Create(ctx, u); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	exists, err := NewUserRepo(db).EmailExists(ctx, "rollback@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMigrateAddsTaskDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	legacy, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = legacy.Exec(`CREATE TABLE tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		goal_id INTEGER,
		title TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		priority TEXT NOT NULL DEFAULT 'medium',
		difficulty INTEGER NOT NULL DEFAULT 1,
		estimated_time INTEGER NOT NULL DEFAULT 0,
		due_date TEXT,
		completed_at TEXT,
		points_earned INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`)
	require.NoError(t, err)
	_, err = legacy.Exec(`INSERT INTO tasks (user_id, title, created_at) VALUES (1, 'old', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	added, err := EnsureTaskDescriptionColumn(context.Background(), legacy)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = EnsureTaskDescriptionColumn(context.Background(), legacy)
	require.NoError(t, err)
	assert.False(t, added, "second run is a no-op")

	var desc string
	require.NoError(t, legacy.QueryRow(`SELECT description FROM tasks WHERE title = 'old'`).Scan(&desc))
	assert.Equal(t, "", desc)
	require.NoError(t, legacy.Close())

	// Opening through the normal path keeps the legacy rows and the rest of the schema.
	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM user_stats`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestMigrateReportsChanges(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "fresh.db"))
	require.NoError(t, err)
	defer db.Close()

	res, err := Migrate(context.Background(), db)
	require.NoError(t, err)
	assert.False(t, res.AddedTaskDescription, "fresh schema already has the column")

	res, err = Migrate(context.Background(), db)
	require.NoError(t, err)
	assert.False(t, res.AddedTaskDescription)
}

func TestListNewestFirstWithinOneSecond(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createUser(t, db, "order@example.com")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	newer := base.Add(120 * time.Millisecond)
	older := base.Add(100 * time.Millisecond)

	tasks := NewTaskRepo(db)
	for _, tc := range []struct {
		title string
		at    time.Time
	}{{"newer", newer}, {"older", older}} {
		task := &model.Task{UserID: u.ID, Title: tc.title, Status: model.StatusPending, Priority: model.PriorityMedium, Difficulty: 1, CreatedAt: tc.at}
		require.NoError(t, tasks.Create(ctx, task))
	}
	listed, err := tasks.List(ctx, u.ID, model.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "newer", listed[0].Title)
	assert.True(t, listed[0].CreatedAt.Equal(newer))

	goals := NewGoalRepo(db)
	for _, tc := range []struct {
		title string
		at    time.Time
	}{{"newer", newer}, {"older", older}} {
		g := &model.Goal{UserID: u.ID, Title: tc.title, Priority: model.PriorityLow, Category: "work", Difficulty: 1, CreatedAt: tc.at}
		require.NoError(t, goals.Create(ctx, g))
	}
	listedGoals, err := goals.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, listedGoals, 2)
	assert.Equal(t, "newer", listedGoals[0].Title)
}

func TestFormatTimeIsFixedWidth(t *testing.T) {
	a := FormatTime(time.Date(2024, 5, 1, 10, 0, 0, 100_000_000, time.UTC))
	b := FormatTime(time.Date(2024, 5, 1, 10, 0, 0, 120_000_000, time.UTC))
	assert.Equal(t, len(a), len(b))
	assert.Less(t, a, b)

	parsed, err := parseTime(b)
	require.NoError(t, err)
	assert.Equal(t, 120*time.Millisecond, time.Duration(parsed.Nanosecond()))
}
