package repository

import (
	"context"
	"fmt"
)

var indexes = []struct {
	name string
	ddl  string
}{
	// Listing a user's goals newest first.
	{"idx_goals_user_created", "CREATE INDEX IF NOT EXISTS idx_goals_user_created ON goals(user_id, created_at DESC)"},
	{"idx_tasks_user_created", "CREATE INDEX IF NOT EXISTS idx_tasks_user_created ON tasks(user_id, created_at DESC)"},
	// Status filter on the task list.
	{"idx_tasks_user_status", "CREATE INDEX IF NOT EXISTS idx_tasks_user_status ON tasks(user_id, status)"},
	// Goal progress counts.
	{"idx_tasks_goal", "CREATE INDEX IF NOT EXISTS idx_tasks_goal ON tasks(goal_id)"},
}

func SetupIndexes(ctx context.Context, db DBTX) error {
	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx.ddl); err != nil {
			return fmt.Errorf("create %s: %w", idx.name, err)
		}
	}
	return nil
}
