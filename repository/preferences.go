package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"taskboss/model"
	"taskboss/utils"
)

type PreferencesRepo struct {
	db DBTX
}

func NewPreferencesRepo(db DBTX) *PreferencesRepo {
	return &PreferencesRepo{db: db}
}

func (r *PreferencesRepo) WithTx(tx *sql.Tx) *PreferencesRepo {
	return &PreferencesRepo{db: tx}
}

func (r *PreferencesRepo) Get(ctx context.Context, userID int64) (*model.UserPreferences, error) {
	timer := utils.TrackDBOperation("find", "user_preferences")
	defer timer.ObserveDuration()

	var (
		p   model.UserPreferences
		raw string
	)
	err := r.db.QueryRowContext(ctx, `SELECT id, user_id, ai_models FROM user_preferences WHERE user_id = ?`, userID).
		Scan(&p.ID, &p.UserID, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.AIModels = map[string]string{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &p.AIModels); err != nil {
			return nil, fmt.Errorf("decode ai_models: %w", err)
		}
	}
	return &p, nil
}

// Upsert stores aiModels for userID, creating the row when missing.
func (r *PreferencesRepo) Upsert(ctx context.Context, userID int64, aiModels map[string]string) (*model.UserPreferences, error) {
	timer := utils.TrackDBOperation("upsert", "user_preferences")
	defer timer.ObserveDuration()

	if aiModels == nil {
		aiModels = map[string]string{}
	}
	raw, err := json.Marshal(aiModels)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `INSERT INTO user_preferences (user_id, ai_models) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET ai_models = excluded.ai_models`, userID, string(raw)); err != nil {
		utils.TrackError("database", "preferences_upsert_failed")
		return nil, fmt.Errorf("upsert preferences: %w", err)
	}
	return r.Get(ctx, userID)
}
