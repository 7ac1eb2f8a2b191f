package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrNotFound is returned when no row matches id and owner.
var ErrNotFound = errors.New("record not found")

// DBTX is satisfied by *sql.DB and *sql.Tx so repos can run inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Connect opens the SQLite file at path with foreign keys enforced. The
// pool is capped at one connection. The schema is not touched.
func Connect(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	db, err := sql.Open("sqlite", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Open connects and applies the schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := Connect(path)
	if err != nil {
		return nil, err
	}
	if _, err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// MigrationResult reports what Migrate changed.
type MigrationResult struct {
	AddedTaskDescription bool
}

// Migrate applies schema.sql, adds columns missing from older databases and
// creates indexes. Every step is idempotent.
func Migrate(ctx context.Context, db *sql.DB) (MigrationResult, error) {
	var res MigrationResult
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return res, fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return res, fmt.Errorf("apply schema: %w", err)
	}
	if res.AddedTaskDescription, err = EnsureTaskDescriptionColumn(ctx, db); err != nil {
		return res, err
	}
	return res, SetupIndexes(ctx, db)
}

// EnsureTaskDescriptionColumn adds tasks.description when absent and reports
// whether it did.
func EnsureTaskDescriptionColumn(ctx context.Context, db DBTX) (bool, error) {
	var exists int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM pragma_table_info('tasks') WHERE name = 'description' LIMIT 1").Scan(&exists)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("check tasks.description column: %w", err)
	}
	if _, err := db.ExecContext(ctx, "ALTER TABLE tasks ADD COLUMN description TEXT NOT NULL DEFAULT ''"); err != nil {
		return false, fmt.Errorf("add tasks.description column: %w", err)
	}
	return true, nil
}

// WithTx runs fn in a transaction, committing on nil and rolling back otherwise.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Patch maps column names to new values for a partial update.
type Patch map[string]any

// buildUpdate renders "col1 = ?, col2 = ?" for the allowed columns of p in
// a stable order.
func buildUpdate(p Patch, allowed map[string]bool) (string, []any, error) {
	cols := make([]string, 0, len(p))
	for col := range p {
		if !allowed[col] {
			return "", nil, fmt.Errorf("column %q cannot be updated", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		sets[i] = col + " = ?"
		args[i] = p[col]
	}
	return strings.Join(sets, ", "), args, nil
}

// TimeLayout is fixed width so that text comparison of stored timestamps
// matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t in UTC with TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullableString(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// encodeStrings serializes a list column; nil becomes "[]".
func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeStrings(raw string) ([]string, error) {
	out := []string{}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode list column: %w", err)
	}
	return out, nil
}
