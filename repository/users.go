package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskboss/model"
	"taskboss/utils"
)

type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

// WithTx returns a copy of the repo bound to tx.
func (r *UserRepo) WithTx(tx *sql.Tx) *UserRepo {
	return &UserRepo{db: tx}
}

// ErrEmailTaken is returned by Create when the unique email index rejects the row.
var ErrEmailTaken = errors.New("email already registered")

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, full_name, password, picture, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.Email, user.FullName, user.Password, user.Picture, FormatTime(user.CreatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrEmailTaken
		}
		utils.TrackError("database", "user_creation_failed")
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

const userColumns = `id, email, full_name, password, picture, created_at`

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE email = ?`, email).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

var userUpdatable = map[string]bool{"full_name": true, "picture": true}

// Update applies a partial profile update.
func (r *UserRepo) Update(ctx context.Context, id int64, patch Patch) error {
	if len(patch) == 0 {
		return nil
	}
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	set, args, err := buildUpdate(patch, userUpdatable)
	if err != nil {
		return err
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, `UPDATE users SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(res)
}

// Ping reports whether the database answers a trivial query.
func (r *UserRepo) Ping(ctx context.Context) bool {
	var one int
	return r.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one) == nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u       model.User
		created string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Password, &u.Picture, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
