package storage

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/core"
)

const userColumns = `id, username, email, first_name, last_name, password_hash, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (core.User, error) {
	var (
		u  core.User
		ts stamps
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.IsActive,
		&ts.created, &ts.updated)
	if err != nil {
		return u, mapError(err)
	}
	if u.CreatedAt, u.UpdatedAt, err = ts.decode(); err != nil {
		return u, fmt.Errorf("user %d timestamps: %w", u.ID, err)
	}
	return u, nil
}

func (q *Queries) CreateUser(ctx context.Context, u *core.User) error {
	now := time.Now().UTC()
	id, err := q.insert(ctx, `INSERT INTO users (username, email, first_name, last_name, password_hash,
		is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.IsActive, timeArg(now), timeArg(now))
	if err != nil {
		return fmt.Errorf("insert user %s: %w", u.Username, err)
	}
	u.ID, u.CreatedAt, u.UpdatedAt = id, now, now
	return nil
}

func (q *Queries) GetUser(ctx context.Context, id int64) (core.User, error) {
	u, err := scanUser(q.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return u, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	u, err := scanUser(q.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		return u, fmt.Errorf("get user %s: %w", username, err)
	}
	return u, nil
}

func (q *Queries) UpdateUser(ctx context.Context, u *core.User) error {
	u.UpdatedAt = time.Now().UTC()
	err := q.execOne(ctx, `UPDATE users SET email = ?, first_name = ?, last_name = ?, password_hash = ?,
		is_active = ?, updated_at = ? WHERE id = ?`,
		u.Email, u.FirstName, u.LastName, u.PasswordHash, u.IsActive, timeArg(u.UpdatedAt), u.ID)
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return nil
}
