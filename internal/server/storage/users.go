package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/theirongolddev/budgetsync/internal/model"
)

// ErrEmailTaken is returned when another user already has the email.
var ErrEmailTaken = errors.New("storage: email already registered")

// CreateUser inserts u and returns it with its new id.
func (s *Store) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, u.Email).Scan(&n); err != nil {
		return model.User{}, fmt.Errorf("check user email: %w", err)
	}
	if n > 0 {
		return model.User{}, ErrEmailTaken
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO users (name, email) VALUES (?, ?)`, u.Name, u.Email)
	if err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return u, nil
}

// FindUser returns the user with both the given name and email.
func (s *Store) FindUser(ctx context.Context, name, email string) (model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email FROM users WHERE name = ? AND email = ?`, name, email,
	).Scan(&u.ID, &u.Name, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}
