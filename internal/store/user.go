package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetUser looks up a user by ID.
func (db *DB) GetUser(ctx context.Context, id string) (*User, error) {
	ctx, release, err := db.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var u User
	err = db.QueryRowContext(ctx, `
		SELECT id, name, real_name, display_name, image_url, email, deleted, is_bot
		FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.RealName, &u.DisplayName, &u.ImageURL, &u.Email, &u.Deleted, &u.IsBot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, classify("get user", err)
	}
	return &u, nil
}
