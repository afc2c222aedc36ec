package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ListChannels returns every channel ordered by name.
func (db *DB) ListChannels(ctx context.Context) ([]Channel, error) {
	ctx, release, err := db.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := db.QueryContext(ctx, `SELECT id, name, topic, purpose FROM channels ORDER BY name ASC`)
	if err != nil {
		return nil, classify("list channels", err)
	}
	defer func() { _ = rows.Close() }()

	var channels []Channel
	for rows.Next() {
		var c Channel
		if err := rows.Scan(&c.ID, &c.Name, &c.Topic, &c.Purpose); err != nil {
			return nil, classify("scan channel", err)
		}
		channels = append(channels, c)
	}
	return channels, classify("list channels", rows.Err())
}

// GetChannelByName looks up a channel by its unique name.
func (db *DB) GetChannelByName(ctx context.Context, name string) (*Channel, error) {
	ctx, release, err := db.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var c Channel
	err = db.QueryRowContext(ctx,
		`SELECT id, name, topic, purpose FROM channels WHERE name = ?`, name,
	).Scan(&c.ID, &c.Name, &c.Topic, &c.Purpose)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("channel %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, classify("get channel", err)
	}
	return &c, nil
}
