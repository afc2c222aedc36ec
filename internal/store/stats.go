package store

import (
	"context"
	"database/sql"
)

// Stats counts archive contents.
func (db *DB) Stats(ctx context.Context) (*Stats, error) {
	ctx, release, err := db.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var (
		s      Stats
		newest sql.NullString
	)
	err = db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM channels),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM messages WHERE parent_user_id = ''),
			(SELECT COUNT(*) FROM messages WHERE parent_user_id != ''),
			(SELECT MAX(ts) FROM messages)`,
	).Scan(&s.Channels, &s.Users, &s.TopLevel, &s.Replies, &newest)
	if err != nil {
		return nil, classify("stats", err)
	}
	if s.NewestMessage, err = parseNullTS(newest); err != nil {
		return nil, err
	}
	return &s, nil
}
