package store

import (
	"context"

	"github.com/matheus3301/slackvault/internal/store/query"
	"github.com/matheus3301/slackvault/internal/timestamp"
)

// FetchReplies returns every reply of one thread, oldest first.
func (db *DB) FetchReplies(ctx context.Context, k ThreadKey) ([]ReplyMessage, error) {
	// A top-level message is never a reply, even when its thread_ts matches.
	if k.ParentUserID == "" {
		return nil, nil
	}

	stmt, args := query.Select(messageColumns, userColumns).
		From("messages m").
		Join("INNER JOIN users u ON u.id = m.user_id").
		Where("m.thread_ts = ?", timestamp.Canonical(k.ParentTS)).
		Where("m.channel_id = ?", k.ChannelID).
		Where("m.parent_user_id = ?", k.ParentUserID).
		OrderBy("m.ts ASC").
		Build(query.Question)

	ctx, release, err := db.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, classify("fetch replies", err)
	}
	defer func() { _ = rows.Close() }()

	var replies []ReplyMessage
	for rows.Next() {
		r, err := scanReply(rows)
		if err != nil {
			return nil, classify("scan reply", err)
		}
		replies = append(replies, r)
	}
	return replies, classify("fetch replies", rows.Err())
}
