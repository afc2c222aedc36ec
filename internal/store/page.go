package store

import (
	"context"
	"database/sql"

	"github.com/matheus3301/slackvault/internal/store/query"
	"github.com/matheus3301/slackvault/internal/timestamp"
)

// replyCountJoin counts replies per (thread_ts, parent_user_id) within one
// channel and joins them onto parents by (ts, user_id).
const replyCountJoin = `LEFT JOIN (
		SELECT thread_ts AS join_ts, parent_user_id, COUNT(*) AS cnt
		FROM messages
		WHERE channel_id = ? AND parent_user_id != ''
		GROUP BY thread_ts, parent_user_id
	) c ON c.join_ts = m.ts AND c.parent_user_id = m.user_id`

// FetchPage returns up to q.PageSize top-level messages of a channel newer
// than both the watermark and the cursor, oldest first, each with its reply
// count. The next page starts after the TS of the last row.
func (db *DB) FetchPage(ctx context.Context, q PageQuery) ([]ParentMessage, error) {
	if q.PageSize <= 0 {
		return nil, nil
	}

	var cursor string
	if q.Cursor != nil {
		cursor = timestamp.Canonical(*q.Cursor)
	}
	stmt, args := query.Select(messageColumns, userColumns, "COALESCE(c.cnt, 0)").
		From("messages m").
		Join("INNER JOIN users u ON u.id = m.user_id").
		Join(replyCountJoin, q.ChannelID).
		Where("m.channel_id = ?", q.ChannelID).
		Where("m.parent_user_id = ''").
		Where("m.ts > ?", timestamp.Canonical(q.Since)).
		WhereIf(q.Cursor != nil, "m.ts > ?", cursor).
		OrderBy("m.ts ASC").
		Limit(q.PageSize).
		Build(query.Question)

	ctx, release, err := db.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, classify("fetch page", err)
	}
	defer func() { _ = rows.Close() }()

	var page []ParentMessage
	for rows.Next() {
		var count int
		r, err := scanReply(rows, &count)
		if err != nil {
			return nil, classify("scan page", err)
		}
		page = append(page, ParentMessage{Message: r.Message, User: r.User, ReplyCount: count})
	}
	return page, classify("fetch page", rows.Err())
}

// ReplyCounts returns the reply count of each given parent in a channel.
// Parents without replies map to zero.
func (db *DB) ReplyCounts(ctx context.Context, channelID string, parents []ThreadKey) (map[ThreadKey]int, error) {
	ctx, release, err := db.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := db.QueryContext(ctx, `
		SELECT thread_ts, parent_user_id, COUNT(*)
		FROM messages
		WHERE channel_id = ? AND parent_user_id != '' AND thread_ts IS NOT NULL
		GROUP BY thread_ts, parent_user_id`, channelID)
	if err != nil {
		return nil, classify("reply counts", err)
	}
	defer func() { _ = rows.Close() }()

	type key struct{ ts, user string }
	counts := make(map[key]int)
	for rows.Next() {
		var (
			threadTS sql.NullString
			user     string
			n        int
		)
		if err := rows.Scan(&threadTS, &user, &n); err != nil {
			return nil, classify("scan reply counts", err)
		}
		ts, err := parseNullTS(threadTS)
		if err != nil {
			return nil, err
		}
		counts[key{timestamp.Canonical(ts), user}] = n
	}
	if err := rows.Err(); err != nil {
		return nil, classify("reply counts", err)
	}

	out := make(map[ThreadKey]int, len(parents))
	for _, p := range parents {
		out[p] = counts[key{timestamp.Canonical(p.ParentTS), p.ParentUserID}]
	}
	return out, nil
}
