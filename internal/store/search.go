package store

import (
	"context"

	"github.com/matheus3301/slackvault/internal/store/query"
)

// DefaultSearchLimit applies when a query carries no limit.
const DefaultSearchLimit = 50

// wordCount approximates a message's length in whitespace-separated words.
const wordCount = `(length(trim(m.msg_text)) - length(replace(trim(m.msg_text), ' ', '')) + 1)`

// Search runs a ranked full-text query over message bodies, optionally
// restricted to one channel and/or one user. Results are ordered by
// relevance, then newest first.
func (db *DB) Search(ctx context.Context, q SearchQuery) ([]SearchResult, error) {
	match := MatchExpr(q.Text)
	if match == "" {
		return nil, nil
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	// bm25 is lower-is-better (negative); Rank reports it negated. The length
	// term shrinks the score of long messages towards zero.
	stmt, args := query.Select(messageColumns, userColumns).
		Column("bm25(messages_fts) / (1.0 + ? * "+wordCount+") AS score", db.lengthWeight).
		From("messages_fts f").
		Join("INNER JOIN messages m ON m.id = f.rowid").
		Join("INNER JOIN users u ON u.id = m.user_id").
		Where("messages_fts MATCH ?", match).
		Equal("m.channel_id", q.ChannelID).
		Equal("m.user_id", q.UserID).
		OrderBy("score ASC", "m.ts DESC").
		Limit(limit).
		Build(query.Question)

	ctx, release, err := db.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, classify("search", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var s float64
		r, err := scanReply(rows, &s)
		if err != nil {
			return nil, classify("scan search result", err)
		}
		results = append(results, SearchResult{ReplyMessage: r, Rank: -s})
	}
	return results, classify("search", rows.Err())
}
