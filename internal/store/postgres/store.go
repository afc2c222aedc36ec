// Package postgres serves the archive from PostgreSQL, using its native
// web-search query parser and cover-density ranking.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matheus3301/slackvault/internal/store"
	"github.com/matheus3301/slackvault/internal/store/query"
)

// Options configures the pool and ranking of a Store.
type Options struct {
	MaxConns       int
	AcquireTimeout time.Duration
	QueryTimeout   time.Duration
	// Normalization lists ts_rank_cd normalization flags; they are ORed.
	Normalization []int
}

// DefaultOptions mirrors store.DefaultOptions with rank flags 2 and 4.
func DefaultOptions() Options {
	o := store.DefaultOptions()
	return Options{
		MaxConns:       o.MaxConns,
		AcquireTimeout: o.AcquireTimeout,
		QueryTimeout:   o.QueryTimeout,
		Normalization:  []int{2, 4},
	}
}

// Store reads the archive through a bounded pgx pool.
type Store struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
	queryTimeout   time.Duration
	normalization  int
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string, opts Options) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = int32(opts.MaxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create pool: %w", store.ErrStoreUnavailable, err)
	}
	s := &Store{
		pool:           pool,
		acquireTimeout: opts.AcquireTimeout,
		queryTimeout:   opts.QueryTimeout,
		normalization:  Normalization(opts.Normalization),
	}
	if err := s.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Normalization ORs ts_rank_cd flags into one bitmask.
func Normalization(flags []int) int {
	n := 0
	for _, f := range flags {
		n |= f
	}
	return n
}

// Backend names the storage engine.
func (s *Store) Backend() string { return "postgres" }

// Pool exposes the underlying pool to migrations.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Close releases every pooled connection.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// acquire takes one pooled connection, waiting at most the acquire timeout.
func (s *Store) acquire(ctx context.Context) (context.Context, *pgxpool.Conn, func(), error) {
	actx := ctx
	if s.acquireTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, s.acquireTimeout)
		defer cancel()
	}
	conn, err := s.pool.Acquire(actx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, nil, fmt.Errorf("%w: acquire: %w", store.ErrStoreUnavailable, ctx.Err())
		}
		return nil, nil, nil, fmt.Errorf("%w: acquire: %w", store.ErrStoreUnavailable, err)
	}

	qctx, cancel := ctx, context.CancelFunc(func() {})
	if _, ok := ctx.Deadline(); !ok && s.queryTimeout > 0 {
		qctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
	}
	return qctx, conn, func() {
		cancel()
		conn.Release()
	}, nil
}

// Ping checks the server is reachable through the pool.
func (s *Store) Ping(ctx context.Context) error {
	ctx, conn, release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return classify("ping", conn.Ping(ctx))
}

// ListChannels returns every channel ordered by name.
func (s *Store) ListChannels(ctx context.Context) ([]store.Channel, error) {
	ctx, conn, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := conn.Query(ctx, `SELECT id, name, topic, purpose FROM channels ORDER BY name ASC`)
	if err != nil {
		return nil, classify("list channels", err)
	}
	channels, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Channel, error) {
		var c store.Channel
		err := row.Scan(&c.ID, &c.Name, &c.Topic, &c.Purpose)
		return c, err
	})
	return channels, classify("list channels", err)
}

// GetChannelByName looks up a channel by its unique name.
func (s *Store) GetChannelByName(ctx context.Context, name string) (*store.Channel, error) {
	ctx, conn, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var c store.Channel
	err = conn.QueryRow(ctx, `SELECT id, name, topic, purpose FROM channels WHERE name = $1`, name).
		Scan(&c.ID, &c.Name, &c.Topic, &c.Purpose)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("channel %q: %w", name, store.ErrNotFound)
	}
	if err != nil {
		return nil, classify("get channel", err)
	}
	return &c, nil
}

// GetUser looks up a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*store.User, error) {
	ctx, conn, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var u store.User
	err = conn.QueryRow(ctx, `
		SELECT id, name, real_name, display_name, image_url, email, deleted, is_bot
		FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.RealName, &u.DisplayName, &u.ImageURL, &u.Email, &u.Deleted, &u.IsBot)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, classify("get user", err)
	}
	return &u, nil
}

const (
	messageColumns = "m.channel_id, m.user_id, m.msg_text, m.ts, m.thread_ts, m.parent_user_id"
	userColumns    = "u.id, u.name, u.real_name, u.display_name, u.image_url, u.email, u.deleted, u.is_bot"

	replyCountJoin = `LEFT JOIN (
		SELECT thread_ts AS join_ts, parent_user_id, COUNT(*) AS cnt
		FROM messages
		WHERE channel_id = ? AND parent_user_id <> ''
		GROUP BY thread_ts, parent_user_id
	) c ON c.join_ts = m.ts AND c.parent_user_id = m.user_id`
)

func scanReply(row pgx.Row, extra ...any) (store.ReplyMessage, error) {
	var (
		r        store.ReplyMessage
		threadTS *time.Time
	)
	dest := []any{
		&r.Message.ChannelID, &r.Message.UserID, &r.Message.Text,
		&r.Message.TS, &threadTS, &r.Message.ParentUserID,
		&r.User.ID, &r.User.Name, &r.User.RealName, &r.User.DisplayName,
		&r.User.ImageURL, &r.User.Email, &r.User.Deleted, &r.User.IsBot,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return r, err
	}
	r.Message.TS = r.Message.TS.UTC()
	if threadTS != nil {
		r.Message.ThreadTS = threadTS.UTC()
	}
	return r, nil
}

func pageQuery(q store.PageQuery) (string, []any) {
	b := query.Select(messageColumns, userColumns, "COALESCE(c.cnt, 0)").
		From("messages m").
		Join("INNER JOIN users u ON u.id = m.user_id").
		Join(replyCountJoin, q.ChannelID).
		Where("m.channel_id = ?", q.ChannelID).
		Where("m.parent_user_id = ''").
		Where("m.ts > ?", q.Since.UTC())
	if q.Cursor != nil {
		b.Where("m.ts > ?", q.Cursor.UTC())
	}
	return b.OrderBy("m.ts ASC").Limit(q.PageSize).Build(query.Dollar)
}

// FetchPage returns up to q.PageSize top-level messages newer than both the
// watermark and the cursor, oldest first, with reply counts.
func (s *Store) FetchPage(ctx context.Context, q store.PageQuery) ([]store.ParentMessage, error) {
	if q.PageSize <= 0 {
		return nil, nil
	}
	stmt, args := pageQuery(q)

	ctx, conn, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := conn.Query(ctx, stmt, args...)
	if err != nil {
		return nil, classify("fetch page", err)
	}
	page, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.ParentMessage, error) {
		var count int64
		r, err := scanReply(row, &count)
		return store.ParentMessage{Message: r.Message, User: r.User, ReplyCount: int(count)}, err
	})
	return page, classify("fetch page", err)
}

// ReplyCounts returns the reply count of each given parent in a channel.
func (s *Store) ReplyCounts(ctx context.Context, channelID string, parents []store.ThreadKey) (map[store.ThreadKey]int, error) {
	ctx, conn, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := conn.Query(ctx, `
		SELECT thread_ts, parent_user_id, COUNT(*)
		FROM messages
		WHERE channel_id = $1 AND parent_user_id <> '' AND thread_ts IS NOT NULL
		GROUP BY thread_ts, parent_user_id`, channelID)
	if err != nil {
		return nil, classify("reply counts", err)
	}
	type key struct {
		ts   int64
		user string
	}
	counts := make(map[key]int)
	var (
		threadTS time.Time
		user     string
		n        int64
	)
	_, err = pgx.ForEachRow(rows, []any{&threadTS, &user, &n}, func() error {
		counts[key{threadTS.UnixMicro(), user}] = int(n)
		return nil
	})
	if err != nil {
		return nil, classify("reply counts", err)
	}

	out := make(map[store.ThreadKey]int, len(parents))
	for _, p := range parents {
		out[p] = counts[key{p.ParentTS.UnixMicro(), p.ParentUserID}]
	}
	return out, nil
}

func repliesQuery(k store.ThreadKey) (string, []any) {
	return query.Select(messageColumns, userColumns).
		From("messages m").
		Join("INNER JOIN users u ON u.id = m.user_id").
		Where("m.thread_ts = ?", k.ParentTS.UTC()).
		Where("m.channel_id = ?", k.ChannelID).
		Where("m.parent_user_id = ?", k.ParentUserID).
		OrderBy("m.ts ASC").
		Build(query.Dollar)
}

// FetchReplies returns every reply of one thread, oldest first.
func (s *Store) FetchReplies(ctx context.Context, k store.ThreadKey) ([]store.ReplyMessage, error) {
	if k.ParentUserID == "" {
		return nil, nil
	}
	stmt, args := repliesQuery(k)

	ctx, conn, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := conn.Query(ctx, stmt, args...)
	if err != nil {
		return nil, classify("fetch replies", err)
	}
	replies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.ReplyMessage, error) {
		return scanReply(row)
	})
	return replies, classify("fetch replies", err)
}

func searchQuery(q store.SearchQuery, normalization int) (string, []any) {
	limit := q.Limit
	if limit <= 0 {
		limit = store.DefaultSearchLimit
	}
	return query.Select(messageColumns, userColumns).
		Column("ts_rank_cd(m.textsearchable_index_col, websearch_to_tsquery('english', ?), ?)::float8 AS rank",
			q.Text, normalization).
		From("messages m").
		Join("INNER JOIN users u ON u.id = m.user_id").
		Where("m.textsearchable_index_col @@ websearch_to_tsquery('english', ?)", q.Text).
		Equal("m.channel_id", q.ChannelID).
		Equal("m.user_id", q.UserID).
		OrderBy("rank DESC", "m.ts DESC").
		Limit(limit).
		Build(query.Dollar)
}

// Search runs a ranked web-search query over message bodies, optionally
// restricted to one channel and/or one user.
func (s *Store) Search(ctx context.Context, q store.SearchQuery) ([]store.SearchResult, error) {
	if !store.HasPositiveTerms(q.Text) {
		return nil, nil
	}
	stmt, args := searchQuery(q, s.normalization)

	ctx, conn, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := conn.Query(ctx, stmt, args...)
	if err != nil {
		return nil, classify("search", err)
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.SearchResult, error) {
		var rank float64
		r, err := scanReply(row, &rank)
		return store.SearchResult{ReplyMessage: r, Rank: rank}, err
	})
	return results, classify("search", err)
}

// Stats counts archive contents.
func (s *Store) Stats(ctx context.Context) (*store.Stats, error) {
	ctx, conn, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var (
		st     store.Stats
		newest *time.Time
	)
	err = conn.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM channels),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM messages WHERE parent_user_id = ''),
			(SELECT COUNT(*) FROM messages WHERE parent_user_id <> ''),
			(SELECT MAX(ts) FROM messages)`,
	).Scan(&st.Channels, &st.Users, &st.TopLevel, &st.Replies, &newest)
	if err != nil {
		return nil, classify("stats", err)
	}
	if newest != nil {
		st.NewestMessage = newest.UTC()
	}
	return &st, nil
}
