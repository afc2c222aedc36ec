// Package archive is the backend-independent read API over an archived
// Slack workspace. It validates caller input, applies channel watermarks and
// size bounds, and delegates to a Reader.
package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matheus3301/slackvault/internal/metrics"
	"github.com/matheus3301/slackvault/internal/store"
	"github.com/matheus3301/slackvault/internal/store/postgres"
	"github.com/matheus3301/slackvault/internal/store/query"
	"github.com/matheus3301/slackvault/internal/timestamp"
	"go.uber.org/zap"
)

// Reader is implemented by each storage backend.
type Reader interface {
	Backend() string
	Ping(ctx context.Context) error
	ListChannels(ctx context.Context) ([]store.Channel, error)
	GetChannelByName(ctx context.Context, name string) (*store.Channel, error)
	GetUser(ctx context.Context, id string) (*store.User, error)
	FetchPage(ctx context.Context, q store.PageQuery) ([]store.ParentMessage, error)
	FetchReplies(ctx context.Context, k store.ThreadKey) ([]store.ReplyMessage, error)
	Search(ctx context.Context, q store.SearchQuery) ([]store.SearchResult, error)
	Stats(ctx context.Context) (*store.Stats, error)
	Close() error
}

// Config bounds paging and search.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
	// DefaultSince is the watermark of channels without their own entry.
	DefaultSince time.Time
	// Watermarks maps channel names to their lower ts bound.
	Watermarks         map[string]time.Time
	DefaultSearchLimit int
	MaxSearchLimit     int
}

// DefaultConfig pages 50 messages at a time and returns
// store.DefaultSearchLimit search hits.
func DefaultConfig() Config {
	return Config{
		DefaultPageSize:    50,
		MaxPageSize:        500,
		DefaultSince:       timestamp.Epoch,
		DefaultSearchLimit: store.DefaultSearchLimit,
		MaxSearchLimit:     500,
	}
}

// Page is one forward page of a channel's top-level messages.
type Page struct {
	Channel  store.Channel
	Messages []store.ParentMessage
	// NextCursor is the canonical ts of the last message, or empty when
	// the page was short and there is nothing more to fetch.
	NextCursor string
	Since      time.Time
}

// Service answers archive queries.
type Service struct {
	r       Reader
	cfg     Config
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewService creates a Service over r. m may be nil.
func NewService(r Reader, cfg Config, log *zap.Logger, m *metrics.Metrics) *Service {
	def := DefaultConfig()
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = def.DefaultPageSize
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = cfg.DefaultPageSize
	}
	if cfg.DefaultSearchLimit <= 0 {
		cfg.DefaultSearchLimit = def.DefaultSearchLimit
	}
	if cfg.MaxSearchLimit < cfg.DefaultSearchLimit {
		cfg.MaxSearchLimit = cfg.DefaultSearchLimit
	}
	if cfg.DefaultSince.IsZero() {
		cfg.DefaultSince = timestamp.Epoch
	}
	return &Service{r: r, cfg: cfg, log: log, metrics: m}
}

// Backend names the storage engine behind the service.
func (s *Service) Backend() string { return s.r.Backend() }

// Watermark returns the lower ts bound applied when paging channel name.
func (s *Service) Watermark(name string) time.Time {
	if w, ok := s.cfg.Watermarks[name]; ok {
		return w
	}
	return s.cfg.DefaultSince
}

// observe logs and records the outcome of one operation.
func (s *Service) observe(op string, start time.Time, err error, fields ...zap.Field) {
	d := time.Since(start)
	kind := store.Kind(err)
	s.metrics.ObserveQuery(op, kind, d)
	fields = append(fields, zap.String("op", op), zap.Duration("duration", d))
	if err != nil {
		s.log.Warn("archive query failed", append(fields, zap.String("kind", kind), zap.Error(err))...)
		return
	}
	s.log.Debug("archive query", fields...)
}

// Ping checks the backend is reachable.
func (s *Service) Ping(ctx context.Context) (err error) {
	defer func(start time.Time) { s.observe("ping", start, err) }(time.Now())
	return s.r.Ping(ctx)
}

// ListChannels returns all channels sorted by name.
func (s *Service) ListChannels(ctx context.Context) (channels []store.Channel, err error) {
	defer func(start time.Time) { s.observe("list_channels", start, err) }(time.Now())
	return s.r.ListChannels(ctx)
}

// GetChannelInfo looks up one channel by name.
func (s *Service) GetChannelInfo(ctx context.Context, name string) (c *store.Channel, err error) {
	defer func(start time.Time) { s.observe("get_channel", start, err, zap.String("channel", name)) }(time.Now())
	return s.r.GetChannelByName(ctx, strings.TrimPrefix(name, "#"))
}

// GetUser looks up one user by ID.
func (s *Service) GetUser(ctx context.Context, id string) (u *store.User, err error) {
	defer func(start time.Time) { s.observe("get_user", start, err, zap.String("user", id)) }(time.Now())
	return s.r.GetUser(ctx, id)
}

// FetchPage returns the page of channel name following cursor. An empty
// cursor starts at the channel watermark; pageSize <= 0 selects the default.
func (s *Service) FetchPage(ctx context.Context, name, cursor string, pageSize int) (p *Page, err error) {
	defer func(start time.Time) {
		s.observe("fetch_page", start, err, zap.String("channel", name), zap.String("cursor", cursor))
	}(time.Now())

	name = strings.TrimPrefix(name, "#")
	var cur *time.Time
	if cursor != "" {
		t, err := timestamp.Parse(cursor)
		if err != nil {
			return nil, fmt.Errorf("cursor: %w", err)
		}
		cur = &t
	}

	ch, err := s.r.GetChannelByName(ctx, name)
	if err != nil {
		return nil, err
	}

	size := clamp(pageSize, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	since := s.Watermark(name)
	msgs, err := s.r.FetchPage(ctx, store.PageQuery{
		ChannelID: ch.ID,
		Cursor:    cur,
		PageSize:  size,
		Since:     since,
	})
	if err != nil {
		return nil, err
	}

	p = &Page{Channel: *ch, Messages: msgs, Since: since}
	if len(msgs) == size {
		p.NextCursor = timestamp.Canonical(msgs[len(msgs)-1].Message.TS)
	}
	return p, nil
}

// FetchReplies returns the replies of the thread started by parentUserID at
// parentTS in channelID, oldest first.
func (s *Service) FetchReplies(ctx context.Context, channelID, parentTS, parentUserID string) (replies []store.ReplyMessage, err error) {
	defer func(start time.Time) {
		s.observe("fetch_replies", start, err, zap.String("channel_id", channelID), zap.String("parent_ts", parentTS))
	}(time.Now())

	ts, err := timestamp.Parse(parentTS)
	if err != nil {
		return nil, fmt.Errorf("parent ts: %w", err)
	}
	return s.r.FetchReplies(ctx, store.ThreadKey{ChannelID: channelID, ParentTS: ts, ParentUserID: parentUserID})
}

// Search runs a ranked full-text query. Empty channelID or userID disable
// that filter; limit <= 0 selects the default.
func (s *Service) Search(ctx context.Context, text, channelID, userID string, limit int) (results []store.SearchResult, err error) {
	mode := query.Mode(channelID, userID)
	defer func(start time.Time) {
		s.observe("search", start, err, zap.String("mode", mode), zap.Int("results", len(results)))
	}(time.Now())

	text = strings.TrimSpace(text)
	if !store.HasPositiveTerms(text) {
		return nil, nil
	}
	s.metrics.ObserveSearchMode(mode)
	return s.r.Search(ctx, store.SearchQuery{
		Text:      text,
		ChannelID: channelID,
		UserID:    userID,
		Limit:     clamp(limit, s.cfg.DefaultSearchLimit, s.cfg.MaxSearchLimit),
	})
}

// Stats summarizes the archive.
func (s *Service) Stats(ctx context.Context) (st *store.Stats, err error) {
	defer func(start time.Time) { s.observe("stats", start, err) }(time.Now())
	return s.r.Stats(ctx)
}

func clamp(n, def, upper int) int {
	if n <= 0 {
		return def
	}
	if n > upper {
		return upper
	}
	return n
}

var (
	_ Reader = (*store.DB)(nil)
	_ Reader = (*postgres.Store)(nil)
)
