package archive

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/matheus3301/slackvault/internal/metrics"
	"github.com/matheus3301/slackvault/internal/store"
	"github.com/matheus3301/slackvault/internal/timestamp"
	"go.uber.org/zap/zaptest"
)

// fakeReader records the queries it receives and serves canned rows.
type fakeReader struct {
	channels map[string]store.Channel
	page     []store.ParentMessage
	err      error

	pageQueries   []store.PageQuery
	replyKeys     []store.ThreadKey
	searchQueries []store.SearchQuery
}

func (f *fakeReader) Backend() string                { return "fake" }
func (f *fakeReader) Ping(ctx context.Context) error { return f.err }
func (f *fakeReader) Close() error                   { return nil }

func (f *fakeReader) ListChannels(ctx context.Context) ([]store.Channel, error) {
	var out []store.Channel
	for _, c := range f.channels {
		out = append(out, c)
	}
	return out, f.err
}

func (f *fakeReader) GetChannelByName(ctx context.Context, name string) (*store.Channel, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.channels[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (f *fakeReader) GetUser(ctx context.Context, id string) (*store.User, error) {
	return nil, store.ErrNotFound
}

func (f *fakeReader) FetchPage(ctx context.Context, q store.PageQuery) ([]store.ParentMessage, error) {
	f.pageQueries = append(f.pageQueries, q)
	if len(f.page) > q.PageSize {
		return f.page[:q.PageSize], f.err
	}
	return f.page, f.err
}

func (f *fakeReader) FetchReplies(ctx context.Context, k store.ThreadKey) ([]store.ReplyMessage, error) {
	f.replyKeys = append(f.replyKeys, k)
	return nil, f.err
}

func (f *fakeReader) Search(ctx context.Context, q store.SearchQuery) ([]store.SearchResult, error) {
	f.searchQueries = append(f.searchQueries, q)
	return nil, f.err
}

func (f *fakeReader) Stats(ctx context.Context) (*store.Stats, error) {
	return &store.Stats{}, f.err
}

func mustTS(t *testing.T, raw string) time.Time {
	t.Helper()
	v, err := timestamp.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func newFake(t *testing.T, n int) *fakeReader {
	t.Helper()
	f := &fakeReader{channels: map[string]store.Channel{"general": {ID: "C1", Name: "general"}}}
	base := mustTS(t, "2024-01-01 00:00:00")
	for i := 0; i < n; i++ {
		f.page = append(f.page, store.ParentMessage{Message: store.Message{
			ChannelID: "C1", UserID: "U1", TS: base.Add(time.Duration(i) * time.Minute),
		}})
	}
	return f
}

func TestFetchPageClampsAndReportsCursor(t *testing.T) {
	f := newFake(t, 30)
	svc := NewService(f, Config{DefaultPageSize: 10, MaxPageSize: 20}, zaptest.NewLogger(t), nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		pageSize int
		wantSize int
	}{
		{"default", 0, 10},
		{"explicit", 5, 5},
		{"clamped", 100, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.FetchPage(ctx, "general", "", tt.pageSize)
			if err != nil {
				t.Fatal(err)
			}
			if got := f.pageQueries[len(f.pageQueries)-1].PageSize; got != tt.wantSize {
				t.Errorf("page size = %d, want %d", got, tt.wantSize)
			}
			want := timestamp.Canonical(p.Messages[len(p.Messages)-1].Message.TS)
			if p.NextCursor != want {
				t.Errorf("next cursor = %q, want %q", p.NextCursor, want)
			}
		})
	}

	short := newFake(t, 3)
	svc = NewService(short, Config{DefaultPageSize: 10}, zaptest.NewLogger(t), nil)
	p, err := svc.FetchPage(ctx, "#general", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if p.NextCursor != "" {
		t.Errorf("short page next cursor = %q, want empty", p.NextCursor)
	}
	if p.Channel.ID != "C1" {
		t.Errorf("channel = %+v", p.Channel)
	}
}

func TestFetchPageWatermarksAndCursor(t *testing.T) {
	f := newFake(t, 1)
	cutoff := mustTS(t, "2023-06-01 00:00:00")
	svc := NewService(f, Config{Watermarks: map[string]time.Time{"general": cutoff}}, zaptest.NewLogger(t), nil)
	ctx := context.Background()

	if _, err := svc.FetchPage(ctx, "general", "2024-01-01 10:00:00.5", 10); err != nil {
		t.Fatal(err)
	}
	q := f.pageQueries[0]
	if !q.Since.Equal(cutoff) {
		t.Errorf("since = %v, want %v", q.Since, cutoff)
	}
	if q.Cursor == nil || !q.Cursor.Equal(mustTS(t, "2024-01-01 10:00:00.500000")) {
		t.Errorf("cursor = %v", q.Cursor)
	}
	if q.ChannelID != "C1" {
		t.Errorf("channel id = %q", q.ChannelID)
	}

	f.channels["random"] = store.Channel{ID: "C2", Name: "random"}
	if _, err := svc.FetchPage(ctx, "random", "", 10); err != nil {
		t.Fatal(err)
	}
	if got := f.pageQueries[1].Since; !got.Equal(timestamp.Epoch) {
		t.Errorf("default since = %v, want epoch", got)
	}
}

func TestFetchPageErrors(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()

	f := newFake(t, 1)
	svc := NewService(f, DefaultConfig(), zaptest.NewLogger(t), m)

	_, err := svc.FetchPage(ctx, "general", "last tuesday", 10)
	var tsErr *timestamp.Error
	if !errors.As(err, &tsErr) || tsErr.Source != timestamp.SourceCursor {
		t.Errorf("err = %v, want cursor *timestamp.Error", err)
	}
	if len(f.pageQueries) != 0 {
		t.Error("store queried despite bad cursor")
	}

	if _, err := svc.FetchPage(ctx, "nope", "", 10); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	f.err = store.ErrStoreUnavailable
	if _, err := svc.FetchPage(ctx, "general", "", 10); !errors.Is(err, store.ErrStoreUnavailable) {
		t.Errorf("err = %v, want ErrStoreUnavailable", err)
	}
}

func TestFetchRepliesParsesParentTS(t *testing.T) {
	f := newFake(t, 0)
	svc := NewService(f, DefaultConfig(), zaptest.NewLogger(t), nil)
	ctx := context.Background()

	if _, err := svc.FetchReplies(ctx, "C1", "2024-01-01 10:00:00", "U1"); err != nil {
		t.Fatal(err)
	}
	want := store.ThreadKey{ChannelID: "C1", ParentTS: mustTS(t, "2024-01-01 10:00:00"), ParentUserID: "U1"}
	if diff := cmp.Diff([]store.ThreadKey{want}, f.replyKeys); diff != "" {
		t.Errorf("thread keys (-want +got):\n%s", diff)
	}

	if _, err := svc.FetchReplies(ctx, "C1", "2024-01-01", "U1"); !errors.Is(err, timestamp.ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestSearchBounds(t *testing.T) {
	f := newFake(t, 0)
	svc := NewService(f, Config{DefaultSearchLimit: 20, MaxSearchLimit: 40}, zaptest.NewLogger(t), nil)
	ctx := context.Background()

	res, err := svc.Search(ctx, "   ", "", "", 10)
	if err != nil || res != nil {
		t.Errorf("blank search = (%v, %v), want nil, nil", res, err)
	}
	if len(f.searchQueries) != 0 {
		t.Error("blank search reached the store")
	}

	for _, limit := range []int{0, 5, 1000} {
		if _, err := svc.Search(ctx, " deploy ", "C1", "", limit); err != nil {
			t.Fatal(err)
		}
	}
	var limits []int
	for _, q := range f.searchQueries {
		limits = append(limits, q.Limit)
		if q.Text != "deploy" || q.ChannelID != "C1" || q.UserID != "" {
			t.Errorf("query = %+v", q)
		}
	}
	if diff := cmp.Diff([]int{20, 5, 40}, limits); diff != "" {
		t.Errorf("limits (-want +got):\n%s", diff)
	}
}

func TestSearchExclusionOnly(t *testing.T) {
	f := newFake(t, 0)
	svc := NewService(f, DefaultConfig(), zaptest.NewLogger(t), nil)
	ctx := context.Background()

	for _, text := range []string{"-foo", `-"a b"`, "-foo -bar", "-foo or -bar"} {
		res, err := svc.Search(ctx, text, "", "", 0)
		if err != nil || res != nil {
			t.Errorf("Search(%q) = (%v, %v), want nil, nil", text, res, err)
		}
	}
	if len(f.searchQueries) != 0 {
		t.Fatalf("exclusion-only searches reached the store: %+v", f.searchQueries)
	}

	if _, err := svc.Search(ctx, "deploy -foo", "", "", 0); err != nil {
		t.Fatal(err)
	}
	want := []store.SearchQuery{{Text: "deploy -foo", Limit: store.DefaultSearchLimit}}
	if diff := cmp.Diff(want, f.searchQueries); diff != "" {
		t.Errorf("queries (-want +got):\n%s", diff)
	}
}

func TestServiceOverSQLite(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "archive.db"), store.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	for _, stmt := range []string{
		`INSERT INTO channels (id, name) VALUES ('C1', 'general')`,
		`INSERT INTO users (id, name) VALUES ('U1', 'alice'), ('U2', 'bob')`,
		`INSERT INTO messages (channel_id, user_id, msg_text, ts, thread_ts, parent_user_id) VALUES
			('C1', 'U1', 'release notes are up', '2024-01-01 10:00:00.000000', '2024-01-01 10:00:00.000000', ''),
			('C1', 'U2', 'reading the release notes', '2024-01-01 10:05:00.000000', '2024-01-01 10:00:00.000000', 'U1'),
			('C1', 'U2', 'looks good', '2024-01-01 10:07:00.000000', '2024-01-01 10:00:00.000000', 'U1'),
			('C1', 'U1', 'lunch?', '2024-01-01 12:00:00.000000', NULL, '')`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatal(err)
		}
	}

	svc := NewService(db, Config{DefaultPageSize: 1}, zaptest.NewLogger(t), metrics.New())
	ctx := context.Background()

	first, err := svc.FetchPage(ctx, "general", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Messages) != 1 || first.Messages[0].ReplyCount != 2 || first.NextCursor == "" {
		t.Fatalf("first page = %+v", first)
	}
	second, err := svc.FetchPage(ctx, "general", first.NextCursor, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Messages) != 1 || second.Messages[0].Message.Text != "lunch?" || second.Messages[0].ReplyCount != 0 {
		t.Fatalf("second page = %+v", second)
	}

	parent := first.Messages[0].Message
	replies, err := svc.FetchReplies(ctx, parent.ChannelID, timestamp.Canonical(parent.TS), parent.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if len(replies) != 2 {
		t.Fatalf("got %d replies, want 2", len(replies))
	}

	results, err := svc.Search(ctx, "release notes", "", "U2", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Message.Text != "reading the release notes" {
		t.Errorf("results = %+v", results)
	}

	info, err := svc.GetChannelInfo(ctx, "general")
	if err != nil || info.ID != "C1" {
		t.Errorf("channel info = (%+v, %v)", info, err)
	}
}
