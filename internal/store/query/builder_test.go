package query

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildOrdersArgsBySQLPosition(t *testing.T) {
	q, args := Select("m.ts").
		Column("score(?) AS s", 0.5).
		From("messages m").
		Join("LEFT JOIN counts c ON c.channel_id = ?", "C1").
		Where("m.channel_id = ?", "C1").
		Where("m.ts > ?", "2024").
		OrderBy("s DESC", "m.ts DESC").
		Limit(10).
		Build(Question)

	want := "SELECT m.ts, score(?) AS s FROM messages m LEFT JOIN counts c ON c.channel_id = ? " +
		"WHERE m.channel_id = ? AND m.ts > ? ORDER BY s DESC, m.ts DESC LIMIT ?"
	if q != want {
		t.Fatalf("query mismatch\n got: %s\nwant: %s", q, want)
	}
	if diff := cmp.Diff([]any{0.5, "C1", "C1", "2024", 10}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDollar(t *testing.T) {
	q, args := Select("id").From("users").Where("id = ?", "U1").Limit(1).Build(Dollar)
	if q != "SELECT id FROM users WHERE id = $1 LIMIT $2" {
		t.Errorf("got %q", q)
	}
	if len(args) != 2 {
		t.Errorf("got %d args, want 2", len(args))
	}
}

func TestBuildNoLimitNoWhere(t *testing.T) {
	q, args := Select("id").From("channels").OrderBy("name ASC").Build(Question)
	if q != "SELECT id FROM channels ORDER BY name ASC" {
		t.Errorf("got %q", q)
	}
	if len(args) != 0 {
		t.Errorf("got args %v, want none", args)
	}
}

func TestFilterModesShareShape(t *testing.T) {
	build := func(channelID, userID string) (string, []any) {
		return Select("m.ts").
			From("messages m").
			Where("m.msg_text MATCH ?", "hello").
			Equal("m.channel_id", channelID).
			Equal("m.user_id", userID).
			OrderBy("m.ts DESC").
			Limit(5).
			Build(Dollar)
	}

	tests := []struct {
		channel, user string
		mode          string
		where         string
		args          []any
	}{
		{"C1", "U1", "both", "WHERE m.msg_text MATCH $1 AND m.channel_id = $2 AND m.user_id = $3 ORDER BY", []any{"hello", "C1", "U1", 5}},
		{"C1", "", "channel", "WHERE m.msg_text MATCH $1 AND m.channel_id = $2 ORDER BY", []any{"hello", "C1", 5}},
		{"", "U1", "user", "WHERE m.msg_text MATCH $1 AND m.user_id = $2 ORDER BY", []any{"hello", "U1", 5}},
		{"", "", "none", "WHERE m.msg_text MATCH $1 ORDER BY", []any{"hello", 5}},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			if got := Mode(tt.channel, tt.user); got != tt.mode {
				t.Errorf("Mode = %q, want %q", got, tt.mode)
			}
			q, args := build(tt.channel, tt.user)
			want := "SELECT m.ts FROM messages m " + tt.where + " m.ts DESC LIMIT $" + strconv.Itoa(len(tt.args))
			if q != want {
				t.Errorf("query mismatch\n got: %s\nwant: %s", q, want)
			}
			if diff := cmp.Diff(tt.args, args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRebindSkipsQuoted(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a = ?", "a = $1"},
		{"a = ? AND b = '?' AND c = ?", "a = $1 AND b = '?' AND c = $2"},
		{`"we?ird" = ?`, `"we?ird" = $1`},
		{"no params", "no params"},
	}
	for _, tt := range tests {
		if got := Rebind(Dollar, tt.in); got != tt.want {
			t.Errorf("Rebind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := Rebind(Question, "a = ?"); got != "a = ?" {
		t.Errorf("Question rebind changed query: %q", got)
	}
}
