package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rivo/tview"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type stubPage struct {
	*tview.Box
	name string
}

func (s *stubPage) Name() string                 { return s.name }
func (s *stubPage) Hints() []MenuHint            { return nil }
func (s *stubPage) FocusTarget() tview.Primitive { return s }

func TestPagesStack(t *testing.T) {
	p := NewPages()
	for _, id := range []string{"channels", "history", "thread", "help"} {
		p.Register(id, &stubPage{Box: tview.NewBox(), name: strings.ToUpper(id)})
	}
	var titles []string
	p.SetOnChange(func(_ Component, ts []string) { titles = ts })

	p.Reset("channels")
	p.Push("history")
	p.Push("thread")
	if diff := cmp.Diff([]string{"CHANNELS", "HISTORY", "THREAD"}, titles); diff != "" {
		t.Errorf("after push (-want +got):\n%s", diff)
	}

	// Pushing a page already on the stack unwinds to it.
	p.Push("history")
	if p.Depth() != 2 || p.Current() != "history" {
		t.Errorf("depth %d current %q, want 2 history", p.Depth(), p.Current())
	}

	p.Push("unknown")
	if p.Current() != "history" {
		t.Errorf("unknown page changed the stack: %q", p.Current())
	}

	if got := p.Pop(); got != "history" {
		t.Errorf("Pop() = %q", got)
	}
	if got := p.Pop(); got != "" {
		t.Errorf("popped the root: %q", got)
	}
	if p.Top().Name() != "CHANNELS" {
		t.Errorf("top = %s", p.Top().Name())
	}
}

func TestFlashModel(t *testing.T) {
	f := NewFlashModel()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return now }

	if f.Current() != nil {
		t.Fatal("fresh model has a message")
	}
	f.Err("load channel", status.Error(codes.NotFound, "channel \"x\": not found"))
	got := f.Current()
	if got == nil || got.Level != FlashErr || got.Text != `load channel: channel "x": not found` {
		t.Fatalf("Current() = %+v", got)
	}

	now = now.Add(11 * time.Second)
	if f.Current() != nil {
		t.Error("message did not expire")
	}

	f.Warn("slow")
	f.Clear()
	if f.Current() != nil {
		t.Error("Clear left a message")
	}

	f.Err("search", errors.New("plain"))
	if got := f.Current(); got == nil || got.Text != "search: plain" {
		t.Errorf("plain error = %+v", got)
	}
}

func TestMenuLayoutColumns(t *testing.T) {
	m := NewMenu(DefaultTheme())
	var hints []MenuHint
	for i := range 8 {
		hints = append(hints, MenuHint{Key: string(rune('a' + i)), Description: "d"})
	}
	lines := strings.Split(m.layout(hints), "\n")
	if len(lines) != menuRows {
		t.Fatalf("got %d lines, want %d", len(lines), menuRows)
	}
	// Hints 7 and 8 wrap into a second column on rows 1 and 2.
	if !strings.Contains(lines[0], "<a>") || !strings.Contains(lines[0], "<g>") {
		t.Errorf("row 0 = %q", lines[0])
	}
	if strings.Contains(lines[2], "<i>") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{90 * time.Second, "1m"},
		{3*time.Hour + 5*time.Minute, "3h5m"},
		{50 * time.Hour, "2d2h"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
