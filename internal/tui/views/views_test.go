package views

import (
	"testing"

	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/tui/model"
	"github.com/matheus3301/slackvault/internal/tui/ui"
)

func TestChannelListFilter(t *testing.T) {
	cl := NewChannelList(ui.DefaultTheme())
	cl.Update([]*vaultv1.Channel{
		{ID: "C1", Name: "general", Topic: "company wide"},
		{ID: "C2", Name: "random"},
		{ID: "C3", Name: "deploys", Topic: "Release train"},
	})

	if got := cl.ChannelByIndex(2); got == nil || got.ID != "C2" {
		t.Fatalf("ChannelByIndex(2) = %+v, want C2", got)
	}

	cl.SetFilter("RELEASE")
	if got := cl.ChannelByIndex(1); got == nil || got.ID != "C3" {
		t.Errorf("filtered ChannelByIndex(1) = %+v, want C3", got)
	}
	if got := cl.ChannelByIndex(2); got != nil {
		t.Errorf("filtered ChannelByIndex(2) = %+v, want nil", got)
	}
	if got := cl.Selected(); got == nil || got.ID != "C3" {
		t.Errorf("Selected() = %+v, want C3", got)
	}

	cl.ClearFilter()
	if got := cl.ChannelByIndex(3); got == nil || got.ID != "C3" {
		t.Errorf("ChannelByIndex(3) after clear = %+v, want C3", got)
	}
	if got := cl.ChannelByIndex(0); got != nil {
		t.Errorf("ChannelByIndex(0) = %+v, want nil", got)
	}
}

func TestHistoryViewSelection(t *testing.T) {
	hv := NewHistoryView(ui.DefaultTheme())
	if hv.Selected() != nil {
		t.Fatal("empty view should have no selection")
	}

	ch := &vaultv1.Channel{ID: "C1", Name: "general"}
	h := &model.History{
		Channel: ch,
		Messages: []*vaultv1.ParentMessage{
			{Message: &vaultv1.Message{ChannelID: "C1", UserID: "U1", Ts: "t1", Text: "hi"}, ReplyCount: 2},
			{Message: &vaultv1.Message{ChannelID: "C1", UserID: "U2", Ts: "t2", Text: "yo"}},
		},
		NextCursor: "t2",
	}
	hv.Update(h)
	if hv.Name() != "#general" {
		t.Errorf("Name() = %q", hv.Name())
	}
	hv.Select(2, 0)
	if got := hv.Selected(); got == nil || got.Message.Ts != "t2" {
		t.Errorf("Selected() = %+v, want t2", got)
	}

	// Appending keeps the cursor where it was.
	more := *h
	more.Messages = append(more.Messages, &vaultv1.ParentMessage{Message: &vaultv1.Message{ChannelID: "C1", UserID: "U1", Ts: "t3"}})
	more.NextCursor = ""
	hv.Update(&more)
	if row, _ := hv.GetSelection(); row != 2 {
		t.Errorf("selection row = %d, want 2", row)
	}
}

func TestAuthorName(t *testing.T) {
	tests := []struct {
		m    *vaultv1.Message
		want string
	}{
		{&vaultv1.Message{UserID: "U1"}, "U1"},
		{&vaultv1.Message{UserID: "U1", User: &vaultv1.User{Name: "alice"}}, "alice"},
		{&vaultv1.Message{UserID: "U1", User: &vaultv1.User{Name: "alice", RealName: "Alice A"}}, "Alice A"},
		{&vaultv1.Message{UserID: "U1", User: &vaultv1.User{Name: "alice", RealName: "Alice A", DisplayName: "ali"}}, "ali"},
	}
	for _, tt := range tests {
		if got := authorName(tt.m); got != tt.want {
			t.Errorf("authorName(%+v) = %q, want %q", tt.m, got, tt.want)
		}
	}
}
