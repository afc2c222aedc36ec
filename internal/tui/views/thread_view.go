package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/tui/model"
	"github.com/matheus3301/slackvault/internal/tui/ui"
	"github.com/rivo/tview"
)

// ThreadView shows a thread parent followed by its replies.
type ThreadView struct {
	*tview.TextView
	theme  *ui.Theme
	thread *model.Thread
}

// NewThreadView creates a new thread view.
func NewThreadView(theme *ui.Theme) *ThreadView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Thread ")
	tv.SetTitleColor(theme.TitleColor)

	return &ThreadView{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (tv *ThreadView) Name() string { return "Thread" }

// FocusTarget implements Component.
func (tv *ThreadView) FocusTarget() tview.Primitive { return tv.TextView }

// Hints implements Component.
func (tv *ThreadView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
		{Key: "j/k", Description: "Scroll"},
		{Key: "?", Description: "Help"},
	}
}

// Update renders th.
func (tv *ThreadView) Update(th *model.Thread) {
	tv.thread = th
	tv.Clear()
	if th == nil {
		return
	}
	_, _ = fmt.Fprint(tv, tv.format(th))
	tv.SetTitle(fmt.Sprintf(" Thread (%d %s) ", len(th.Replies), pluralize(len(th.Replies), "reply", "replies")))
	tv.ScrollToBeginning()
}

func (tv *ThreadView) format(th *model.Thread) string {
	var b strings.Builder
	if th.Parent != nil {
		tv.writeMessage(&b, th.Parent, "")
	} else {
		fmt.Fprintf(&b, "[%s]parent %s by %s not loaded[-]\n\n",
			ui.Tag(tv.theme.DimColor), th.Key.ParentTs, th.Key.ParentUserID)
	}
	if len(th.Replies) == 0 {
		fmt.Fprintf(&b, "  [%s]no replies[-]\n", ui.Tag(tv.theme.DimColor))
	}
	for _, r := range th.Replies {
		tv.writeMessage(&b, r, "  ")
	}
	return b.String()
}

func (tv *ThreadView) writeMessage(b *strings.Builder, m *vaultv1.Message, indent string) {
	fmt.Fprintf(b, "%s[%s::b]%s[-:-:-] [%s]%s[-]\n%s%s\n\n",
		indent,
		ui.Tag(tv.theme.AuthorColor), tview.Escape(sanitizeForTerminal(authorName(m))),
		ui.Tag(tv.theme.DimColor), tview.Escape(messageTime(m)),
		indent, tview.Escape(sanitizeForTerminal(slackText(m.Text))))
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
