package views

import (
	"fmt"

	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/tui/model"
	"github.com/matheus3301/slackvault/internal/tui/ui"
	"github.com/rivo/tview"
)

// HistoryView lists a channel's top-level messages oldest first.
type HistoryView struct {
	*tview.Table
	theme   *ui.Theme
	history *model.History
}

// NewHistoryView creates a new channel history view.
func NewHistoryView(theme *ui.Theme) *HistoryView {
	return &HistoryView{
		Table: newTable(theme, " History "),
		theme: theme,
	}
}

// Name implements Component.
func (hv *HistoryView) Name() string {
	if hv.history != nil && hv.history.Channel != nil {
		return "#" + hv.history.Channel.Name
	}
	return "History"
}

// FocusTarget implements Component.
func (hv *HistoryView) FocusTarget() tview.Primitive { return hv.Table }

// Hints implements Component.
func (hv *HistoryView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Thread"},
		{Key: "n", Description: "Load more"},
		{Key: "i", Description: "Info"},
		{Key: "s", Description: "Search here"},
		{Key: "Esc", Description: "Back"},
		{Key: "?", Description: "Help"},
	}
}

// Update renders h. The cursor stays on the same row when more messages
// were appended.
func (hv *HistoryView) Update(h *model.History) {
	row, _ := hv.GetSelection()
	same := hv.history != nil && h != nil && hv.history.Channel.ID == h.Channel.ID
	hv.history = h
	hv.render()
	if same && row > 0 {
		hv.Select(row, 0)
	} else {
		hv.Select(1, 0)
		hv.ScrollToBeginning()
	}
}

func (hv *HistoryView) render() {
	hv.Clear()
	setHeader(hv.Table, hv.theme, []column{
		{" TIME", 0},
		{" AUTHOR", 0},
		{" TEXT", 1},
		{" REPLIES", 0},
	})
	h := hv.history
	if h == nil {
		return
	}

	for i, pm := range h.Messages {
		m := pm.Message
		row := i + 1
		hv.SetCell(row, 0, textCell(messageTime(m), hv.theme.DimColor))
		hv.SetCell(row, 1, textCell(authorName(m), hv.theme.AuthorColor).SetMaxWidth(24))
		hv.SetCell(row, 2, textCell(displayText(m.Text), hv.theme.FgColor).SetExpansion(1))
		replies := ""
		if pm.ReplyCount > 0 {
			replies = fmt.Sprintf("%d ↳", pm.ReplyCount)
		}
		hv.SetCell(row, 3, tview.NewTableCell(replies+" ").
			SetTextColor(hv.theme.ReplyBadgeColor).
			SetAlign(tview.AlignRight))
	}
	if h.More() {
		hv.SetCell(len(h.Messages)+1, 2, textCell("… press n for older messages", hv.theme.DimColor).SetSelectable(false))
	}

	title := fmt.Sprintf(" %s (%d", hv.Name(), len(h.Messages))
	if h.More() {
		title += "+"
	}
	title += ") "
	if h.Since != "" {
		title += fmt.Sprintf("since %s ", h.Since)
	}
	hv.SetTitle(tview.Escape(title))
}

// Selected returns the message under the cursor, or nil.
func (hv *HistoryView) Selected() *vaultv1.ParentMessage {
	if hv.history == nil {
		return nil
	}
	row, _ := hv.GetSelection()
	if row < 1 || row > len(hv.history.Messages) {
		return nil
	}
	return hv.history.Messages[row-1]
}
