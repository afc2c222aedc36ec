package views

import (
	"fmt"

	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/tui/model"
	"github.com/matheus3301/slackvault/internal/tui/ui"
	"github.com/rivo/tview"
)

// SearchView lists full-text search results, best rank first.
type SearchView struct {
	*tview.Table
	theme    *ui.Theme
	state    *model.SearchState
	channels func(id string) string
}

// NewSearchView creates a new search results view. channelName maps a
// channel ID to a display name.
func NewSearchView(theme *ui.Theme, channelName func(id string) string) *SearchView {
	return &SearchView{
		Table:    newTable(theme, " Search "),
		theme:    theme,
		channels: channelName,
	}
}

// Name implements Component.
func (sv *SearchView) Name() string { return "Search" }

// FocusTarget implements Component.
func (sv *SearchView) FocusTarget() tview.Primitive { return sv.Table }

// Hints implements Component.
func (sv *SearchView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Thread"},
		{Key: "s", Description: "New search"},
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
	}
}

// Update renders st.
func (sv *SearchView) Update(st *model.SearchState) {
	sv.state = st
	sv.Clear()
	setHeader(sv.Table, sv.theme, []column{
		{" CHANNEL", 0},
		{" AUTHOR", 0},
		{" TEXT", 1},
		{" TIME", 0},
		{" RANK", 0},
	})
	if st == nil {
		return
	}

	for i, r := range st.Results {
		m := r.Message
		row := i + 1
		sv.SetCell(row, 0, textCell(sv.channelName(m.ChannelID), sv.theme.FgColor).SetMaxWidth(20))
		sv.SetCell(row, 1, textCell(authorName(m), sv.theme.AuthorColor).SetMaxWidth(24))
		sv.SetCell(row, 2, textCell(displayText(m.Text), sv.theme.FgColor).SetExpansion(1))
		sv.SetCell(row, 3, textCell(messageTime(m), sv.theme.DimColor))
		sv.SetCell(row, 4, tview.NewTableCell(fmt.Sprintf("%.3f ", r.Rank)).
			SetTextColor(sv.theme.CounterColor).
			SetAlign(tview.AlignRight))
	}

	sv.SetTitle(tview.Escape(fmt.Sprintf(" Search %q (%d) ", st.Filter.String(), len(st.Results))))
	sv.Select(1, 0)
	sv.ScrollToBeginning()
}

func (sv *SearchView) channelName(id string) string {
	if sv.channels != nil {
		if name := sv.channels(id); name != "" {
			return "#" + name
		}
	}
	return id
}

// Selected returns the result message under the cursor, or nil.
func (sv *SearchView) Selected() *vaultv1.Message {
	if sv.state == nil {
		return nil
	}
	row, _ := sv.GetSelection()
	if row < 1 || row > len(sv.state.Results) {
		return nil
	}
	return sv.state.Results[row-1].Message
}
