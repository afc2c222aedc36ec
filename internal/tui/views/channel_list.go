package views

import (
	"fmt"

	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/tui/ui"
	"github.com/rivo/tview"
)

// ChannelList is the root view listing archived channels.
type ChannelList struct {
	*tview.Table
	theme    *ui.Theme
	channels []*vaultv1.Channel
	visible  []*vaultv1.Channel
	filter   string
}

// NewChannelList creates a new channel list table.
func NewChannelList(theme *ui.Theme) *ChannelList {
	cl := &ChannelList{
		Table: newTable(theme, " Channels "),
		theme: theme,
	}
	cl.render()
	return cl
}

// Name implements Component.
func (cl *ChannelList) Name() string { return "Channels" }

// FocusTarget implements Component.
func (cl *ChannelList) FocusTarget() tview.Primitive { return cl.Table }

// Hints implements Component.
func (cl *ChannelList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "i", Description: "Info"},
		{Key: "/", Description: "Filter"},
		{Key: "s", Description: "Search"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
		{Key: "q", Description: "Quit"},
		{Key: "1-9", Description: "Jump", Numeric: true},
	}
}

// Update replaces the channel list, keeping the filter.
func (cl *ChannelList) Update(channels []*vaultv1.Channel) {
	cl.channels = channels
	cl.render()
}

// SetFilter sets the active filter text and re-renders.
func (cl *ChannelList) SetFilter(filter string) {
	cl.filter = filter
	cl.render()
	cl.Select(1, 0)
}

// ClearFilter clears the active filter.
func (cl *ChannelList) ClearFilter() {
	cl.SetFilter("")
}

// Filter returns the active filter.
func (cl *ChannelList) Filter() string { return cl.filter }

func (cl *ChannelList) matches(c *vaultv1.Channel) bool {
	return cl.filter == "" || containsFold(c.Name, cl.filter) || containsFold(c.Topic, cl.filter)
}

func (cl *ChannelList) render() {
	cl.Clear()
	setHeader(cl.Table, cl.theme, []column{
		{" #", 0},
		{" NAME", 1},
		{" TOPIC", 3},
		{" ID", 0},
	})

	cl.visible = cl.visible[:0]
	for _, c := range cl.channels {
		if !cl.matches(c) {
			continue
		}
		cl.visible = append(cl.visible, c)
		row := len(cl.visible)
		cl.SetCell(row, 0, tview.NewTableCell(fmt.Sprintf(" %d", row)).SetTextColor(cl.theme.NumericKeyColor))
		cl.SetCell(row, 1, textCell("#"+c.Name, cl.theme.FgColor).SetExpansion(1))
		cl.SetCell(row, 2, textCell(displayText(c.Topic), cl.theme.FgColor).SetExpansion(3).SetMaxWidth(80))
		cl.SetCell(row, 3, textCell(c.ID, cl.theme.DimColor))
	}

	if cl.filter != "" {
		cl.SetTitle(fmt.Sprintf(" Channels (%d/%d) filter: %s ", len(cl.visible), len(cl.channels), tview.Escape(cl.filter)))
	} else {
		cl.SetTitle(fmt.Sprintf(" Channels (%d) ", len(cl.channels)))
	}
}

// Selected returns the channel under the cursor, or nil.
func (cl *ChannelList) Selected() *vaultv1.Channel {
	row, _ := cl.GetSelection()
	return cl.ChannelByIndex(row)
}

// ChannelByIndex returns the Nth visible channel (1-based), or nil.
func (cl *ChannelList) ChannelByIndex(n int) *vaultv1.Channel {
	if n < 1 || n > len(cl.visible) {
		return nil
	}
	return cl.visible[n-1]
}
