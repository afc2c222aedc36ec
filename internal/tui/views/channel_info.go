package views

import (
	"fmt"

	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/tui/ui"
	"github.com/rivo/tview"
)

// ChannelInfo displays a channel's metadata.
type ChannelInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewChannelInfo creates a new channel info view.
func NewChannelInfo(theme *ui.Theme) *ChannelInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Channel Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &ChannelInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (ci *ChannelInfo) Name() string { return "Details" }

// FocusTarget implements Component.
func (ci *ChannelInfo) FocusTarget() tview.Primitive { return ci.TextView }

// Hints implements Component.
func (ci *ChannelInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
	}
}

// Update renders c. since is the channel's watermark, if known.
func (ci *ChannelInfo) Update(c *vaultv1.Channel, since string) {
	ci.Clear()
	if c == nil {
		return
	}
	kc := ui.Tag(ci.theme.MenuKeyColor)
	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		_, _ = fmt.Fprintf(ci, "  [%s::b]%-9s[-:-:-] %s\n", kc, label, tview.Escape(displayText(value)))
	}

	_, _ = fmt.Fprintln(ci)
	field("Name", "#"+c.Name)
	field("ID", c.ID)
	field("Topic", c.Topic)
	field("Purpose", c.Purpose)
	field("Since", since)
}
