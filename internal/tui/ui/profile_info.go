package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rivo/tview"
)

// ProfileData holds daemon and archive information for the header.
type ProfileData struct {
	Profile  string
	State    string
	Reason   string
	Backend  string
	Channels int64
	Users    int64
	Messages int64
	Replies  int64
	Newest   time.Time
	Uptime   time.Duration
}

// ProfileInfo displays profile metadata in the header.
type ProfileInfo struct {
	*tview.TextView
	theme *Theme
}

// NewProfileInfo creates a new profile info panel.
func NewProfileInfo(theme *Theme) *ProfileInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &ProfileInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the profile info.
func (pi *ProfileInfo) Update(data *ProfileData) {
	pi.Clear()
	if data == nil {
		return
	}
	_, _ = fmt.Fprint(pi, pi.format(data))
}

func (pi *ProfileInfo) format(data *ProfileData) string {
	fg := colorName(pi.theme.FgColor)
	ct := colorName(pi.theme.CounterColor)
	st := colorName(pi.theme.StateColor(data.State))

	newest := "-"
	if !data.Newest.IsZero() {
		newest = humanize.Time(data.Newest)
	}
	state := data.State
	if data.Reason != "" && data.State != "READY" {
		state += " (" + data.Reason + ")"
	}

	return fmt.Sprintf(
		"[%s::b]Profile:[-:-:-]  [%s]%s[-] [%s](%s)[-]\n"+
			"[%s::b]State:[-:-:-]    [%s]%s[-]\n"+
			"[%s::b]Channels:[-:-:-] [%s]%s[-]\n"+
			"[%s::b]Users:[-:-:-]    [%s]%s[-]\n"+
			"[%s::b]Msgs:[-:-:-]     [%s]%s[-] + [%s]%s[-] replies\n"+
			"[%s::b]Newest:[-:-:-]   [%s]%s[-]  [%s::b]Up:[-:-:-] [%s]%s[-]",
		fg, ct, data.Profile, fg, data.Backend,
		fg, st, tview.Escape(state),
		fg, ct, humanize.Comma(data.Channels),
		fg, ct, humanize.Comma(data.Users),
		fg, ct, humanize.Comma(data.Messages), ct, humanize.Comma(data.Replies),
		fg, ct, newest, fg, ct, formatDuration(data.Uptime),
	)
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h >= 24 {
		return fmt.Sprintf("%dd%dh", h/24, h%24)
	}
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
