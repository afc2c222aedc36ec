package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/slackvault/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// FocusTarget implements Component.
func (hv *HelpView) FocusTarget() tview.Primitive { return hv.TextView }

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

type helpSection struct {
	title string
	keys  [][2]string
}

var helpSections = []helpSection{
	{"Global Keys", [][2]string{
		{":", "Command mode"},
		{"s", "Search"},
		{"Esc", "Cancel / Go back"},
		{"?", "Help"},
		{"q", "Quit / Back"},
		{"Ctrl-C", "Quit immediately"},
	}},
	{"Channels", [][2]string{
		{"Enter", "Open channel"},
		{"i", "Channel details"},
		{"/", "Filter by name or topic"},
		{"1-9", "Jump to Nth channel"},
		{"j/k", "Move down / up"},
	}},
	{"History", [][2]string{
		{"Enter", "Open thread"},
		{"n", "Load older messages"},
		{"s", "Search in this channel"},
	}},
	{"Search syntax", [][2]string{
		{`"a b"`, "Phrase"},
		{"a or b", "Either term"},
		{"-a", "Exclude term"},
		{"in:#name", "Only this channel"},
		{"from:@U123", "Only this user ID"},
	}},
	{"Commands (: mode)", [][2]string{
		{":channel <name>", "Open channel by name"},
		{":search <query>", "Search messages"},
		{":status", "Refresh daemon status"},
		{":help / :h", "Show this help"},
		{":quit / :q", "Quit application"},
	}},
}

func (hv *HelpView) render() {
	kc := ui.Tag(hv.theme.MenuKeyColor)

	var b strings.Builder
	for _, s := range helpSections {
		fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", s.title)
		for _, k := range s.keys {
			fmt.Fprintf(&b, "  [%s]%-16s[-:-:-] %s\n", kc, tview.Escape(k[0]), k[1])
		}
	}
	_, _ = fmt.Fprint(hv, b.String())
}
