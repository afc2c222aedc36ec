package views

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/tui/ui"
	"github.com/rivo/tview"
)

type column struct {
	text string
	exp  int
}

// newTable creates a bordered, row-selectable table with a fixed header.
func newTable(theme *ui.Theme, title string) *tview.Table {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(title)
	table.SetTitleColor(theme.TitleColor)
	return table
}

func setHeader(table *tview.Table, theme *ui.Theme, cols []column) {
	for col, h := range cols {
		table.SetCell(0, col, tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(theme.TableHeaderFg).
			SetBackgroundColor(theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp))
	}
}

func textCell(s string, color tcell.Color) *tview.TableCell {
	return tview.NewTableCell(" " + tview.Escape(s)).SetTextColor(color)
}

// authorName prefers the display name, then the real name, then the handle.
func authorName(m *vaultv1.Message) string {
	if u := m.User; u != nil {
		switch {
		case u.DisplayName != "":
			return u.DisplayName
		case u.RealName != "":
			return u.RealName
		case u.Name != "":
			return u.Name
		}
	}
	return m.UserID
}

func messageTime(m *vaultv1.Message) string {
	if m.DisplayTs != "" {
		return m.DisplayTs
	}
	return m.Ts
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
