package ui

import (
	"slices"

	"github.com/rivo/tview"
)

// Pages is a stack of Components over tview.Pages. Each component is
// registered once under an id and may appear at most once on the stack.
type Pages struct {
	*tview.Pages
	components map[string]Component
	stack      []string
	onChange   func(top Component, titles []string)
}

// NewPages creates a new stack-based page manager.
func NewPages() *Pages {
	return &Pages{
		Pages:      tview.NewPages(),
		components: make(map[string]Component),
	}
}

// Register adds c under id, hidden.
func (p *Pages) Register(id string, c Component) {
	p.components[id] = c
	p.AddPage(id, c, true, false)
}

// SetOnChange sets a callback that fires when the stack changes.
func (p *Pages) SetOnChange(fn func(top Component, titles []string)) {
	p.onChange = fn
}

// Push shows id on top of the stack. A page already on the stack is moved
// back to the top, dropping everything above it.
func (p *Pages) Push(id string) {
	if _, ok := p.components[id]; !ok {
		return
	}
	if i := slices.Index(p.stack, id); i >= 0 {
		p.truncate(i + 1)
	} else {
		if top := p.Current(); top != "" {
			p.HidePage(top)
		}
		p.stack = append(p.stack, id)
	}
	p.show(id)
}

// Pop removes the top page and shows the previous one. The root page is
// never popped. Returns the id of the popped page, or empty.
func (p *Pages) Pop() string {
	if len(p.stack) <= 1 {
		return ""
	}
	top := p.stack[len(p.stack)-1]
	p.truncate(len(p.stack) - 1)
	p.show(p.Current())
	return top
}

// Reset clears the stack and shows only id.
func (p *Pages) Reset(id string) {
	p.truncate(0)
	p.stack = []string{id}
	p.show(id)
}

// Current returns the id of the top page.
func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

// Top returns the component on top of the stack, or nil.
func (p *Pages) Top() Component {
	return p.components[p.Current()]
}

// Depth returns the current stack depth.
func (p *Pages) Depth() int {
	return len(p.stack)
}

// Refresh re-runs the change callback, e.g. after a component renamed itself.
func (p *Pages) Refresh() {
	p.notify()
}

func (p *Pages) truncate(n int) {
	for _, id := range p.stack[n:] {
		p.HidePage(id)
	}
	p.stack = p.stack[:n]
}

func (p *Pages) show(id string) {
	p.ShowPage(id)
	p.SendToFront(id)
	p.notify()
}

func (p *Pages) notify() {
	if p.onChange == nil {
		return
	}
	titles := make([]string, 0, len(p.stack))
	for _, id := range p.stack {
		titles = append(titles, p.components[id].Name())
	}
	p.onChange(p.Top(), titles)
}
