package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/timestamp"
	"github.com/matheus3301/slackvault/internal/tui/client"
	"github.com/matheus3301/slackvault/internal/tui/keys"
	"github.com/matheus3301/slackvault/internal/tui/model"
	"github.com/matheus3301/slackvault/internal/tui/ui"
	"github.com/matheus3301/slackvault/internal/tui/views"
	"github.com/rivo/tview"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Page ids.
const (
	pageChannels = "channels"
	pageHistory  = "history"
	pageThread   = "thread"
	pageSearch   = "search"
	pageInfo     = "info"
	pageHelp     = "help"
)

const (
	headerHeight    = 7
	requestTimeout  = 10 * time.Second
	statusInterval  = 10 * time.Second
	flashInterval   = time.Second
	watchRetryDelay = 2 * time.Second
)

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	theme    *ui.Theme
	vm       *model.ViewModel
	client   *client.Client
	profile  string
	registry *keys.Registry
	flash    *ui.FlashModel

	root        *tview.Flex
	profileInfo *ui.ProfileInfo
	menu        *ui.Menu
	logo        *ui.Logo
	crumbs      *ui.Crumbs
	flashBar    *ui.FlashBar
	prompt      *ui.Prompt
	pages       *ui.Pages
	promptShown bool

	channels *views.ChannelList
	history  *views.HistoryView
	thread   *views.ThreadView
	search   *views.SearchView
	info     *views.ChannelInfo
	help     *views.HelpView

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(c *client.Client, profile string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()
	vm := model.NewViewModel(c)

	a := &App{
		app:         tview.NewApplication(),
		theme:       theme,
		vm:          vm,
		client:      c,
		profile:     profile,
		registry:    keys.NewRegistry(),
		flash:       ui.NewFlashModel(),
		profileInfo: ui.NewProfileInfo(theme),
		menu:        ui.NewMenu(theme),
		logo:        ui.NewLogo(theme),
		crumbs:      ui.NewCrumbs(theme),
		flashBar:    ui.NewFlashBar(theme),
		prompt:      ui.NewPrompt(theme),
		pages:       ui.NewPages(),
		channels:    views.NewChannelList(theme),
		history:     views.NewHistoryView(theme),
		thread:      views.NewThreadView(theme),
		search:      views.NewSearchView(theme, channelName(vm)),
		info:        views.NewChannelInfo(theme),
		help:        views.NewHelpView(theme),
		ctx:         ctx,
		cancel:      cancel,
	}

	a.profileInfo.Update(&ui.ProfileData{Profile: profile, State: "CONNECTING"})
	a.setupPages()
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	a.pages.Reset(pageChannels)

	return a
}

func channelName(vm *model.ViewModel) func(string) string {
	return func(id string) string {
		if c := vm.ChannelByID(id); c != nil {
			return c.Name
		}
		return ""
	}
}

func (a *App) setupPages() {
	a.pages.Register(pageChannels, a.channels)
	a.pages.Register(pageHistory, a.history)
	a.pages.Register(pageThread, a.thread)
	a.pages.Register(pageSearch, a.search)
	a.pages.Register(pageInfo, a.info)
	a.pages.Register(pageHelp, a.help)

	a.pages.SetOnChange(func(top ui.Component, titles []string) {
		a.crumbs.Update(titles)
		if top == nil {
			return
		}
		a.menu.Update(top.Hints())
		a.app.SetFocus(top.FocusTarget())
	})
}

func (a *App) setupBindings() {
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: 'q', Description: "Quit / Back",
		Handler: func() {
			if a.pages.Depth() > 1 {
				a.back()
				return
			}
			a.Stop()
		},
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: '?', Description: "Help",
		Handler: func() { a.pages.Push(pageHelp) },
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: ':', Description: "Command",
		Handler: func() { a.showPrompt(ui.PromptCommand, "") },
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: 's', Description: "Search",
		Handler: func() { a.showPrompt(ui.PromptCommand, "search "+a.searchPrefill()) },
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyEscape, Description: "Back",
		Handler: a.back,
	})

	a.registry.AddView(pageChannels, &keys.Action{
		Key: tcell.KeyRune, Rune: '/', Description: "Filter",
		Handler: func() { a.showPrompt(ui.PromptFilter, a.channels.Filter()) },
	})
	a.registry.AddView(pageChannels, &keys.Action{
		Key: tcell.KeyRune, Rune: 'i', Description: "Info",
		Handler: func() { a.showInfo(a.channels.Selected()) },
	})
	for n := 1; n <= 9; n++ {
		a.registry.AddView(pageChannels, &keys.Action{
			Key: tcell.KeyRune, Rune: rune('0' + n), Description: "Jump",
			Handler: func() {
				if c := a.channels.ChannelByIndex(n); c != nil {
					a.openChannel(c.Name)
				}
			},
		})
	}

	a.registry.AddView(pageHistory, &keys.Action{
		Key: tcell.KeyRune, Rune: 'n', Description: "Load more",
		Handler: a.loadMore,
	})
	a.registry.AddView(pageHistory, &keys.Action{
		Key: tcell.KeyRune, Rune: 'i', Description: "Info",
		Handler: func() {
			if h := a.vm.History(); h != nil {
				a.showInfo(h.Channel)
			}
		},
	})
}

func (a *App) setupCallbacks() {
	a.channels.SetSelectedFunc(func(row, _ int) {
		if c := a.channels.ChannelByIndex(row); c != nil {
			a.openChannel(c.Name)
		}
	})
	a.history.SetSelectedFunc(func(int, int) {
		if pm := a.history.Selected(); pm != nil {
			a.openThread(pm.Message)
		}
	})
	a.search.SetSelectedFunc(func(int, int) {
		if m := a.search.Selected(); m != nil {
			a.openThread(m)
		}
	})

	a.prompt.SetOnChange(func(mode ui.PromptMode, text string) {
		if mode == ui.PromptFilter {
			a.channels.SetFilter(text)
		}
	})
	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		if mode == ui.PromptCommand {
			a.runCommand(ParseCommand(text))
		}
	})
	a.prompt.SetOnCancel(func() {
		if a.prompt.Mode() == ui.PromptFilter {
			a.channels.ClearFilter()
		}
		a.hidePrompt()
	})
}

func (a *App) setupLayout() {
	a.root = tview.NewFlex().SetDirection(tview.FlexRow)
	a.root.SetBackgroundColor(a.theme.BgColor)
	a.layout()
	a.app.SetRoot(a.root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// The prompt handles its own keys, including Esc and Enter.
		if a.promptShown {
			return event
		}
		if a.registry.HandleEvent(a.pages.Current(), event) {
			return nil
		}
		return event
	})
}

// layout rebuilds the root flex; the prompt row is only present while
// the prompt is shown.
func (a *App) layout() {
	header := tview.NewFlex().
		AddItem(a.profileInfo, 0, 2, false).
		AddItem(a.menu, 0, 3, false).
		AddItem(a.logo, 30, 0, false)

	a.root.Clear()
	a.root.AddItem(header, headerHeight, 0, false)
	if a.promptShown {
		a.root.AddItem(a.prompt, 3, 0, false)
	}
	a.root.AddItem(a.pages, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false)
}

func (a *App) showPrompt(mode ui.PromptMode, prefill string) {
	if mode == ui.PromptFilter && a.pages.Current() != pageChannels {
		return
	}
	a.prompt.Activate(mode, prefill)
	a.promptShown = true
	a.layout()
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.promptShown = false
	a.layout()
	if top := a.pages.Top(); top != nil {
		a.app.SetFocus(top.FocusTarget())
	}
}

// searchPrefill scopes a new search to the channel being read.
func (a *App) searchPrefill() string {
	switch a.pages.Current() {
	case pageHistory, pageThread:
		if h := a.vm.History(); h != nil && h.Channel != nil {
			return "in:#" + h.Channel.Name + " "
		}
	case pageSearch:
		if st := a.vm.LastSearch(); st != nil {
			return st.Filter.String()
		}
	}
	return ""
}

func (a *App) back() {
	if a.pages.Current() == pageChannels && a.channels.Filter() != "" {
		a.channels.ClearFilter()
		return
	}
	a.pages.Pop()
}

func (a *App) runCommand(cmd Command) {
	switch cmd.Name {
	case "":
	case "quit":
		a.Stop()
	case "help":
		a.pages.Push(pageHelp)
	case "status":
		go a.refreshStatus()
	case "channel":
		if cmd.Args == "" {
			a.pages.Reset(pageChannels)
			return
		}
		a.openChannel(cmd.Args)
	case "search":
		if cmd.Args == "" {
			a.showPrompt(ui.PromptCommand, "search ")
			return
		}
		a.runSearch(cmd.Args)
	default:
		a.setFlash(func() { a.flash.Warn(fmt.Sprintf("unknown command %q", cmd.Name)) })
	}
}

// do runs fn off the UI goroutine with a request timeout and applies
// the result with QueueUpdateDraw. Errors go to the flash bar.
func (a *App) do(doing string, fn func(ctx context.Context) (func(), error)) {
	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, requestTimeout)
		defer cancel()
		apply, err := fn(ctx)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.flash.Err(doing, err)
				a.flashBar.Update(a.flash.Current())
				return
			}
			if apply != nil {
				apply()
			}
			a.flashBar.Update(a.flash.Current())
		})
	}()
}

func (a *App) setFlash(fn func()) {
	fn()
	a.flashBar.Update(a.flash.Current())
}

func (a *App) openChannel(name string) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "#")
	a.do("open #"+name, func(ctx context.Context) (func(), error) {
		h, err := a.vm.OpenChannel(ctx, name)
		if err != nil {
			return nil, err
		}
		return func() {
			a.history.Update(h)
			a.pages.Reset(pageChannels)
			a.pages.Push(pageHistory)
			if len(h.Messages) == 0 {
				a.flash.Info("no messages in #" + name)
			}
		}, nil
	})
}

func (a *App) loadMore() {
	h := a.vm.History()
	if !h.More() {
		a.setFlash(func() { a.flash.Info("no older messages") })
		return
	}
	a.do("load more", func(ctx context.Context) (func(), error) {
		n, err := a.vm.LoadMore(ctx)
		if err != nil {
			return nil, err
		}
		return func() {
			a.history.Update(a.vm.History())
			a.pages.Refresh()
			a.flash.Info(fmt.Sprintf("loaded %d more", n))
		}, nil
	})
}

func (a *App) openThread(m *vaultv1.Message) {
	a.do("open thread", func(ctx context.Context) (func(), error) {
		th, err := a.vm.OpenThread(ctx, m)
		if err != nil {
			return nil, err
		}
		return func() {
			a.thread.Update(th)
			a.pages.Push(pageThread)
		}, nil
	})
}

func (a *App) runSearch(input string) {
	a.do("search", func(ctx context.Context) (func(), error) {
		st, err := a.vm.Search(ctx, input)
		if err != nil {
			return nil, err
		}
		return func() {
			a.search.Update(st)
			a.pages.Push(pageSearch)
			if len(st.Results) == 0 {
				a.flash.Info("no matches")
			}
		}, nil
	})
}

func (a *App) showInfo(c *vaultv1.Channel) {
	if c == nil {
		return
	}
	since := ""
	if h := a.vm.History(); h != nil && h.Channel != nil && h.Channel.ID == c.ID {
		since = h.Since
	}
	a.info.Update(c, since)
	a.pages.Push(pageInfo)
}

func (a *App) loadChannels() {
	a.do("list channels", func(ctx context.Context) (func(), error) {
		chans, err := a.vm.LoadChannels(ctx)
		if err != nil {
			return nil, err
		}
		return func() { a.channels.Update(chans) }, nil
	})
}

func (a *App) refreshStatus() {
	ctx, cancel := context.WithTimeout(a.ctx, requestTimeout)
	defer cancel()
	st, err := a.vm.LoadStatus(ctx)
	a.app.QueueUpdateDraw(func() {
		if err != nil {
			a.profileInfo.Update(&ui.ProfileData{Profile: a.profile, State: "UNREACHABLE", Reason: status.Convert(err).Message()})
			return
		}
		a.profileInfo.Update(profileData(st))
	})
}

func profileData(st *vaultv1.GetStatusResponse) *ui.ProfileData {
	d := &ui.ProfileData{
		Profile:  st.Profile,
		State:    st.State,
		Reason:   st.Reason,
		Backend:  st.Backend,
		Channels: st.Channels,
		Users:    st.Users,
		Messages: st.TopLevelMessages,
		Replies:  st.Replies,
		Uptime:   time.Duration(st.UptimeMs) * time.Millisecond,
	}
	if st.NewestMessageTs != "" {
		if t, err := timestamp.Parse(st.NewestMessageTs); err == nil {
			d.Newest = t
		}
	}
	return d
}

// watchStatus follows daemon state changes, reconnecting while the app
// runs. Reaching READY reloads the channel list.
func (a *App) watchStatus() {
	for a.ctx.Err() == nil {
		err := a.followStatus()
		if a.ctx.Err() != nil {
			return
		}
		if err != nil && status.Code(err) != codes.Canceled {
			a.app.QueueUpdateDraw(func() { a.setFlash(func() { a.flash.Warn("status stream lost, retrying") }) })
		}
		select {
		case <-time.After(watchRetryDelay):
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *App) followStatus() error {
	stream, err := a.client.Status.WatchStatus(a.ctx, &vaultv1.WatchStatusRequest{})
	if err != nil {
		return err
	}
	for {
		ev, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("daemon %s → %s", ev.From, ev.To)
		if ev.Reason != "" {
			msg += ": " + ev.Reason
		}
		a.app.QueueUpdateDraw(func() { a.setFlash(func() { a.flash.Info(msg) }) })
		go a.refreshStatus()
		if ev.To == "READY" {
			a.loadChannels()
		}
	}
}

func (a *App) startRefreshLoop() {
	statusTicker := time.NewTicker(statusInterval)
	flashTicker := time.NewTicker(flashInterval)
	go func() {
		defer statusTicker.Stop()
		defer flashTicker.Stop()
		for {
			select {
			case <-statusTicker.C:
				a.refreshStatus()
			case <-flashTicker.C:
				a.app.QueueUpdateDraw(func() { a.flashBar.Update(a.flash.Current()) })
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// Run starts the TUI application.
func (a *App) Run() error {
	go func() {
		a.refreshStatus()
		a.loadChannels()
		a.startRefreshLoop()
		a.watchStatus()
	}()

	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
