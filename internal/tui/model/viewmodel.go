package model

import (
	"context"
	"strings"
	"sync"

	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/tui/client"
)

// DefaultPageSize is how many top-level messages one "load more" fetches.
const DefaultPageSize = 50

// History is the loaded part of one channel's top-level messages.
type History struct {
	Channel    *vaultv1.Channel
	Messages   []*vaultv1.ParentMessage
	NextCursor string
	Since      string
}

// More reports whether another page may exist.
func (h *History) More() bool {
	return h != nil && h.NextCursor != ""
}

// Thread is an expanded thread. Parent is nil when the thread was opened
// from a reply whose parent is not loaded.
type Thread struct {
	Key     ThreadKey
	Parent  *vaultv1.Message
	Replies []*vaultv1.Message
}

// ThreadKey identifies a thread by its parent's channel, ts and author.
type ThreadKey struct {
	ChannelID    string
	ParentTs     string
	ParentUserID string
}

// KeyOf returns the thread m belongs to: its own for a top-level message,
// its parent's for a reply.
func KeyOf(m *vaultv1.Message) ThreadKey {
	if m.ParentUserID != "" {
		return ThreadKey{ChannelID: m.ChannelID, ParentTs: m.ThreadTs, ParentUserID: m.ParentUserID}
	}
	return ThreadKey{ChannelID: m.ChannelID, ParentTs: m.Ts, ParentUserID: m.UserID}
}

// ViewModel caches what the views display and fetches it from the daemon.
type ViewModel struct {
	mu sync.RWMutex

	client   *client.Client
	pageSize int32
	status   *vaultv1.GetStatusResponse
	channels []*vaultv1.Channel
	history  *History
	thread   *Thread
	search   *SearchState
}

// NewViewModel creates a new view model connected to the daemon client.
func NewViewModel(c *client.Client) *ViewModel {
	return &ViewModel{client: c, pageSize: DefaultPageSize}
}

// LoadStatus fetches daemon status and archive counts.
func (vm *ViewModel) LoadStatus(ctx context.Context) (*vaultv1.GetStatusResponse, error) {
	resp, err := vm.client.Status.GetStatus(ctx, &vaultv1.GetStatusRequest{})
	if err != nil {
		return nil, err
	}
	vm.mu.Lock()
	vm.status = resp
	vm.mu.Unlock()
	return resp, nil
}

// LoadChannels fetches the channel list.
func (vm *ViewModel) LoadChannels(ctx context.Context) ([]*vaultv1.Channel, error) {
	resp, err := vm.client.Archive.ListChannels(ctx, &vaultv1.ListChannelsRequest{})
	if err != nil {
		return nil, err
	}
	vm.mu.Lock()
	vm.channels = resp.Channels
	vm.mu.Unlock()
	return resp.Channels, nil
}

// ChannelByName finds a loaded channel, ignoring a leading '#'.
func (vm *ViewModel) ChannelByName(name string) *vaultv1.Channel {
	name = strings.TrimPrefix(name, "#")
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	for _, c := range vm.channels {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChannelByID finds a loaded channel by ID.
func (vm *ViewModel) ChannelByID(id string) *vaultv1.Channel {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	for _, c := range vm.channels {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// OpenChannel loads the first page of channel name, replacing the history.
func (vm *ViewModel) OpenChannel(ctx context.Context, name string) (*History, error) {
	resp, err := vm.client.Archive.FetchPage(ctx, &vaultv1.FetchPageRequest{
		Channel:    strings.TrimPrefix(name, "#"),
		PageSize:   vm.pageSize,
		HumanTimes: true,
	})
	if err != nil {
		return nil, err
	}
	h := &History{
		Channel:    resp.Channel,
		Messages:   resp.Messages,
		NextCursor: resp.NextCursor,
		Since:      resp.Since,
	}
	vm.mu.Lock()
	vm.history = h
	vm.mu.Unlock()
	return h, nil
}

// LoadMore appends the next page to the current history and returns how
// many messages it added.
func (vm *ViewModel) LoadMore(ctx context.Context) (int, error) {
	vm.mu.RLock()
	h := vm.history
	vm.mu.RUnlock()
	if !h.More() {
		return 0, nil
	}

	resp, err := vm.client.Archive.FetchPage(ctx, &vaultv1.FetchPageRequest{
		Channel:    h.Channel.Name,
		Cursor:     h.NextCursor,
		PageSize:   vm.pageSize,
		HumanTimes: true,
	})
	if err != nil {
		return 0, err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.history != h {
		// The user switched channels meanwhile.
		return 0, nil
	}
	next := *h
	next.Messages = append(append([]*vaultv1.ParentMessage(nil), h.Messages...), resp.Messages...)
	next.NextCursor = resp.NextCursor
	vm.history = &next
	return len(resp.Messages), nil
}

// History returns the current channel history, or nil.
func (vm *ViewModel) History() *History {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.history
}

// OpenThread loads the thread m belongs to.
func (vm *ViewModel) OpenThread(ctx context.Context, m *vaultv1.Message) (*Thread, error) {
	key := KeyOf(m)
	resp, err := vm.client.Archive.FetchReplies(ctx, &vaultv1.FetchRepliesRequest{
		ChannelID:    key.ChannelID,
		ParentTs:     key.ParentTs,
		ParentUserID: key.ParentUserID,
		HumanTimes:   true,
	})
	if err != nil {
		return nil, err
	}
	th := &Thread{Key: key, Replies: resp.Replies}
	if m.ParentUserID == "" {
		th.Parent = m
	} else {
		th.Parent = vm.findParent(key)
	}
	vm.mu.Lock()
	vm.thread = th
	vm.mu.Unlock()
	return th, nil
}

// findParent looks for the thread parent among the loaded history.
func (vm *ViewModel) findParent(key ThreadKey) *vaultv1.Message {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if vm.history == nil {
		return nil
	}
	for _, pm := range vm.history.Messages {
		if KeyOf(pm.Message) == key {
			return pm.Message
		}
	}
	return nil
}

// Thread returns the current thread, or nil.
func (vm *ViewModel) Thread() *Thread {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.thread
}

// Status returns the last loaded status, or nil.
func (vm *ViewModel) Status() *vaultv1.GetStatusResponse {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.status
}
