package vaultv1

type Channel struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Topic   string `json:"topic,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RealName    string `json:"real_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Email       string `json:"email,omitempty"`
	Deleted     bool   `json:"deleted,omitempty"`
	IsBot       bool   `json:"is_bot,omitempty"`
}

// Message carries canonical timestamps ("YYYY-MM-DD HH:MM:SS.ffffff", UTC)
// usable as cursors. DisplayTs is only set when the request asked for it.
type Message struct {
	ChannelID    string `json:"channel_id"`
	UserID       string `json:"user_id"`
	Text         string `json:"text"`
	Ts           string `json:"ts"`
	ThreadTs     string `json:"thread_ts,omitempty"`
	ParentUserID string `json:"parent_user_id,omitempty"`
	DisplayTs    string `json:"display_ts,omitempty"`
	User         *User  `json:"user,omitempty"`
}

type ParentMessage struct {
	Message    *Message `json:"message"`
	ReplyCount int32    `json:"reply_count"`
}

type SearchResult struct {
	Message *Message `json:"message"`
	Rank    float64  `json:"rank"`
}

type ListChannelsRequest struct{}

type ListChannelsResponse struct {
	Channels []*Channel `json:"channels"`
}

type GetChannelInfoRequest struct {
	Name string `json:"name"`
}

type GetChannelInfoResponse struct {
	Channel *Channel `json:"channel"`
}

type GetUserRequest struct {
	ID string `json:"id"`
}

type GetUserResponse struct {
	User *User `json:"user"`
}

type FetchPageRequest struct {
	Channel string `json:"channel"`
	// Cursor is the ts of the last message of the previous page.
	Cursor     string `json:"cursor,omitempty"`
	PageSize   int32  `json:"page_size,omitempty"`
	HumanTimes bool   `json:"human_times,omitempty"`
}

type FetchPageResponse struct {
	Channel    *Channel         `json:"channel"`
	Messages   []*ParentMessage `json:"messages"`
	NextCursor string           `json:"next_cursor,omitempty"`
	Since      string           `json:"since"`
}

type FetchRepliesRequest struct {
	ChannelID    string `json:"channel_id"`
	ParentTs     string `json:"parent_ts"`
	ParentUserID string `json:"parent_user_id"`
	HumanTimes   bool   `json:"human_times,omitempty"`
}

type FetchRepliesResponse struct {
	Replies []*Message `json:"replies"`
}

type SearchRequest struct {
	Query      string `json:"query"`
	ChannelID  string `json:"channel_id,omitempty"`
	UserID     string `json:"user_id,omitempty"`
	Limit      int32  `json:"limit,omitempty"`
	HumanTimes bool   `json:"human_times,omitempty"`
}

type SearchResponse struct {
	Results []*SearchResult `json:"results"`
	Mode    string          `json:"mode"`
}

type GetStatusRequest struct{}

type GetStatusResponse struct {
	Profile          string `json:"profile"`
	State            string `json:"state"`
	Reason           string `json:"reason,omitempty"`
	Backend          string `json:"backend"`
	UptimeMs         int64  `json:"uptime_ms"`
	StateSinceUnixMs int64  `json:"state_since_unix_ms"`
	Channels         int64  `json:"channels"`
	Users            int64  `json:"users"`
	TopLevelMessages int64  `json:"top_level_messages"`
	Replies          int64  `json:"replies"`
	NewestMessageTs  string `json:"newest_message_ts,omitempty"`
}

type WatchStatusRequest struct{}

type StatusEvent struct {
	EventID          string `json:"event_id"`
	Kind             string `json:"kind"`
	OccurredAtUnixMs int64  `json:"occurred_at_unix_ms"`
	From             string `json:"from"`
	To               string `json:"to"`
	Reason           string `json:"reason,omitempty"`
}
