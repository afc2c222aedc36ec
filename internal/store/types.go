package store

import "time"

// Channel is an archived Slack channel.
type Channel struct {
	ID      string
	Name    string
	Topic   string
	Purpose string
}

// User is an archived workspace member or bot.
type User struct {
	ID          string
	Name        string
	RealName    string
	DisplayName string
	ImageURL    string
	Email       string
	Deleted     bool
	IsBot       bool
}

// Message is a raw archived message row.
//
// A message is top-level when ParentUserID is empty. A reply points at its
// parent through (ThreadTS, ParentUserID), which must equal the parent's
// (TS, UserID). The store does not enforce this; the read path trusts it.
type Message struct {
	ChannelID    string
	UserID       string
	Text         string
	TS           time.Time
	ThreadTS     time.Time // zero when the message is not part of a thread
	ParentUserID string
}

// IsReply reports whether m replies to another message.
func (m *Message) IsReply() bool {
	return m.ParentUserID != ""
}

// Thread returns the key replies to m carry.
func (m *Message) Thread() ThreadKey {
	return ThreadKey{ChannelID: m.ChannelID, ParentTS: m.TS, ParentUserID: m.UserID}
}

// ParentMessage is a top-level message with its author and reply count.
type ParentMessage struct {
	Message    Message
	User       User
	ReplyCount int
}

// ReplyMessage is a message with its author. Thread expansion and search
// both return this shape.
type ReplyMessage struct {
	Message Message
	User    User
}

// SearchResult holds a matched message and its relevance; higher ranks first.
type SearchResult struct {
	ReplyMessage
	Rank float64
}

// ThreadKey identifies one thread: the parent's channel, ts and author.
type ThreadKey struct {
	ChannelID    string
	ParentTS     time.Time
	ParentUserID string
}

// PageQuery selects one forward page of top-level messages.
type PageQuery struct {
	ChannelID string
	// Cursor is the ts of the last row of the previous page; nil for the first page.
	Cursor   *time.Time
	PageSize int
	// Since is the channel watermark; older messages are never paged.
	Since time.Time
}

// SearchQuery is a full-text search request. Empty ChannelID/UserID mean no filter.
type SearchQuery struct {
	Text      string
	ChannelID string
	UserID    string
	Limit     int
}

// Stats summarizes the archive contents.
type Stats struct {
	Channels      int64
	Users         int64
	TopLevel      int64
	Replies       int64
	NewestMessage time.Time
}
