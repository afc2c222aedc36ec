package store

import (
	"database/sql"
	"time"

	"github.com/matheus3301/slackvault/internal/timestamp"
)

const (
	messageColumns = "m.channel_id, m.user_id, m.msg_text, m.ts, m.thread_ts, m.parent_user_id"
	userColumns    = "u.id, u.name, u.real_name, u.display_name, u.image_url, u.email, u.deleted, u.is_bot"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// scanReply reads messageColumns then userColumns, then any extra columns.
func scanReply(s rowScanner, extra ...any) (ReplyMessage, error) {
	var (
		r        ReplyMessage
		ts       string
		threadTS sql.NullString
	)
	dest := []any{
		&r.Message.ChannelID, &r.Message.UserID, &r.Message.Text,
		&ts, &threadTS, &r.Message.ParentUserID,
		&r.User.ID, &r.User.Name, &r.User.RealName, &r.User.DisplayName,
		&r.User.ImageURL, &r.User.Email, &r.User.Deleted, &r.User.IsBot,
	}
	dest = append(dest, extra...)
	if err := s.Scan(dest...); err != nil {
		return r, err
	}

	var err error
	if r.Message.TS, err = timestamp.ParseStored(ts); err != nil {
		return r, err
	}
	if r.Message.ThreadTS, err = parseNullTS(threadTS); err != nil {
		return r, err
	}
	return r, nil
}

func parseNullTS(ns sql.NullString) (time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return time.Time{}, nil
	}
	return timestamp.ParseStored(ns.String)
}
