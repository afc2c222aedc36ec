package api

import (
	"time"

	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/store"
	"github.com/matheus3301/slackvault/internal/timestamp"
)

func channelToWire(c *store.Channel) *vaultv1.Channel {
	return &vaultv1.Channel{ID: c.ID, Name: c.Name, Topic: c.Topic, Purpose: c.Purpose}
}

func userToWire(u *store.User) *vaultv1.User {
	return &vaultv1.User{
		ID:          u.ID,
		Name:        u.Name,
		RealName:    u.RealName,
		DisplayName: u.DisplayName,
		ImageURL:    u.ImageURL,
		Email:       u.Email,
		Deleted:     u.Deleted,
		IsBot:       u.IsBot,
	}
}

func messageToWire(m *store.Message, u *store.User, human bool) *vaultv1.Message {
	out := &vaultv1.Message{
		ChannelID:    m.ChannelID,
		UserID:       m.UserID,
		Text:         m.Text,
		Ts:           timestamp.Canonical(m.TS),
		ThreadTs:     canonicalOrEmpty(m.ThreadTS),
		ParentUserID: m.ParentUserID,
	}
	if human {
		out.DisplayTs = timestamp.Format(m.TS)
	}
	if u != nil {
		out.User = userToWire(u)
	}
	return out
}

func canonicalOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return timestamp.Canonical(t)
}
