package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/timestamp"
)

// authorName picks the most readable name a message carries.
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

func printMessage(w io.Writer, m *vaultv1.Message, indent string) {
	fmt.Fprintf(w, "%s[%s] %s: %s\n", indent, messageTime(m), authorName(m), m.Text)
}

func printPage(w io.Writer, p *vaultv1.FetchPageResponse) {
	fmt.Fprintf(w, "#%s (%s) since %s\n", p.Channel.Name, p.Channel.ID, p.Since)
	if len(p.Messages) == 0 {
		fmt.Fprintln(w, "No messages.")
	}
	for _, pm := range p.Messages {
		printMessage(w, pm.Message, "")
		if pm.ReplyCount > 0 {
			fmt.Fprintf(w, "    %s\n", plural(int64(pm.ReplyCount), "reply", "replies"))
		}
	}
	if p.NextCursor != "" {
		fmt.Fprintf(w, "next: --cursor %q\n", p.NextCursor)
	}
}

func printSearch(w io.Writer, r *vaultv1.SearchResponse) {
	if len(r.Results) == 0 {
		fmt.Fprintln(w, "No matches.")
		return
	}
	for _, res := range r.Results {
		fmt.Fprintf(w, "%8.4f  %s  ", res.Rank, res.Message.ChannelID)
		printMessage(w, res.Message, "")
	}
	fmt.Fprintf(w, "%s (filter: %s)\n", plural(int64(len(r.Results)), "match", "matches"), r.Mode)
}

func printChannel(w io.Writer, c *vaultv1.Channel) {
	fmt.Fprintf(w, "ID:      %s\n", c.ID)
	fmt.Fprintf(w, "Name:    #%s\n", c.Name)
	if c.Topic != "" {
		fmt.Fprintf(w, "Topic:   %s\n", c.Topic)
	}
	if c.Purpose != "" {
		fmt.Fprintf(w, "Purpose: %s\n", c.Purpose)
	}
}

func printUser(w io.Writer, u *vaultv1.User) {
	fmt.Fprintf(w, "ID:       %s\n", u.ID)
	fmt.Fprintf(w, "Name:     %s\n", u.Name)
	if u.RealName != "" {
		fmt.Fprintf(w, "Real:     %s\n", u.RealName)
	}
	if u.DisplayName != "" {
		fmt.Fprintf(w, "Display:  %s\n", u.DisplayName)
	}
	if u.Email != "" {
		fmt.Fprintf(w, "Email:    %s\n", u.Email)
	}
	switch {
	case u.Deleted:
		fmt.Fprintln(w, "Status:   deactivated")
	case u.IsBot:
		fmt.Fprintln(w, "Status:   bot")
	}
}

func printStatus(w io.Writer, s *vaultv1.GetStatusResponse) {
	fmt.Fprintf(w, "Profile:  %s\n", s.Profile)
	state := s.State
	if s.Reason != "" {
		state += " (" + s.Reason + ")"
	}
	fmt.Fprintf(w, "State:    %s\n", state)
	fmt.Fprintf(w, "Backend:  %s\n", s.Backend)
	fmt.Fprintf(w, "Uptime:   %s\n", (time.Duration(s.UptimeMs) * time.Millisecond).Round(time.Second))
	fmt.Fprintf(w, "Channels: %s\n", humanize.Comma(s.Channels))
	fmt.Fprintf(w, "Users:    %s\n", humanize.Comma(s.Users))
	fmt.Fprintf(w, "Messages: %s top-level, %s\n", humanize.Comma(s.TopLevelMessages), plural(s.Replies, "reply", "replies"))
	if s.NewestMessageTs != "" {
		newest := s.NewestMessageTs
		if t, err := timestamp.Parse(s.NewestMessageTs); err == nil {
			newest = fmt.Sprintf("%s (%s)", timestamp.Format(t), humanize.Time(t))
		}
		fmt.Fprintf(w, "Newest:   %s\n", newest)
	}
}

func printStatusEvent(w io.Writer, e *vaultv1.StatusEvent) {
	at := time.UnixMilli(e.OccurredAtUnixMs).Format(time.TimeOnly)
	line := fmt.Sprintf("%s  %s -> %s", at, e.From, e.To)
	if e.Reason != "" {
		line += ": " + e.Reason
	}
	fmt.Fprintln(w, line)
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return humanize.Comma(n) + " " + many
}
