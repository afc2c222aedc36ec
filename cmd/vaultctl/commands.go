package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon state and archive counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context()
			defer cancel()
			resp, err := a.client.Status.GetStatus(ctx, &vaultv1.GetStatusRequest{})
			if err != nil {
				return writeCommandError(cmd, a, err)
			}
			if a.json {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			printStatus(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream daemon state changes until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stream, err := a.client.Status.WatchStatus(cmd.Context(), &vaultv1.WatchStatusRequest{})
			if err != nil {
				return writeCommandError(cmd, a, err)
			}
			for {
				evt, err := stream.Recv()
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return writeCommandError(cmd, a, err)
				}
				if a.json {
					if err := outputJSON(cmd.OutOrStdout(), evt); err != nil {
						return err
					}
					continue
				}
				printStatusEvent(cmd.OutOrStdout(), evt)
			}
		},
	}
}

func newChannelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List archived channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context()
			defer cancel()
			resp, err := a.client.Archive.ListChannels(ctx, &vaultv1.ListChannelsRequest{})
			if err != nil {
				return writeCommandError(cmd, a, err)
			}
			if a.json {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			if len(resp.Channels) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No channels archived.")
				return nil
			}
			for _, c := range resp.Channels {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s #%s\n", c.ID, c.Name)
			}
			return nil
		},
	}
}

func newChannelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "channel <name>",
		Short: "Show one channel's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()
			resp, err := a.client.Archive.GetChannelInfo(ctx, &vaultv1.GetChannelInfoRequest{Name: args[0]})
			if err != nil {
				return writeCommandError(cmd, a, err)
			}
			if a.json {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			printChannel(cmd.OutOrStdout(), resp.Channel)
			return nil
		},
	}
}

func newUserCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "user <id>",
		Short: "Show one user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()
			resp, err := a.client.Archive.GetUser(ctx, &vaultv1.GetUserRequest{ID: args[0]})
			if err != nil {
				return writeCommandError(cmd, a, err)
			}
			if a.json {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			printUser(cmd.OutOrStdout(), resp.User)
			return nil
		},
	}
}

func newPageCmd(a *app) *cobra.Command {
	var (
		cursor string
		limit  int32
	)
	cmd := &cobra.Command{
		Use:   "page <channel>",
		Short: "Print one page of a channel's history, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()
			resp, err := a.client.Archive.FetchPage(ctx, &vaultv1.FetchPageRequest{
				Channel:    args[0],
				Cursor:     cursor,
				PageSize:   limit,
				HumanTimes: a.human,
			})
			if err != nil {
				return writeCommandError(cmd, a, err)
			}
			if a.json {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			printPage(cmd.OutOrStdout(), resp)
			return nil
		},
	}
	cmd.Flags().StringVar(&cursor, "cursor", "", "ts of the last message of the previous page")
	cmd.Flags().Int32Var(&limit, "limit", 0, "page size (default from daemon config)")
	return cmd
}

func newRepliesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "replies <channel-id> <parent-ts> <parent-user-id>",
		Short: "Print the replies of one thread",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()
			resp, err := a.client.Archive.FetchReplies(ctx, &vaultv1.FetchRepliesRequest{
				ChannelID:    args[0],
				ParentTs:     args[1],
				ParentUserID: args[2],
				HumanTimes:   a.human,
			})
			if err != nil {
				return writeCommandError(cmd, a, err)
			}
			if a.json {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			if len(resp.Replies) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No replies.")
				return nil
			}
			for _, m := range resp.Replies {
				printMessage(cmd.OutOrStdout(), m, "")
			}
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		channel string
		user    string
		limit   int32
	)
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Full-text search with web-search syntax (\"phrase\", or, -term)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()

			req := &vaultv1.SearchRequest{
				Query:      strings.Join(args, " "),
				UserID:     user,
				Limit:      limit,
				HumanTimes: a.human,
			}
			if channel != "" {
				info, err := a.client.Archive.GetChannelInfo(ctx, &vaultv1.GetChannelInfoRequest{Name: channel})
				if err != nil {
					return writeCommandError(cmd, a, err)
				}
				req.ChannelID = info.Channel.ID
			}

			resp, err := a.client.Archive.Search(ctx, req)
			if err != nil {
				return writeCommandError(cmd, a, err)
			}
			if a.json {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			printSearch(cmd.OutOrStdout(), resp)
			return nil
		},
	}
	cmd.Flags().StringVar(&channel, "channel", "", "restrict to this channel name")
	cmd.Flags().StringVar(&user, "user", "", "restrict to this user ID")
	cmd.Flags().Int32Var(&limit, "limit", 0, "maximum results (default from daemon config)")
	return cmd
}
