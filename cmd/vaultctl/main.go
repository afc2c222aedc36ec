package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matheus3301/slackvault/internal/profile"
	"github.com/matheus3301/slackvault/internal/tui/client"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the resolved global flags and the daemon connection.
type app struct {
	profile string
	json    bool
	human   bool
	timeout time.Duration
	client  *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "vaultctl",
		Short:         "Query a running slackvault daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			name := profile.Resolve(a.profile)
			if err := profile.ValidateName(name); err != nil {
				return writeCommandError(cmd, a, err)
			}
			a.profile = name
			c, err := client.New(profile.SocketPath(name))
			if err != nil {
				return writeCommandError(cmd, a, fmt.Errorf("cannot connect to daemon for profile %q: %w", name, err))
			}
			a.client = c
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.client != nil {
				return a.client.Close()
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.profile, "profile", "", "profile name (overrides config default)")
	pf.BoolVar(&a.json, "json", false, "output in JSON format")
	pf.BoolVar(&a.human, "human", false, "show human-readable message times")
	pf.DurationVar(&a.timeout, "timeout", 10*time.Second, "per-request timeout")

	cmd.AddCommand(
		newStatusCmd(a),
		newWatchCmd(a),
		newChannelsCmd(a),
		newChannelCmd(a),
		newUserCmd(a),
		newPageCmd(a),
		newRepliesCmd(a),
		newSearchCmd(a),
	)
	return cmd
}

func (a *app) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.timeout)
}

// writeCommandError prints err with a hint for the common failure modes.
func writeCommandError(cmd *cobra.Command, a *app, err error) error {
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "error: %v\n", err)
	switch grpcstatus.Code(err) {
	case codes.Unavailable:
		fmt.Fprintf(w, "hint: is vaultd running? try: vaultd --profile %s\n", a.profile)
	case codes.DataLoss:
		fmt.Fprintln(w, "hint: the archive holds a malformed timestamp; re-import the affected channel")
	}
	return err
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
