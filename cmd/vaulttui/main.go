package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/profile"
	"github.com/matheus3301/slackvault/internal/tui"
	"github.com/matheus3301/slackvault/internal/tui/client"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		profileFlag string
		noStart     bool
		wait        time.Duration
	)
	cmd := &cobra.Command{
		Use:           "vaulttui",
		Short:         "Browse a slackvault archive in the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name := profile.Resolve(profileFlag)
			if err := profile.ValidateName(name); err != nil {
				return err
			}
			socketPath := profile.SocketPath(name)

			// Probe daemon health; auto-start if needed.
			if !probeDaemon(socketPath) {
				if noStart {
					return fmt.Errorf("daemon not running for profile %q (start it with: vaultd --profile %s)", name, name)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "daemon not running for profile %q, starting...\n", name)
				if err := startDaemon(name); err != nil {
					return fmt.Errorf("start daemon: %w", err)
				}
				if !waitForDaemon(socketPath, wait) {
					return fmt.Errorf("daemon did not become ready within %s", wait)
				}
			}

			c, err := client.New(socketPath)
			if err != nil {
				return fmt.Errorf("connect to daemon: %w", err)
			}
			defer func() { _ = c.Close() }()

			return tui.NewApp(c, name).Run()
		},
	}
	cmd.Flags().StringVar(&profileFlag, "profile", "", "profile name (overrides config default)")
	cmd.Flags().BoolVar(&noStart, "no-start", false, "do not start the daemon when it is not running")
	cmd.Flags().DurationVar(&wait, "wait", 10*time.Second, "how long to wait for a started daemon")
	return cmd
}

// probeDaemon checks if a daemon is running and answering on the socket.
// Any lifecycle state counts; the TUI shows MIGRATING or ERROR itself.
func probeDaemon(socketPath string) bool {
	c, err := client.New(socketPath)
	if err != nil {
		return false
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = c.Status.GetStatus(ctx, &vaultv1.GetStatusRequest{})
	return err == nil
}

func startDaemon(name string) error {
	executable, err := os.Executable()
	if err != nil {
		return err
	}
	vaultd := filepath.Join(filepath.Dir(executable), "vaultd")

	if _, err := os.Stat(vaultd); err != nil {
		vaultd = "vaultd"
	}

	cmd := exec.Command(vaultd, "--profile", name)
	// Inherit stderr so daemon startup errors are visible.
	cmd.Stderr = os.Stderr
	return cmd.Start()
}

// waitForDaemon polls the daemon with a real status call, not just a socket connect.
func waitForDaemon(socketPath string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if probeDaemon(socketPath) {
			return true
		}
		time.Sleep(300 * time.Millisecond)
	}
	return false
}
