// timerctl is a small CLI client for the webtimer API. The watch command
// runs the polling loop that keeps displayed countdowns and alarms in sync
// with server time.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/KUKARAF/webtimer/pkg/timersync"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var serverURL string

	root := &cobra.Command{
		Use:           "timerctl",
		Short:         "Manage countdown timers on a webtimer server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:5000", "base URL of the timer server")

	client := func() *Client { return NewClient(serverURL) }

	var createName string
	createCmd := &cobra.Command{
		Use:   "create <duration-seconds>",
		Short: "Create a timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("duration must be a number of seconds: %q", args[0])
			}
			view, err := client().CreateTimer(cmd.Context(), duration, createName)
			if err != nil {
				return err
			}
			printView(cmd, *view)
			return nil
		},
	}
	createCmd.Flags().StringVar(&createName, "name", "", "optional unique timer name")

	getCmd := &cobra.Command{
		Use:   "get <id-or-name>",
		Short: "Show a timer's remaining time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := client().GetTimer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printView(cmd, *view)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all live timers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := client().ListTimers(cmd.Context())
			if err != nil {
				return err
			}
			if len(views) == 0 {
				cmd.Println("no active timers")
				return nil
			}
			for _, v := range views {
				printView(cmd, v)
			}
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id-or-name>",
		Short: "Delete a timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client().DeleteTimer(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Println("deleted")
			return nil
		},
	}

	var pollSeconds int
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch all timers, ringing the bell as they expire",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := newWatcher(client(), cmd.OutOrStdout(), time.Duration(pollSeconds)*time.Second)
			return w.run(cmd.Context())
		},
	}
	watchCmd.Flags().IntVar(&pollSeconds, "poll-interval", 10, "seconds between authoritative polls")

	root.AddCommand(createCmd, getCmd, listCmd, deleteCmd, watchCmd)
	return root
}

func printView(cmd *cobra.Command, v timersync.TimerView) {
	state := timersync.FormatTimeLeft(v.TimeLeftSeconds) + " left"
	if v.Expired {
		state = "expired"
	}
	cmd.Printf("%-36s  %-20s  %s\n", v.ID, v.DisplayName(), state)
}
