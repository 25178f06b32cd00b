package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jobb/internal/agent"
)

func newWatchCmd(a *app) *cobra.Command {
	var delay, poll time.Duration
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Report on a document once it has stopped changing",
		Long: `Watch monitors a file and, after it has been left unchanged for the idle
delay, prints how many characters it holds. Runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("delay") {
				delay = a.settings.WatchDelay
			}
			return a.runWatch(cmd, args[0], delay, poll)
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", agent.DefaultDelay, "idle time before the document is processed")
	cmd.Flags().DurationVar(&poll, "poll", time.Second, "interval between file checks")
	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, path string, delay, poll time.Duration) error {
	out := cmd.OutOrStdout()
	process := func(p string) {
		data, err := os.ReadFile(p)
		if err != nil {
			fmt.Fprintf(out, "Could not read %s: %v\n", p, err)
			return
		}
		fmt.Fprintf(out, "\nAgent processed %s -> %d characters\n\n", p, len([]rune(string(data))))
	}

	monitor := agent.NewDocumentMonitor(path, process, delay, agent.WithMonitorLogger(a.commandLogger()))
	fmt.Fprintf(out, "Monitoring %s. Stop editing for %s to trigger agent.\n", path, delay)
	if err := monitor.Run(cmd.Context(), poll); err != nil {
		return sysError(err)
	}
	return nil
}
