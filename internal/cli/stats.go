package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var recent int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize finished work and break periods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closer()

			stats, err := a.Stats(context.Background(), recent)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "today:   %d pomodoros, %d breaks, %s focused\n", stats.TodayWork, stats.TodayBreak, stats.FocusedTime)
			fmt.Fprintf(w, "overall: %d pomodoros, %d breaks\n", stats.TotalWork, stats.TotalBreak)
			if len(stats.Recent) == 0 {
				return nil
			}
			fmt.Fprintf(w, "\nRecent periods (%d):\n", len(stats.Recent))
			for _, rec := range stats.Recent {
				fmt.Fprintf(w, "  %s  %-5s  %5ds  %s\n",
					rec.EndedAt.Local().Format("2006-01-02 15:04"),
					rec.Kind,
					rec.DurationSec,
					rec.TaskText)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&recent, "recent", 10, "Number of recent periods to list")
	return cmd
}
