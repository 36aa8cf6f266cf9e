package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/sandeepkv93/pomodo/internal/app"
	"github.com/sandeepkv93/pomodo/internal/notify"
	"github.com/spf13/cobra"
)

// newTaskCmds maps each task operation onto the command language so the CLI
// and the TUI palette share one code path.
func newTaskCmds(opts *rootOptions) []*cobra.Command {
	simple := func(use, short, verb string, args cobra.PositionalArgs) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  args,
			RunE: func(cmd *cobra.Command, args []string) error {
				line := strings.TrimSpace(verb + " " + strings.Join(args, " "))
				return execLine(cmd, opts, line)
			},
		}
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show pending and finished tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closer()
			printState(cmd.OutOrStdout(), a)
			return nil
		},
	}

	return []*cobra.Command{
		simple("add <text>", "Append a task to the queue", "add", cobra.MinimumNArgs(1)),
		list,
		simple("done <id>", "Finish a pending task", "done", cobra.ExactArgs(1)),
		simple("rm <id>", "Discard a pending task", "del", cobra.ExactArgs(1)),
		simple("edit <id> <text>", "Rename a pending task", "edit", cobra.MinimumNArgs(2)),
		simple("restore <id>", "Move a finished task back to the queue", "restore", cobra.ExactArgs(1)),
		simple("purge <id>", "Drop a finished task", "purge", cobra.ExactArgs(1)),
		simple("skip", "Defer the current task or end the break", "skip", cobra.NoArgs),
		simple("reset", "Clear both lists and restart ids", "reset", cobra.NoArgs),
	}
}

func newDoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "do <command>",
		Short: "Run one palette command, e.g. pomodo do set work 50",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execLine(cmd, opts, strings.Join(args, " "))
		},
	}
}

func execLine(cmd *cobra.Command, opts *rootOptions, line string) error {
	a, closer, err := opts.open(cmd)
	if err != nil {
		return err
	}
	defer closer()

	res, err := a.Exec(line)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}

func printState(w io.Writer, a *app.App) {
	state := a.Tasks.State()
	label := state.CurrentLabel
	if label == "" {
		label = "-"
	}
	fmt.Fprintf(w, "phase: %s  remaining: %s  now: %s\n", state.Phase(), notify.FormatDuration(state.SecondsRemaining), label)

	fmt.Fprintf(w, "\nPending (%d):\n", len(state.Pending))
	for _, task := range state.Pending {
		suffix := ""
		if task.Editing {
			suffix = fmt.Sprintf("  (draft: %s)", task.EditBuffer)
		}
		fmt.Fprintf(w, "  #%-4d %s%s\n", task.ID, task.Text, suffix)
	}
	fmt.Fprintf(w, "\nFinished (%d):\n", len(state.Finished))
	for _, rec := range state.Finished {
		fmt.Fprintf(w, "  #%-4d %s\n", rec.ID, rec.Text)
	}
}
