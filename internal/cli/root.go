// Package cli wires the cobra command tree. The bare command launches the
// TUI; subcommands operate on the same stores without a terminal UI.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/sandeepkv93/pomodo/internal/app"
	"github.com/sandeepkv93/pomodo/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	dbPath  string
	logFile string
	verbose bool
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "pomodo",
		Short: "Pomodoro timer with a task queue",
		Long: `pomodo times work and break periods over a queue of tasks.

Without a subcommand it opens the terminal UI. The subcommands edit the same
task list and settings, or run the timer headless.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to the SQLite database (overrides config)")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Append logs to this file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log warnings to stderr")

	root.AddCommand(newTaskCmds(opts)...)
	root.AddCommand(newDoCmd(opts))
	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newSettingsCmd(opts))
	root.AddCommand(newVersionCmd(version))
	return root
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (o *rootOptions) config() (config.RuntimeConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if strings.TrimSpace(o.dbPath) != "" {
		cfg.DBPath = o.dbPath
	}
	if strings.TrimSpace(o.logFile) != "" {
		cfg.LogFile = o.logFile
	}
	return cfg, nil
}

// open loads config and the stores for a non-interactive subcommand. The
// returned closer also closes the log file, if one was opened.
func (o *rootOptions) open(cmd *cobra.Command, extra ...app.Option) (*app.App, func(), error) {
	cfg, err := o.config()
	if err != nil {
		return nil, nil, err
	}

	logger := log.New(io.Discard, "", 0)
	var logFile *os.File
	switch {
	case cfg.LogFile != "":
		logFile, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger = log.New(logFile, "pomodo ", log.LstdFlags)
	case o.verbose:
		logger = log.New(cmd.ErrOrStderr(), "", 0)
	}

	a, err := app.Open(context.Background(), cfg, append([]app.Option{app.WithLogger(logger)}, extra...)...)
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, nil, err
	}
	closer := func() {
		_ = a.Close()
		if logFile != nil {
			_ = logFile.Close()
		}
	}
	return a, closer, nil
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pomodo %s\n", version)
		},
	}
}
