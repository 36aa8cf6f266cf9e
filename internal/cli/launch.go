package cli

import (
	"context"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/pomodo/internal/app"
	"github.com/sandeepkv93/pomodo/internal/update"
	"github.com/spf13/cobra"
)

// runLaunch opens the TUI. Logs never go to the terminal while the program
// owns the screen.
func runLaunch(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}

	logger := log.New(io.Discard, "", 0)
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "pomodo")
		if err != nil {
			return err
		}
		defer f.Close()
		logger = log.Default()
	}

	ctx := context.Background()
	a, err := app.Open(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		return err
	}
	defer a.Close()

	m := update.NewModel(a.Tasks, a.Settings, update.WithTodayCounter(func() int {
		return a.TodayCount(ctx)
	}))
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = program.Run()
	return err
}
