package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/sandeepkv93/pomodo/internal/cycle"
	"github.com/sandeepkv93/pomodo/internal/driver"
	"github.com/sandeepkv93/pomodo/internal/notify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type runOptions struct {
	continuous bool
	stdin      bool
	tick       time.Duration
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	ro := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the timer headless",
		Long: `Run times the current period without the terminal UI. It stops when the
period ends, when an operation interrupts it, or on Ctrl-C.

With --stdin, each input line is a palette command applied while the timer runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(cmd, opts, ro)
		},
	}
	cmd.Flags().BoolVar(&ro.continuous, "continuous", false, "Keep going into the next period until the queue is empty")
	cmd.Flags().BoolVar(&ro.stdin, "stdin", false, "Read palette commands from stdin while running")
	cmd.Flags().DurationVar(&ro.tick, "tick", time.Second, "Length of one timer second")
	_ = cmd.Flags().MarkHidden("tick")
	return cmd
}

func runHeadless(cmd *cobra.Command, opts *rootOptions, ro *runOptions) error {
	a, closer, err := opts.open(cmd)
	if err != nil {
		return err
	}
	defer closer()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := &syncWriter{w: cmd.OutOrStdout()}
	d := driver.New(a.Tasks, driver.WithInterval(ro.tick), driver.WithContinuous(ro.continuous), driver.WithBuffer(64))
	if err := d.Start(ctx); err != nil {
		if errors.Is(err, driver.ErrNothingToTime) {
			return fmt.Errorf("nothing to time: add a task first")
		}
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-d.Done()
		cancel()
		return nil
	})
	g.Go(func() error {
		return printEvents(out, d.C())
	})
	if ro.stdin {
		lines := readLines(cmd.InOrStdin())
		g.Go(func() error {
			return feedCommands(gctx, out, d, func(line string) (string, error) {
				res, err := a.Exec(line)
				return res.Message, err
			}, lines)
		})
	}
	return g.Wait()
}

func printEvents(w io.Writer, events <-chan driver.Event) error {
	lastMinute := -1
	for ev := range events {
		switch ev.Kind {
		case driver.EventTick:
			// one line per minute keeps a piped log readable
			if minute := ev.Remaining / 60; minute != lastMinute || ev.Remaining == 0 {
				lastMinute = minute
				fmt.Fprintf(w, "%s  %s\n", notify.FormatDuration(ev.Remaining), ev.Label)
			}
		case driver.EventExpired:
			if ev.Period != nil {
				fmt.Fprintf(w, "finished %s period %s\n", ev.Period.Kind, ev.Period.TaskText)
			}
			lastMinute = -1
		case driver.EventStopped:
			fmt.Fprintf(w, "stopped (%s)\n", ev.Reason)
		}
	}
	return nil
}

// readLines pumps r into a channel. The goroutine may outlive the run when r
// blocks; it exits on EOF.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func feedCommands(ctx context.Context, w io.Writer, d *driver.Driver, exec func(string) (string, error), lines <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			var msg string
			var execErr error
			err := d.Do(ctx, func(*cycle.Store) {
				msg, execErr = exec(line)
			})
			if err != nil {
				if errors.Is(err, driver.ErrStopped) || errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			if execErr != nil {
				fmt.Fprintf(w, "error: %v\n", execErr)
				continue
			}
			fmt.Fprintln(w, msg)
		}
	}
}

// syncWriter serializes writes from the event printer and the command feed.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
