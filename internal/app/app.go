// Package app opens the persistent stores and wires persistence, cycle
// history and notifications around them. Every front end (TUI, CLI
// subcommands, headless runner) starts from Open.
package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/pomodo/internal/commands"
	"github.com/sandeepkv93/pomodo/internal/config"
	"github.com/sandeepkv93/pomodo/internal/cycle"
	"github.com/sandeepkv93/pomodo/internal/model"
	"github.com/sandeepkv93/pomodo/internal/notify"
	"github.com/sandeepkv93/pomodo/internal/settings"
	"github.com/sandeepkv93/pomodo/internal/storage"
)

type App struct {
	Config   config.RuntimeConfig
	Settings *settings.Store
	Tasks    *cycle.Store

	repo     *storage.SQLiteRepository
	notifier notify.Notifier
	logger   *log.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*App)

func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(a *App) {
		if n != nil {
			a.notifier = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// Open loads both records from the database at cfg.DBPath. On first run the
// settings are seeded from cfg's durations. Unreadable records are logged
// and replaced by fresh state.
func Open(ctx context.Context, cfg config.RuntimeConfig, opts ...Option) (*App, error) {
	a := &App{
		Config:   cfg,
		notifier: notify.Noop{},
		logger:   log.New(io.Discard, "", 0),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	if cfg.DesktopNotifications {
		a.notifier = notify.Desktop{}
	}
	for _, opt := range opts {
		opt(a)
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	a.repo = repo

	prefs, haveSettings, err := storage.LoadSettings(ctx, repo)
	if err != nil {
		a.logger.Printf("warning: settings record unreadable, using defaults: %v", err)
	}
	if !haveSettings {
		prefs = model.DefaultSettings(cfg.WorkMinutes, cfg.BreakMinutes)
	}
	a.Settings = settings.New(prefs)

	cycleOpts := []cycle.Option{cycle.WithLogger(a.logger)}
	state, found, err := storage.LoadCycleState(ctx, repo)
	if err != nil {
		a.logger.Printf("warning: task list record unreadable, starting empty: %v", err)
	} else if found {
		cycleOpts = append(cycleOpts, cycle.WithSnapshot(state))
	}
	a.Tasks = cycle.New(a.Settings, cycleOpts...)

	a.Settings.Observe(a.saveSettings)
	a.Settings.Observe(func(model.Settings) { a.Tasks.SyncIdleDuration() })
	a.Tasks.Observe(a.saveCycleState)
	a.Tasks.OnPeriod(a.recordPeriod)

	if !haveSettings || a.Settings.Repaired() {
		a.saveSettings(a.Settings.Snapshot())
	}
	if a.Tasks.Repaired() {
		a.saveCycleState(a.Tasks.State())
	}
	return a, nil
}

func (a *App) Close() error {
	return a.repo.Close()
}

func (a *App) Repository() storage.Repository {
	return a.repo
}

// Handlers binds the command language to this app's stores.
func (a *App) Handlers() commands.Handlers {
	return commands.StoreHandlers(a.Tasks, a.Settings)
}

// Exec parses and runs one command line.
func (a *App) Exec(line string) (commands.Result, error) {
	cmd, err := commands.Parse(line)
	if err != nil {
		return commands.Result{}, err
	}
	return commands.Execute(cmd, a.Handlers())
}

// Persistence failures never reach the stores; in-memory state stays
// authoritative and the next mutation retries the write.
func (a *App) saveSettings(s model.Settings) {
	if err := storage.SaveSettings(context.Background(), a.repo, s); err != nil {
		a.logger.Printf("warning: persist settings: %v", err)
	}
}

func (a *App) saveCycleState(st model.CycleState) {
	if err := storage.SaveCycleState(context.Background(), a.repo, st); err != nil {
		a.logger.Printf("warning: persist task list: %v", err)
	}
}

func (a *App) recordPeriod(p cycle.Period) {
	at := a.now()
	rec := storage.CycleRecord{
		ID:          a.newID(),
		Kind:        string(p.Kind),
		TaskText:    p.TaskText,
		DurationSec: p.Seconds,
		EndedAt:     at,
	}
	if err := a.repo.AppendCycle(context.Background(), rec); err != nil {
		a.logger.Printf("warning: record %s period: %v", p.Kind, err)
	}
	if !a.Settings.NotificationsEnabled() {
		return
	}
	if err := a.notifier.Send(notify.ForPeriod(p, a.Settings.SelectedAlarm(), at)); err != nil {
		a.logger.Printf("warning: desktop notification failed: %v", err)
	}
}
