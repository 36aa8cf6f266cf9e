// Package driver runs the one-second countdown for a cycle store outside the
// TUI. The loop goroutine owns the store while it runs; other goroutines reach
// it only through Do.
package driver

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/pomodo/internal/cycle"
)

var (
	ErrNothingToTime = errors.New("driver: nothing to time")
	ErrNotStarted    = errors.New("driver: not started")
	ErrStopped       = errors.New("driver: stopped")
)

type EventKind string

const (
	EventTick    EventKind = "tick"
	EventExpired EventKind = "expired"
	EventStopped EventKind = "stopped"
)

type StopReason string

const (
	ReasonPeriodEnd   StopReason = "period_end"
	ReasonInterrupted StopReason = "interrupted"
	ReasonCanceled    StopReason = "canceled"
	ReasonStopped     StopReason = "stopped"
)

type Event struct {
	Kind      EventKind
	Label     string
	Remaining int
	IsBreak   bool
	Period    *cycle.Period
	Reason    StopReason
	At        time.Time
}

type Option func(*Driver)

func WithInterval(d time.Duration) Option {
	return func(dr *Driver) {
		if d > 0 {
			dr.interval = d
		}
	}
}

func WithBuffer(n int) Option {
	return func(dr *Driver) {
		if n > 0 {
			dr.bufferSize = n
		}
	}
}

// WithContinuous keeps the driver running into the next period after an
// expiry, as long as there is something to time.
func WithContinuous(on bool) Option {
	return func(dr *Driver) { dr.continuous = on }
}

func WithLogger(l *log.Logger) Option {
	return func(dr *Driver) {
		if l != nil {
			dr.logger = l
		}
	}
}

type job struct {
	fn   func(*cycle.Store)
	done chan struct{}
}

type Driver struct {
	store      *cycle.Store
	interval   time.Duration
	bufferSize int
	continuous bool
	logger     *log.Logger

	mu      sync.Mutex
	out     chan Event
	jobs    chan job
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64

	// last period reported by the store; only touched by the loop goroutine
	period *cycle.Period
}

func New(store *cycle.Store, opts ...Option) *Driver {
	d := &Driver{
		store:      store,
		interval:   time.Second,
		bufferSize: 16,
		logger:     log.New(io.Discard, "", 0),
		jobs:       make(chan job),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.out = make(chan Event, d.bufferSize)
	store.OnPeriod(func(p cycle.Period) {
		d.period = &p
	})
	return d
}

func (d *Driver) C() <-chan Event {
	return d.out
}

// Done is closed once the loop has exited and C has been closed.
func (d *Driver) Done() <-chan struct{} {
	return d.doneCh
}

func (d *Driver) Dropped() uint64 {
	return atomic.LoadUint64(&d.dropped)
}

// Start begins the current period and launches the countdown loop. It fails
// with ErrNothingToTime when no task is pending and no break is running.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return nil
	}
	if err := d.begin(); err != nil {
		return err
	}
	d.started = true
	go d.loop(ctx)
	return nil
}

func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.started || d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.stopCh)
	d.mu.Unlock()
	<-d.doneCh
}

// Run starts the driver and blocks until it stops on its own or ctx is done.
func (d *Driver) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-d.doneCh
	return nil
}

// Do runs fn on the loop goroutine and waits for it to finish. A stop signal
// raised by fn ends the run.
func (d *Driver) Do(ctx context.Context, fn func(*cycle.Store)) error {
	d.mu.Lock()
	started := d.started
	d.mu.Unlock()
	if !started {
		return ErrNotStarted
	}

	j := job{fn: fn, done: make(chan struct{})}
	select {
	case d.jobs <- j:
	case <-d.doneCh:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-j.done
	return nil
}

func (d *Driver) loop(ctx context.Context) {
	defer close(d.doneCh)
	defer close(d.out)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			d.halt(ReasonCanceled)
			return
		case <-d.stopCh:
			d.halt(ReasonStopped)
			return
		case j := <-d.jobs:
			j.fn(d.store)
			close(j.done)
			if d.store.StopSignal() {
				d.store.ClearStopSignal()
				d.halt(ReasonInterrupted)
				return
			}
		case <-ticker.C:
			if !d.tick() {
				return
			}
		}
	}
}

// tick advances the store by one second and reports whether the loop should
// keep running.
func (d *Driver) tick() bool {
	expired := d.store.Tick()
	d.emit(d.event(EventTick))
	if !expired {
		return true
	}

	d.period = nil
	d.store.OnExpire()
	ev := d.event(EventExpired)
	ev.Period = d.period
	d.emit(ev)

	if d.store.StopSignal() {
		d.store.ClearStopSignal()
		d.halt(ReasonInterrupted)
		return false
	}
	if d.continuous {
		if err := d.begin(); err == nil {
			return true
		}
	}
	d.halt(ReasonPeriodEnd)
	return false
}

func (d *Driver) begin() error {
	d.store.ClearStopSignal()
	d.store.SyncIdleDuration()
	label := d.store.RecomputeCurrentTask()
	if !d.store.IsBreak() && label == "" {
		return ErrNothingToTime
	}
	d.logger.Printf("period started: %s (%ds)", label, d.store.SecondsRemaining())
	return nil
}

func (d *Driver) halt(reason StopReason) {
	ev := d.event(EventStopped)
	ev.Reason = reason
	d.emit(ev)
	d.logger.Printf("timer stopped: %s", reason)
}

func (d *Driver) event(kind EventKind) Event {
	return Event{
		Kind:      kind,
		Label:     d.store.CurrentLabel(),
		Remaining: d.store.SecondsRemaining(),
		IsBreak:   d.store.IsBreak(),
		At:        time.Now().UTC(),
	}
}

func (d *Driver) emit(ev Event) {
	select {
	case d.out <- ev:
	default:
		atomic.AddUint64(&d.dropped, 1)
	}
}
