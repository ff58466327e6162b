package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sporadisk/weekclock/timesheet"
	"github.com/sporadisk/weekclock/updates"
)

var (
	ErrNoSource          = errors.New("worker has no data source")
	ErrAlreadySubscribed = errors.New("worker already has a subscriber")
	errSourcePanicked    = errors.New("data source panicked")
)

const diagnosticsBufferSize = 16

// Source provides the worked time of a week. It is consulted once per
// production cycle; failures abort that cycle only.
type Source interface {
	WorkedTime(ctx context.Context, week timesheet.Week) ([]timesheet.Record, error)
}

type SourceFunc func(ctx context.Context, week timesheet.Week) ([]timesheet.Record, error)

func (f SourceFunc) WorkedTime(ctx context.Context, week timesheet.Week) ([]timesheet.Record, error) {
	return f(ctx, week)
}

// State is the position of the worker in its production cycle.
type State string

const (
	StateIdle       State = "idle"
	StateProducing  State = "producing"
	StatePublishing State = "publishing"
	StateStopped    State = "stopped"
)

// Config contains the runtime options of a Worker.
type Config struct {
	Source Source
	// Interval between periodic cycles. Zero disables the ticker; cycles then
	// only run on Trigger (and on start, with RunOnStart).
	Interval   time.Duration
	RunOnStart bool
	// CycleTimeout bounds a single call to the source. Zero means no limit.
	CycleTimeout time.Duration
	Policy       updates.Policy
	Logger       *log.Logger
	// Now decides which week a cycle computes.
	Now func() time.Time
}

// Worker produces Timesheet snapshots on its own goroutine and publishes
// them to a single subscription.
type Worker struct {
	mu          sync.Mutex
	config      Config
	logger      *log.Logger
	state       State
	started     bool
	stopped     bool
	subscribed  bool
	sub         *updates.Subscription
	trigger     chan struct{}
	stopCh      chan struct{}
	done        chan struct{}
	diagnostics chan error
	published   int
	failed      int
}

func New(config Config) (*Worker, error) {
	if config.Source == nil {
		return nil, ErrNoSource
	}
	if config.Interval < 0 {
		return nil, fmt.Errorf("negative interval: %s", config.Interval)
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Worker{
		config:      config,
		logger:      logger.With("component", "worker"),
		state:       StateIdle,
		sub:         updates.New(config.Policy),
		trigger:     make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
		diagnostics: make(chan error, diagnosticsBufferSize),
	}, nil
}

// Subscribe returns the worker's only subscription. Snapshots published
// before the call are kept for it.
func (w *Worker) Subscribe() (*updates.Subscription, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.subscribed {
		return nil, ErrAlreadySubscribed
	}
	w.subscribed = true
	return w.sub, nil
}

// Diagnostics reports failed cycles. Errors are dropped when nobody reads.
func (w *Worker) Diagnostics() <-chan error {
	return w.diagnostics
}

// Start launches the production loop. It is a no-op when the worker is
// already running or has been stopped.
func (w *Worker) Start() {
	w.mu.Lock()
	if w.started || w.stopped {
		stopped := w.stopped
		w.mu.Unlock()
		if stopped {
			w.logger.Warn("start ignored, worker has been stopped")
		}
		return
	}
	w.started = true
	w.mu.Unlock()

	w.logger.Debug("starting", "interval", w.config.Interval, "runOnStart", w.config.RunOnStart)
	go w.run()
}

// Stop asks the worker to finish. A cycle in progress completes and is
// published first. Stop does not wait; use Join for that.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	started := w.started
	close(w.stopCh)
	if !started {
		w.state = StateStopped
	}
	w.mu.Unlock()

	if !started {
		w.sub.Close()
		close(w.done)
	}
}

// Join blocks until the production loop has exited. It returns at once for
// a worker that was never started or stopped before starting.
func (w *Worker) Join() {
	w.mu.Lock()
	started, stopped := w.started, w.stopped
	w.mu.Unlock()

	if !started && !stopped {
		return
	}
	<-w.done
}

// Trigger requests a cycle. Requests made while one is already pending are
// merged into it.
func (w *Worker) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Cycles reports how many cycles published a snapshot and how many failed.
func (w *Worker) Cycles() (published, failed int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.published, w.failed
}

func (w *Worker) run() {
	defer close(w.done)
	defer w.sub.Close()
	defer w.setState(StateStopped)

	var tick <-chan time.Time
	if w.config.Interval > 0 {
		ticker := time.NewTicker(w.config.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	if w.config.RunOnStart && !w.stopRequested() {
		w.cycle()
	}

	for {
		// a pending stop wins over pending triggers
		if w.stopRequested() {
			w.logger.Debug("stopped")
			return
		}

		select {
		case <-w.stopCh:
			w.logger.Debug("stopped")
			return
		case <-tick:
			w.cycle()
		case <-w.trigger:
			w.cycle()
		}
	}
}

func (w *Worker) stopRequested() bool {
	select {
	case <-w.stopCh:
		return true
	default:
		return false
	}
}

// cycle runs one Producing -> Publishing -> Idle pass. Stop is not looked at
// until it returns.
func (w *Worker) cycle() {
	w.setState(StateProducing)
	week := timesheet.WeekOf(w.config.Now())
	started := time.Now()

	ts, err := w.produce(week)
	if err != nil {
		w.mu.Lock()
		w.failed++
		w.mu.Unlock()

		w.logger.Error("cycle failed", "week", week, "err", err)
		w.report(err)
		w.setState(StateIdle)
		return
	}

	w.setState(StatePublishing)
	w.sub.Publish(ts)

	w.mu.Lock()
	w.published++
	w.mu.Unlock()

	w.logger.Debug("published timesheet", "id", ts.ID(), "week", week, "days", ts.Len(), "took", time.Since(started))
	w.setState(StateIdle)
}

func (w *Worker) produce(week timesheet.Week) (ts *timesheet.Timesheet, err error) {
	ctx := context.Background()
	if w.config.CycleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.config.CycleTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			ts = nil
			err = timesheet.IntegrityError("reading worked time", fmt.Errorf("%w: %v", errSourcePanicked, r))
		}
	}()

	records, err := w.config.Source.WorkedTime(ctx, week)
	if err != nil {
		return nil, timesheet.IntegrityError("reading worked time", err)
	}

	return timesheet.Assemble(week, records)
}

func (w *Worker) report(err error) {
	select {
	case w.diagnostics <- err:
	default:
	}
}

func (w *Worker) setState(state State) {
	w.mu.Lock()
	w.state = state
	w.mu.Unlock()
}
