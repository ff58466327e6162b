package updates

import (
	"context"
	"errors"
	"sync"

	"github.com/sporadisk/weekclock/timesheet"
)

// ErrClosed is returned by Next once the producer has closed the
// subscription and every published snapshot has been consumed.
var ErrClosed = errors.New("subscription closed")

// Policy decides what happens to snapshots the consumer has not picked up yet.
type Policy int

const (
	// KeepAll queues every snapshot; the consumer sees each one in order.
	KeepAll Policy = iota
	// LatestOnly keeps a single pending snapshot; a newer one replaces it.
	LatestOnly
)

// Handler receives published snapshots. The argument is read-only.
type Handler interface {
	OnTimesheetUpdated(ts *timesheet.Timesheet)
}

type HandlerFunc func(ts *timesheet.Timesheet)

func (f HandlerFunc) OnTimesheetUpdated(ts *timesheet.Timesheet) {
	f(ts)
}

// Subscription hands snapshots from the producing goroutine to the consuming
// one. Publish and Close belong to the producer, Next and Serve to the consumer.
type Subscription struct {
	policy  Policy
	mu      sync.Mutex
	pending []*timesheet.Timesheet
	closed  bool
	notify  chan struct{}
	dropped int
}

func New(policy Policy) *Subscription {
	return &Subscription{
		policy: policy,
		notify: make(chan struct{}, 1),
	}
}

// Publish queues ts for the consumer and returns without waiting for it.
// Publishing to a closed subscription is a no-op and reports false.
func (s *Subscription) Publish(ts *timesheet.Timesheet) bool {
	if ts == nil {
		return false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	if s.policy == LatestOnly && len(s.pending) > 0 {
		s.dropped += len(s.pending)
		s.pending = s.pending[:0]
	}
	s.pending = append(s.pending, ts)
	s.mu.Unlock()

	s.wake()
	return true
}

// Close marks the end of the stream. Snapshots already published are still
// delivered.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.wake()
}

func (s *Subscription) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Next blocks until a snapshot is available, the subscription is closed and
// drained (ErrClosed), or ctx is done.
func (s *Subscription) Next(ctx context.Context) (*timesheet.Timesheet, error) {
	for {
		s.mu.Lock()
		if len(s.pending) > 0 {
			ts := s.pending[0]
			s.pending[0] = nil
			s.pending = s.pending[1:]
			s.mu.Unlock()
			return ts, nil
		}
		closed := s.closed
		s.mu.Unlock()

		if closed {
			return nil, ErrClosed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.notify:
		}
	}
}

// Serve delivers snapshots to h on the calling goroutine until the
// subscription is closed and drained, in which case it returns nil.
func (s *Subscription) Serve(ctx context.Context, h Handler) error {
	for {
		ts, err := s.Next(ctx)
		if errors.Is(err, ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		h.OnTimesheetUpdated(ts)
	}
}

// Pending reports how many snapshots wait for the consumer.
func (s *Subscription) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Dropped reports how many snapshots were superseded under LatestOnly.
func (s *Subscription) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}
