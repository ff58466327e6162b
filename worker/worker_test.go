package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sporadisk/weekclock/timesheet"
	"github.com/sporadisk/weekclock/updates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wednesday 26.02.2020
var now = time.Date(2020, time.February, 26, 10, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2020, time.February, d, 0, 0, 0, 0, time.UTC)
}

// fakeSource answers each cycle with the next entry of results, repeating the
// last one. With gate set it blocks inside WorkedTime until the gate closes.
type fakeSource struct {
	mu      sync.Mutex
	calls   int
	results []fakeResult
	entered chan struct{}
	gate    chan struct{}
}

type fakeResult struct {
	records []timesheet.Record
	err     error
}

func (f *fakeSource) WorkedTime(ctx context.Context, week timesheet.Week) ([]timesheet.Record, error) {
	f.mu.Lock()
	i := f.calls
	f.calls++
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}

	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return f.results[i].records, f.results[i].err
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func mondayTuesday() fakeResult {
	return fakeResult{records: []timesheet.Record{
		{Date: day(25), WorkTime: 7*time.Hour + 30*time.Minute},
		{Date: day(24), WorkTime: 8 * time.Hour},
	}}
}

func newTestWorker(t *testing.T, src Source, mutate ...func(*Config)) *Worker {
	t.Helper()
	conf := Config{
		Source: src,
		Logger: log.New(io.Discard),
		Now:    func() time.Time { return now },
	}
	for _, m := range mutate {
		m(&conf)
	}
	w, err := New(conf)
	require.NoError(t, err)
	return w
}

func next(t *testing.T, sub *updates.Subscription) *timesheet.Timesheet {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ts, err := sub.Next(ctx)
	require.NoError(t, err)
	return ts
}

func requireClosed(t *testing.T, sub *updates.Subscription) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := sub.Next(ctx)
	require.ErrorIs(t, err, updates.ErrClosed)
}

func TestNewRequiresSource(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = New(Config{Source: &fakeSource{}, Interval: -time.Second})
	assert.Error(t, err)
}

func TestOneCycle(t *testing.T) {
	src := &fakeSource{results: []fakeResult{mondayTuesday()}}
	w := newTestWorker(t, src)

	sub, err := w.Subscribe()
	require.NoError(t, err)

	w.Start()
	w.Trigger()

	ts := next(t, sub)
	w.Stop()
	w.Join()

	days := ts.WorkDays()
	require.Len(t, days, 2)
	assert.True(t, days[0].Date().Equal(day(24)))
	assert.Equal(t, 8*time.Hour, days[0].WorkTime())
	assert.True(t, days[1].Date().Equal(day(25)))
	assert.Equal(t, 7*time.Hour+30*time.Minute, days[1].WorkTime())
	assert.True(t, ts.Week().Monday.Equal(day(24)))

	requireClosed(t, sub)
	assert.Equal(t, StateStopped, w.State())

	published, failed := w.Cycles()
	assert.Equal(t, 1, published)
	assert.Equal(t, 0, failed)
}

func TestStopBeforeAnyCycle(t *testing.T) {
	src := &fakeSource{results: []fakeResult{mondayTuesday()}}
	w := newTestWorker(t, src)

	sub, err := w.Subscribe()
	require.NoError(t, err)

	called := false
	w.Start()
	w.Stop()
	w.Join()

	err = sub.Serve(context.Background(), updates.HandlerFunc(func(*timesheet.Timesheet) {
		called = true
	}))
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, 0, src.Calls())
}

func TestStopDuringProducingStillPublishes(t *testing.T) {
	src := &fakeSource{
		results: []fakeResult{mondayTuesday()},
		entered: make(chan struct{}, 1),
		gate:    make(chan struct{}),
	}
	w := newTestWorker(t, src)
	sub, err := w.Subscribe()
	require.NoError(t, err)

	w.Start()
	w.Trigger()
	<-src.entered
	assert.Equal(t, StateProducing, w.State())

	w.Stop()

	joined := make(chan struct{})
	go func() {
		w.Join()
		close(joined)
	}()

	select {
	case <-joined:
		t.Fatal("worker terminated in the middle of a cycle")
	case <-time.After(50 * time.Millisecond):
	}

	close(src.gate)
	<-joined

	ts := next(t, sub)
	assert.Equal(t, 2, ts.Len())
	requireClosed(t, sub)
}

func TestFailedCycleIsNotFatal(t *testing.T) {
	duplicate := fakeResult{records: []timesheet.Record{
		{Date: day(24), WorkTime: time.Hour},
		{Date: day(24), WorkTime: 2 * time.Hour},
	}}
	src := &fakeSource{results: []fakeResult{duplicate, mondayTuesday()}}
	w := newTestWorker(t, src)
	sub, err := w.Subscribe()
	require.NoError(t, err)

	w.Start()
	w.Trigger()

	select {
	case err := <-w.Diagnostics():
		var die *timesheet.DataIntegrityError
		assert.True(t, errors.As(err, &die), "expected a DataIntegrityError, got %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no diagnostic for the failed cycle")
	}
	assert.Equal(t, 0, sub.Pending())

	w.Trigger()
	ts := next(t, sub)
	assert.Equal(t, 2, ts.Len())

	w.Stop()
	w.Join()
	requireClosed(t, sub)

	published, failed := w.Cycles()
	assert.Equal(t, 1, published)
	assert.Equal(t, 1, failed)
}

func TestSourceErrorBecomesIntegrityError(t *testing.T) {
	boom := errors.New("log file unreadable")
	src := &fakeSource{results: []fakeResult{{err: boom}}}
	w := newTestWorker(t, src)

	w.Start()
	w.Trigger()

	select {
	case err := <-w.Diagnostics():
		var die *timesheet.DataIntegrityError
		assert.True(t, errors.As(err, &die))
		assert.ErrorIs(t, err, boom)
	case <-time.After(5 * time.Second):
		t.Fatal("no diagnostic for the failed cycle")
	}

	w.Stop()
	w.Join()
}

func TestPanickingSourceIsContained(t *testing.T) {
	src := SourceFunc(func(context.Context, timesheet.Week) ([]timesheet.Record, error) {
		panic("unexpected")
	})
	w := newTestWorker(t, src)

	w.Start()
	w.Trigger()

	select {
	case err := <-w.Diagnostics():
		assert.ErrorIs(t, err, errSourcePanicked)
	case <-time.After(5 * time.Second):
		t.Fatal("no diagnostic for the panicking source")
	}

	w.Stop()
	w.Join()
}

func TestIntervalCyclesArriveInOrder(t *testing.T) {
	var mu sync.Mutex
	cycle := 0
	src := SourceFunc(func(context.Context, timesheet.Week) ([]timesheet.Record, error) {
		mu.Lock()
		defer mu.Unlock()
		cycle++
		return []timesheet.Record{{Date: day(24), WorkTime: time.Duration(cycle) * time.Minute}}, nil
	})
	w := newTestWorker(t, src, func(c *Config) {
		c.Interval = 5 * time.Millisecond
		c.RunOnStart = true
	})
	sub, err := w.Subscribe()
	require.NoError(t, err)

	w.Start()
	var got []time.Duration
	for len(got) < 5 {
		ts := next(t, sub)
		got = append(got, ts.WorkDays()[0].WorkTime())
	}
	w.Stop()
	w.Join()

	for i, d := range got {
		assert.Equal(t, time.Duration(i+1)*time.Minute, d)
	}

	// whatever was still queued keeps counting up
	last := got[len(got)-1]
	err = sub.Serve(context.Background(), updates.HandlerFunc(func(ts *timesheet.Timesheet) {
		d := ts.WorkDays()[0].WorkTime()
		assert.Equal(t, last+time.Minute, d)
		last = d
	}))
	require.NoError(t, err)
}

func TestLifecycleCalls(t *testing.T) {
	src := &fakeSource{results: []fakeResult{mondayTuesday()}}

	t.Run("stop and join without start", func(t *testing.T) {
		w := newTestWorker(t, src)
		w.Join()
		w.Stop()
		w.Stop()
		w.Join()
		assert.Equal(t, StateStopped, w.State())
	})

	t.Run("start twice", func(t *testing.T) {
		w := newTestWorker(t, src)
		w.Start()
		w.Start()
		assert.NotEqual(t, StateStopped, w.State())
		w.Stop()
		w.Join()
		assert.Equal(t, StateStopped, w.State())
	})

	t.Run("start after stop", func(t *testing.T) {
		w := newTestWorker(t, src)
		w.Start()
		w.Stop()
		w.Join()
		w.Start()
		w.Join()
		assert.Equal(t, StateStopped, w.State())
	})

	t.Run("single subscriber", func(t *testing.T) {
		w := newTestWorker(t, src)
		_, err := w.Subscribe()
		require.NoError(t, err)
		_, err = w.Subscribe()
		assert.ErrorIs(t, err, ErrAlreadySubscribed)
	})
}

func TestCycleTimeout(t *testing.T) {
	src := SourceFunc(func(ctx context.Context, _ timesheet.Week) ([]timesheet.Record, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	w := newTestWorker(t, src, func(c *Config) {
		c.CycleTimeout = 10 * time.Millisecond
	})

	w.Start()
	w.Trigger()

	select {
	case err := <-w.Diagnostics():
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("cycle did not time out")
	}

	w.Stop()
	w.Join()
}
