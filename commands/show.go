package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sporadisk/weekclock/client/terminal"
	"github.com/sporadisk/weekclock/timesheet"
)

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the timesheet of the current week once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := produceOnce(cmd.Context(), app)
			if err != nil {
				return err
			}

			term := &terminal.Client{
				TimeFormat: app.Conf.Output.TimeFormat,
				Out:        cmd.OutOrStdout(),
				Logger:     app.Logger,
			}
			err = term.Init()
			if err != nil {
				return fmt.Errorf("terminal.Init: %w", err)
			}
			term.OnTimesheetUpdated(ts)
			return nil
		},
	}
}

type cycleResult struct {
	ts  *timesheet.Timesheet
	err error
}

// produceOnce runs a worker for a single cycle and returns its snapshot or
// the reason the cycle failed.
func produceOnce(ctx context.Context, app *App) (*timesheet.Timesheet, error) {
	src, err := app.openSource(ctx)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	w, err := app.newWorker(src, 0, true)
	if err != nil {
		return nil, fmt.Errorf("worker.New: %w", err)
	}
	sub, err := w.Subscribe()
	if err != nil {
		return nil, fmt.Errorf("Subscribe: %w", err)
	}

	w.Start()
	defer w.Join()
	defer w.Stop()

	next := make(chan cycleResult, 1)
	go func() {
		ts, err := sub.Next(ctx)
		next <- cycleResult{ts: ts, err: err}
	}()

	select {
	case r := <-next:
		if r.err != nil {
			return nil, fmt.Errorf("Next: %w", r.err)
		}
		return r.ts, nil
	case err := <-w.Diagnostics():
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
