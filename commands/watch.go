package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sporadisk/weekclock/client/terminal"
	"github.com/sporadisk/weekclock/filewatcher"
	"github.com/sporadisk/weekclock/timesheet"
	"github.com/sporadisk/weekclock/worker"
)

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the timesheet of the current week on screen",
		Long: `Prints the timesheet of the current week every time it is recomputed:
on start, every interval, and when a watched log file changes.
Interrupt to stop; a computation in progress is finished and printed first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, app, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runWatch(ctx context.Context, app *App, out, errOut io.Writer) error {
	src, err := app.openSource(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	interval, err := app.Conf.IntervalDuration()
	if err != nil {
		return err
	}

	w, err := app.newWorker(src, interval, app.Conf.ShouldRunOnStart())
	if err != nil {
		return fmt.Errorf("worker.New: %w", err)
	}
	sub, err := w.Subscribe()
	if err != nil {
		return fmt.Errorf("Subscribe: %w", err)
	}

	term := &terminal.Client{
		TimeFormat: app.Conf.Output.TimeFormat,
		Out:        out,
		Logger:     app.Logger,
	}
	err = term.Init()
	if err != nil {
		return fmt.Errorf("terminal.Init: %w", err)
	}

	go reportFailures(ctx, w, errOut)

	if src.WatchPath != "" && app.Conf.ShouldWatch() {
		fw := &filewatcher.Watcher{
			FilePath: src.WatchPath,
			OnChange: w.Trigger,
			Logger:   app.Logger,
		}
		go func() {
			err := fw.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				app.Logger.Error("file watcher stopped", "file", src.WatchPath, "err", err)
			}
		}()
	}

	w.Start()
	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	// The subscription is closed once the worker has exited; everything
	// published before that is still delivered.
	err = sub.Serve(context.WithoutCancel(ctx), term)
	w.Join()
	if err != nil {
		return fmt.Errorf("Serve: %w", err)
	}

	published, failed := w.Cycles()
	app.Logger.Debug("watch finished", "published", published, "failed", failed, "dropped", sub.Dropped())
	return nil
}

// reportFailures prints failed cycles below the timesheet. The worker logs
// them too, but the log may be going to a file.
func reportFailures(ctx context.Context, w *worker.Worker, errOut io.Writer) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.Diagnostics():
			var die *timesheet.DataIntegrityError
			if errors.As(err, &die) && !die.Date.IsZero() {
				fmt.Fprintf(errOut, "Could not update timesheet for %s: %s\n", die.Date.Format(timesheet.DateLayout), err)
				continue
			}
			fmt.Fprintf(errOut, "Could not update timesheet: %s\n", err)
		}
	}
}
