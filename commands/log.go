package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sporadisk/weekclock/client/sqlite"
	"github.com/sporadisk/weekclock/console"
	"github.com/sporadisk/weekclock/format"
	"github.com/sporadisk/weekclock/parameter"
	"github.com/sporadisk/weekclock/timesheet"
)

func newLogCmd(app *App) *cobra.Command {
	var layout, note string
	var add, yes bool

	cmd := &cobra.Command{
		Use:   "log DATE TIME",
		Short: "Record worked time for a day in the local database",
		Long: `Records worked time for a day. DATE is YYYY-MM-DD, "today" or "yesterday".
TIME is read with --format, for example 7:30 with the default H:mm.

Examples:
  weekclock log today 7:30
  weekclock log 2020-02-24 "8h15" --format "H'h'mm"
  weekclock log yesterday 0:45 --add`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			day, err := parseDate(args[0], app.now())
			if err != nil {
				return err
			}

			wd := timesheet.NewWorkDay(day)
			err = wd.SetWorkTimeText(args[1], layout)
			if err != nil {
				return err
			}

			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			existing, err := store.Get(ctx, day)
			found := err == nil
			if err != nil && !errors.Is(err, sqlite.ErrNotFound) {
				return fmt.Errorf("store.Get: %w", err)
			}

			if add {
				total := timesheet.NewWorkDay(day)
				err = total.SetWorkTime(existing + wd.WorkTime())
				if err != nil {
					return fmt.Errorf("adding %s to %s: %w", wd.Format(layout), format.DurationHM(existing), err)
				}
				err = store.Add(ctx, day, wd.WorkTime(), note)
				if err != nil {
					return fmt.Errorf("store.Add: %w", err)
				}
				fmt.Fprintf(out, "Logged %s on %s, %s in total\n", wd.Format(layout), format.Date(day), total.Format(layout))
				return nil
			}

			if found && !yes {
				prompt := fmt.Sprintf("%s already has %s logged. Replace it with %s?", format.Date(day), format.DurationHM(existing), wd.Format(layout))
				if !console.Confirm(app.In, out, prompt) {
					fmt.Fprintln(out, "Nothing changed.")
					return nil
				}
			}

			err = store.Set(ctx, day, wd.WorkTime(), note)
			if err != nil {
				return fmt.Errorf("store.Set: %w", err)
			}
			fmt.Fprintf(out, "Logged %s on %s\n", wd.Format(layout), format.Date(day))
			return nil
		},
	}

	cmd.Flags().StringVar(&layout, "format", format.EntryClock, "Layout of TIME (H, HH, m, mm, s, ss and 'quoted' text)")
	cmd.Flags().StringVar(&note, "note", "", "Note stored with the entry")
	cmd.Flags().BoolVar(&add, "add", false, "Add to the time already logged instead of replacing it")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Replace existing time without asking")

	return cmd
}

func newForgetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "forget DATE",
		Short: "Remove the worked time logged for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDate(args[0], app.now())
			if err != nil {
				return err
			}

			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			err = store.Delete(cmd.Context(), day)
			if errors.Is(err, sqlite.ErrNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing logged on %s\n", format.Date(day))
				return nil
			}
			if err != nil {
				return fmt.Errorf("store.Delete: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed time logged on %s\n", format.Date(day))
			return nil
		},
	}
}

func parseDate(arg string, now time.Time) (time.Time, error) {
	switch parameter.Clean(arg) {
	case "today":
		return timesheet.Day(now), nil
	case "yesterday":
		return timesheet.Day(now).AddDate(0, 0, -1), nil
	}

	day, err := timesheet.ParseDay(arg)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", arg, err)
	}
	return day, nil
}
