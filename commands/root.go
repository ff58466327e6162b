package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sporadisk/weekclock/config"
	"github.com/sporadisk/weekclock/logging"
)

// App holds what the commands share. Conf and Logger are loaded before a
// command runs unless they are already set.
type App struct {
	ConfigPath string
	Conf       *config.Config
	Logger     *log.Logger
	In         io.Reader
	Now        func() time.Time
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) load(cmd *cobra.Command) error {
	if a.Conf == nil {
		conf, err := config.Load(a.ConfigPath)
		if err != nil {
			return fmt.Errorf("config.Load: %w", err)
		}
		a.Conf = conf
	}

	if a.Logger == nil {
		logger, err := logging.New(logging.Config{
			Level:  a.Conf.Log.Level,
			File:   a.Conf.Log.File,
			Debug:  a.Conf.Log.Debug,
			Stderr: cmd.ErrOrStderr(),
		})
		if err != nil {
			return fmt.Errorf("logging.New: %w", err)
		}
		a.Logger = logger
	}

	if a.In == nil {
		a.In = cmd.InOrStdin()
	}
	return nil
}

func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekclock",
		Short: "Keeps a running timesheet of the current work week",
		Long: `weekclock reads worked time from a log file, a local database or Timely,
and keeps a Monday to Friday timesheet of the current week up to date.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", app.ConfigPath, "Path to config file (default "+config.DefaultPath+")")

	cmd.AddCommand(
		newWatchCmd(app),
		newShowCmd(app),
		newLogCmd(app),
		newForgetCmd(app),
		newTimelyAuthCmd(app),
	)

	return cmd
}

// Execute runs the command line with a fresh App.
func Execute() error {
	return NewRootCmd(&App{}).Execute()
}
