package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sporadisk/weekclock/client/logfile"
	"github.com/sporadisk/weekclock/client/sqlite"
	"github.com/sporadisk/weekclock/client/timely"
	"github.com/sporadisk/weekclock/config"
	"github.com/sporadisk/weekclock/updates"
	"github.com/sporadisk/weekclock/worker"
)

const (
	paramFile          = "file"
	paramPath          = "path"
	paramApplicationID = "applicationId"
	paramSecret        = "secret"
	paramAccountID     = "accountId"
	paramEndpoint      = "endpoint"
	paramTokenDir      = "tokenDir"

	defaultDatabaseFile = "weekclock.db"
	cycleTimeout        = 30 * time.Second
)

// openedSource is a configured data source. WatchPath is set for sources
// backed by a local file that can be watched for changes.
type openedSource struct {
	worker.Source
	WatchPath string
	close     func() error
}

func (s *openedSource) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func (a *App) openSource(ctx context.Context) (*openedSource, error) {
	src := a.Conf.Source

	switch src.Name {
	case config.SourceLogfile:
		params, err := src.RequiredParams(paramFile)
		if err != nil {
			return nil, err
		}
		lf, err := logfile.NewSource(params[paramFile], a.Logger)
		if err != nil {
			return nil, fmt.Errorf("logfile.NewSource: %w", err)
		}
		lf.Now = a.now
		return &openedSource{Source: lf, WatchPath: params[paramFile]}, nil

	case config.SourceSqlite:
		store, err := a.openStore()
		if err != nil {
			return nil, err
		}
		return &openedSource{Source: store, close: store.Close}, nil

	case config.SourceTimely:
		c, err := a.timelyClient()
		if err != nil {
			return nil, err
		}
		err = c.Init(ctx)
		if err != nil {
			return nil, fmt.Errorf("timely.Init: %w", err)
		}
		return &openedSource{Source: c}, nil
	}

	return nil, fmt.Errorf("unknown source %q", src.Name)
}

// openStore opens the SQLite database. The sqlite source's path is used when
// configured, so that logged time shows up in the timesheet.
func (a *App) openStore() (*sqlite.Store, error) {
	path := ""
	if a.Conf.Source.Name == config.SourceSqlite {
		path = a.Conf.Source.Params[paramPath]
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		path = filepath.Join(home, ".weekclock", defaultDatabaseFile)
	}

	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: %w", err)
	}
	return store, nil
}

func (a *App) timelyClient() (*timely.Client, error) {
	src := a.Conf.Source
	if src.Name != config.SourceTimely {
		return nil, fmt.Errorf("the configured source is %q, not %q", src.Name, config.SourceTimely)
	}

	params, err := src.RequiredParams(paramApplicationID, paramSecret, paramAccountID)
	if err != nil {
		return nil, err
	}
	accountID, err := strconv.Atoi(params[paramAccountID])
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", paramAccountID, params[paramAccountID], err)
	}

	return &timely.Client{
		Endpoint:      src.Params[paramEndpoint],
		ApplicationID: params[paramApplicationID],
		ClientSecret:  params[paramSecret],
		AccountID:     accountID,
		TokenDir:      src.Params[paramTokenDir],
		Logger:        a.Logger,
	}, nil
}

func (a *App) newWorker(src worker.Source, interval time.Duration, runOnStart bool) (*worker.Worker, error) {
	policy := updates.KeepAll
	if a.Conf.Output.Policy == config.PolicyLatestOnly {
		policy = updates.LatestOnly
	}

	return worker.New(worker.Config{
		Source:       src,
		Interval:     interval,
		RunOnStart:   runOnStart,
		CycleTimeout: cycleTimeout,
		Policy:       policy,
		Logger:       a.Logger,
		Now:          a.now,
	})
}
