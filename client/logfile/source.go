package logfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sporadisk/weekclock/calculator"
	"github.com/sporadisk/weekclock/timesheet"
)

const (
	emptyReadRetries = 5
	emptyReadBackoff = 100 * time.Millisecond
)

// Source reads worked time from a plain text week log:
//
//	-- monday 24.02.2020
//	08:00 - Start
//	11:30 - Break
//	12:00 - Back
//	16:00 - Done
//	-- tuesday 25.02.2020
//	Flex: 7h 30m
type Source struct {
	FilePath string
	Logger   *log.Logger
	Now      func() time.Time
}

func NewSource(filePath string, logger *log.Logger) (*Source, error) {
	finfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("os.Stat: %w", err)
	}
	if finfo.IsDir() {
		return nil, fmt.Errorf("log path %s is a directory", filePath)
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Source{
		FilePath: filePath,
		Logger:   logger.With("source", "logfile"),
		Now:      time.Now,
	}, nil
}

// WorkedTime returns the days of week found in the log. Days outside the
// week are ignored; a day listed twice is passed on and rejected when the
// timesheet is assembled.
func (s *Source) WorkedTime(ctx context.Context, week timesheet.Week) ([]timesheet.Record, error) {
	b, err := readLoop(ctx, s.FilePath)
	if err != nil {
		return nil, fmt.Errorf("readLoop: %w", err)
	}

	lp := LogParser{DefaultYear: week.Monday.Year()}
	err = lp.Init()
	if err != nil {
		return nil, fmt.Errorf("lp.Init: %w", err)
	}

	entries := lp.Parse(string(b))
	for _, w := range lp.Warnings() {
		s.Logger.Warn("skipped log line", "file", s.FilePath, "warning", w)
	}

	totals, err := calculator.DayTotals(entries, s.now())
	if err != nil {
		return nil, timesheet.IntegrityError("invalid week log "+s.FilePath, err)
	}

	records := []timesheet.Record{}
	for _, total := range totals {
		if !week.Contains(total.Date) {
			continue
		}
		records = append(records, timesheet.Record{
			Date:     total.Date,
			WorkTime: total.TimeWorked,
		})
	}

	return records, nil
}

func (s *Source) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// readLoop reads the file, giving a writer that truncated it a moment to
// finish. A file that stays empty is an empty log.
func readLoop(ctx context.Context, filepath string) ([]byte, error) {
	for i := 0; ; i++ {
		b, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("os.ReadFile: %w", err)
		}

		if len(b) > 0 || i >= emptyReadRetries {
			return b, nil
		}

		// sometimes we get an empty file, probably because the file is being written to
		select {
		case <-ctx.Done():
			return nil, errors.Join(ctx.Err(), fmt.Errorf("file %s stayed empty", filepath))
		case <-time.After(emptyReadBackoff):
		}
	}
}
