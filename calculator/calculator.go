package calculator

import (
	"errors"
	"fmt"
	"time"

	"github.com/sporadisk/weekclock/logentry"
)

var ErrNoDay = errors.New("time entry before the first day header")

// DayTotal is the time worked on one day of a log.
type DayTotal struct {
	Date       time.Time
	DayName    string
	LineNumber int // line of the day header
	TimeWorked time.Duration
	Open       bool // still clocked in at the end of the day
}

// DayTotals splits entries at their day headers and sums the worked time of
// each day. A day whose entries don't add up (double clock-in, clock-out
// before clock-in, ...) fails the whole log. When now falls on a day that is
// still clocked in, the open stretch counts up to now.
func DayTotals(entries []logentry.Entry, now time.Time) ([]DayTotal, error) {
	var totals []DayTotal
	var current *daySum

	finish := func() error {
		if current == nil {
			return nil
		}
		total, err := current.total(now)
		if err != nil {
			return err
		}
		totals = append(totals, total)
		return nil
	}

	for _, entry := range entries {
		if entry.Action == logentry.ActionSetDay {
			if err := finish(); err != nil {
				return nil, err
			}
			current = newDaySum(entry)
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("line %d: %w", entry.LineNumber, ErrNoDay)
		}
		if err := current.add(entry); err != nil {
			return nil, err
		}
	}

	if err := finish(); err != nil {
		return nil, err
	}
	return totals, nil
}
