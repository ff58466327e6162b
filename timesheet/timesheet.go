package timesheet

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Record is a worked duration for one date, as a data source reports it.
type Record struct {
	Date     time.Time
	WorkTime time.Duration
}

// Timesheet is an immutable snapshot of one work week. Accessors hand out
// copies; nothing reachable from a published Timesheet can be changed.
type Timesheet struct {
	id         uuid.UUID
	week       Week
	producedAt time.Time
	workDays   []WorkDay
}

// Assemble builds a timesheet for week from records. Records may arrive in
// any order; the result is in calendar order. Duplicate dates, dates outside
// Monday to Friday of week and durations that don't fit a day are rejected
// with a *DataIntegrityError.
func Assemble(week Week, records []Record) (*Timesheet, error) {
	seen := make(map[time.Time]bool, len(records))
	workDays := make([]WorkDay, 0, len(records))

	for _, rec := range records {
		day := Day(rec.Date)
		if !week.Contains(day) {
			return nil, &DataIntegrityError{Date: day, Reason: fmt.Sprintf("date outside week %s", week)}
		}
		if seen[day] {
			return nil, &DataIntegrityError{Date: day, Reason: "duplicate date"}
		}
		seen[day] = true

		wd := NewWorkDay(day)
		if err := wd.SetWorkTime(rec.WorkTime); err != nil {
			return nil, &DataIntegrityError{Date: day, Reason: "invalid worked time " + rec.WorkTime.String(), Err: err}
		}
		workDays = append(workDays, wd)
	}

	slices.SortFunc(workDays, func(a, b WorkDay) int {
		return a.date.Compare(b.date)
	})

	return &Timesheet{
		id:         uuid.New(),
		week:       week,
		producedAt: time.Now(),
		workDays:   workDays,
	}, nil
}

// ID identifies the snapshot in logs.
func (ts *Timesheet) ID() uuid.UUID {
	return ts.id
}

func (ts *Timesheet) Week() Week {
	return ts.week
}

func (ts *Timesheet) ProducedAt() time.Time {
	return ts.producedAt
}

// WorkDays returns a copy of the week's records in calendar order.
func (ts *Timesheet) WorkDays() []WorkDay {
	return slices.Clone(ts.workDays)
}

// Day looks up the record for a weekday.
func (ts *Timesheet) Day(weekday time.Weekday) (WorkDay, bool) {
	for _, wd := range ts.workDays {
		if wd.date.Weekday() == weekday {
			return wd, true
		}
	}
	return WorkDay{}, false
}

// Total sums the worked time of the week.
func (ts *Timesheet) Total() time.Duration {
	var total time.Duration
	for _, wd := range ts.workDays {
		total += wd.workedTime
	}
	return total
}

func (ts *Timesheet) Len() int {
	return len(ts.workDays)
}
