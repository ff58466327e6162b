package calculator

import (
	"fmt"
	"time"

	"github.com/sporadisk/weekclock/format"
	"github.com/sporadisk/weekclock/logentry"
)

const (
	stateInit = "init"
	stateOn   = "on"
	stateOff  = "off"
	stateFlex = "flex"
)

type daySum struct {
	header      logentry.Entry
	logState    string
	lastOn      time.Time
	lastOff     time.Time
	worked      time.Duration
	prevCommand string
}

func newDaySum(header logentry.Entry) *daySum {
	return &daySum{
		header:      header,
		logState:    stateInit,
		prevCommand: "--start of day--",
	}
}

func (c *daySum) add(entry logentry.Entry) error {
	var err error
	switch entry.Action {
	case logentry.ActionClockIn:
		err = c.clockIn(entry)
	case logentry.ActionStartTask:
		// switching task while clocked in closes the previous stretch
		if c.logState == stateOn {
			if err = c.clockOut(entry); err != nil {
				return err
			}
		}
		err = c.clockIn(entry)
	case logentry.ActionClockOut:
		err = c.clockOut(entry)
	case logentry.ActionFlex:
		err = c.flex(entry)
	}
	if err != nil {
		return fmt.Errorf("%s %02d.%02d: %w", c.header.DayName, c.header.Day, c.header.Month, err)
	}

	c.prevCommand = entry.Command
	return nil
}

func (c *daySum) clockIn(entry logentry.Entry) error {
	if c.logState == stateOn {
		return fmt.Errorf("duplicate clock-in on line %d", entry.LineNumber)
	}

	if entry.Timestamp.Before(c.lastOff) && !c.lastOff.IsZero() {
		return fmt.Errorf("clock-in at %s on line %d occurs prior to the previous clock-out (%s)",
			format.Timestamp(*entry.Timestamp),
			entry.LineNumber,
			format.Timestamp(c.lastOff),
		)
	}

	c.lastOn = *entry.Timestamp
	c.logState = stateOn
	return nil
}

func (c *daySum) clockOut(entry logentry.Entry) error {
	if c.logState != stateOn {
		return fmt.Errorf(`clock-out at %s on line %d follows "%s", should follow a clock-in`,
			format.Timestamp(*entry.Timestamp), entry.LineNumber, c.logState)
	}

	if !entry.Timestamp.After(c.lastOn) {
		return fmt.Errorf(`clock-out on line %d has an earlier timestamp than its corresponding "%s"`,
			entry.LineNumber, c.prevCommand)
	}

	c.lastOff = *entry.Timestamp
	c.logState = stateOff
	c.worked += entry.Timestamp.Sub(c.lastOn)
	return nil
}

func (c *daySum) flex(entry logentry.Entry) error {
	if c.logState == stateOn {
		return fmt.Errorf("flex time entry on line %d follows a clock-in, which is wrong", entry.LineNumber)
	}

	c.logState = stateFlex
	c.worked += *entry.Duration
	return nil
}

func (c *daySum) total(now time.Time) (DayTotal, error) {
	date := c.header.Date()
	if date.Day() != c.header.Day || int(date.Month()) != c.header.Month {
		return DayTotal{}, fmt.Errorf("line %d: %02d.%02d.%d is not a valid date",
			c.header.LineNumber, c.header.Day, c.header.Month, c.header.Year)
	}

	total := DayTotal{
		Date:       date,
		DayName:    c.header.DayName,
		LineNumber: c.header.LineNumber,
		TimeWorked: c.worked,
		Open:       c.logState == stateOn,
	}

	if total.Open && sameDay(date, now) {
		// timestamps only carry a clock; compare on the clock of now
		clock := time.Date(0, 1, 1, now.Hour(), now.Minute(), 0, 0, time.UTC)
		if clock.After(c.lastOn) {
			total.TimeWorked += clock.Sub(c.lastOn)
		}
	}

	return total, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
