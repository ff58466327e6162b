package timesheet

import (
	"time"

	"github.com/sporadisk/weekclock/format"
)

// WorkDay is the time worked on one calendar day. The date is fixed when the
// record is created.
type WorkDay struct {
	date       time.Time
	workedTime time.Duration
}

func NewWorkDay(date time.Time) WorkDay {
	return WorkDay{date: Day(date)}
}

func (wd WorkDay) Date() time.Time {
	return wd.date
}

func (wd WorkDay) WorkTime() time.Duration {
	return wd.workedTime
}

// SetWorkTime replaces the recorded duration. The previous value is kept when
// d does not fit within a day.
func (wd *WorkDay) SetWorkTime(d time.Duration) error {
	if d < 0 || d >= 24*time.Hour {
		return ErrUnrepresentable
	}
	wd.workedTime = d
	return nil
}

// SetWorkTimeText parses text with a clock layout such as "H:mm" and applies
// the result. On failure a *ParseError is returned and nothing changes.
func (wd *WorkDay) SetWorkTimeText(text, layout string) error {
	d, err := format.ParseClock(text, layout)
	if err != nil {
		return &ParseError{Text: text, Layout: layout, Err: err}
	}
	return wd.SetWorkTime(d)
}

// Format renders the worked time with a clock layout.
func (wd WorkDay) Format(layout string) string {
	return format.Clock(wd.workedTime, layout)
}
