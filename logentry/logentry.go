package logentry

import "time"

const (
	ActionClockIn   = "on"
	ActionClockOut  = "off"
	ActionStartTask = "starttask"
	ActionFlex      = "flex"
	ActionSetDay    = "setday"
)

type Entry struct {
	Action     string // the action to perform based on the interpretation of the command
	Command    string // the actual command used on the original line
	Task       string // optional task name
	Timestamp  *time.Time
	Duration   *time.Duration
	LineNumber int
	DayName    string
	Day        int
	Month      int
	Year       int
}

// Date returns the calendar day a setday entry opens.
func (e Entry) Date() time.Time {
	return time.Date(e.Year, time.Month(e.Month), e.Day, 0, 0, 0, 0, time.UTC)
}
