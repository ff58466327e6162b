package timesheet

import "time"

// DateLayout is how dates are stored and passed around as text.
const DateLayout = "2006-01-02"

// Day strips the clock from t and returns the calendar day it falls on, in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay reads a date written as DateLayout.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Week is the Monday to Friday span a timesheet covers.
type Week struct {
	Monday time.Time
}

// WeekOf returns the work week t belongs to. Saturday and Sunday belong to
// the week that started on the Monday before them.
func WeekOf(t time.Time) Week {
	day := Day(t)
	offset := (int(day.Weekday()) + 6) % 7 // days since monday
	return Week{Monday: day.AddDate(0, 0, -offset)}
}

func (w Week) Friday() time.Time {
	return w.Monday.AddDate(0, 0, 4)
}

// Contains reports whether date is a weekday of w.
func (w Week) Contains(date time.Time) bool {
	day := Day(date)
	return !day.Before(w.Monday) && !day.After(w.Friday())
}

// Days lists Monday through Friday.
func (w Week) Days() []time.Time {
	days := make([]time.Time, 0, 5)
	for i := 0; i < 5; i++ {
		days = append(days, w.Monday.AddDate(0, 0, i))
	}
	return days
}

func (w Week) Next() Week {
	return Week{Monday: w.Monday.AddDate(0, 0, 7)}
}

func (w Week) String() string {
	return w.Monday.Format(DateLayout) + " - " + w.Friday().Format(DateLayout)
}
