package logfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sporadisk/weekclock/format"
	"github.com/sporadisk/weekclock/logentry"
)

const (
	startPatternRegex    = `(?i)^\s*(\d+:\d+)\s+-\s+(start|on|back|resume)`
	stopPatternRegex     = `(?i)^\s*(\d+:\d+)\s+-\s+(stop|break|pause|done|off|end)`
	taskPatternRegex     = `^\s*(\d+:\d+)\s+-\s+(.+)` // any other timestamped line
	flexPatternRegex     = `(?i)^\s*flex:\s*([\dhm ]+)`
	fullDatePatternRegex = `^\s*--\s*(\p{L}+)\s+(\d+)\.(\d+)\.(\d+)`
	dayMonthPatternRegex = `^\s*--\s*(\p{L}+)\s+(\d+)\.(\d+)`

	commandFlex = "flex"
)

// Parse reads a log text line by line. Lines that are not entries are skipped.
func (l *LogParser) Parse(text string) []logentry.Entry {
	entries := []logentry.Entry{}
	for i, line := range strings.Split(text, "\n") {
		if ok, entry := l.parseLine(line, i+1); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func (l *LogParser) parseLine(text string, lineNumber int) (bool, logentry.Entry) {
	for _, rule := range l.rules {
		match := rule.pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		entry := logentry.Entry{LineNumber: lineNumber}
		err := rule.read(l, match, &entry)
		if err == nil {
			return true, entry
		}

		l.addWarningf("line %d: could not read %s from %q: %s", lineNumber, rule.name, strings.TrimSpace(match[0]), err)
		if rule.final {
			break
		}
	}
	return false, logentry.Entry{}
}

func readStamped(action string) func(*LogParser, []string, *logentry.Entry) error {
	return func(_ *LogParser, match []string, entry *logentry.Entry) error {
		ts, err := format.ParseTimestamp(match[1])
		if err != nil {
			return err
		}
		entry.Action = action
		entry.Command = match[2]
		entry.Timestamp = &ts
		return nil
	}
}

var (
	readClockIn  = readStamped(logentry.ActionClockIn)
	readClockOut = readStamped(logentry.ActionClockOut)
)

// readTaskStart handles "11:00 - Support: printer". It ends the previous
// task and starts the named one.
func readTaskStart(l *LogParser, match []string, entry *logentry.Entry) error {
	err := readStamped(logentry.ActionStartTask)(l, match, entry)
	if err != nil {
		return err
	}
	entry.Command = logentry.ActionStartTask
	entry.Task = strings.TrimSpace(match[2])
	return nil
}

func readFlex(_ *LogParser, match []string, entry *logentry.Entry) error {
	d, err := format.ParseDuration(match[1])
	if err != nil {
		return err
	}
	entry.Action = logentry.ActionFlex
	entry.Command = commandFlex
	entry.Duration = &d
	return nil
}

// readFullDate handles "-- monday 24.02.2020".
func readFullDate(_ *LogParser, match []string, entry *logentry.Entry) error {
	year, err := strconv.Atoi(match[4])
	if err != nil {
		return fmt.Errorf("year %q: %w", match[4], err)
	}
	return setDay(entry, match[1], match[2], match[3], year)
}

// readDayAndMonth handles "-- monday 24.02", taking the year from the parser.
func readDayAndMonth(l *LogParser, match []string, entry *logentry.Entry) error {
	return setDay(entry, match[1], match[2], match[3], l.DefaultYear)
}

func setDay(entry *logentry.Entry, dayName, dayStr, monthStr string, year int) error {
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return fmt.Errorf("day %q: %w", dayStr, err)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return fmt.Errorf("month %q: %w", monthStr, err)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("month value out of range: %d", month)
	}
	if day < 1 || day > 31 {
		return fmt.Errorf("day value out of range: %d", day)
	}

	entry.Action = logentry.ActionSetDay
	entry.DayName = dayName
	entry.Day = day
	entry.Month = month
	entry.Year = year
	return nil
}
