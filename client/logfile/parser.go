package logfile

import (
	"fmt"
	"regexp"
	"time"

	"github.com/sporadisk/weekclock/logentry"
)

// LogParser turns a week log into entries. Init must be called first.
type LogParser struct {
	// DefaultYear is used for day headers without a year. Zero means the
	// current year.
	DefaultYear int

	rules    []*lineRule
	warnings []string
}

// lineRule recognises one kind of line. Rules are tried in order; a line
// whose values can't be read falls through to the next rule unless the rule
// is final.
type lineRule struct {
	name    string
	expr    string
	final   bool
	read    func(l *LogParser, match []string, entry *logentry.Entry) error
	pattern *regexp.Regexp
}

func (l *LogParser) Init() error {
	rules := []*lineRule{
		{name: "start time", expr: startPatternRegex, read: readClockIn},
		{name: "stop time", expr: stopPatternRegex, read: readClockOut},
		{name: "task time", expr: taskPatternRegex, read: readTaskStart},
		{name: "flex duration", expr: flexPatternRegex, read: readFlex},
		{name: "date", expr: fullDatePatternRegex, read: readFullDate, final: true},
		{name: "day and month", expr: dayMonthPatternRegex, read: readDayAndMonth, final: true},
	}

	for _, rule := range rules {
		compiled, err := regexp.Compile(rule.expr)
		if err != nil {
			return fmt.Errorf("failed to compile %s pattern: %w", rule.name, err)
		}
		rule.pattern = compiled
	}

	if l.DefaultYear == 0 {
		l.DefaultYear = time.Now().Year()
	}
	l.rules = rules
	l.warnings = []string{}
	return nil
}

// Warnings lists lines that looked like entries but could not be read.
func (l *LogParser) Warnings() []string {
	return l.warnings
}

func (l *LogParser) addWarningf(format string, v ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, v...))
}
