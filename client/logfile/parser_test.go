package logfile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sporadisk/weekclock/logentry"
)

func parseAll(t *testing.T, defaultYear int, text string) ([]logentry.Entry, []string) {
	t.Helper()
	lp := LogParser{DefaultYear: defaultYear}
	require.NoError(t, lp.Init())
	return lp.Parse(text), lp.Warnings()
}

func actions(entries []logentry.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Action
	}
	return out
}

func TestParseWeek(t *testing.T) {
	entries, warnings := parseAll(t, 0, `
	--- week 9 ---
	-- monday 24.02.2020
	Flex: 2h 9m

	06:08 - Start
	09:46 - Break
	10:01 - Back
	18:30 - End

	-- tuesday 25.02.2020
	08:00 - on
	16:00 - off
	`)

	assert.Empty(t, warnings)
	assert.Equal(t, []string{
		logentry.ActionSetDay, logentry.ActionFlex,
		logentry.ActionClockIn, logentry.ActionClockOut, logentry.ActionClockIn, logentry.ActionClockOut,
		logentry.ActionSetDay, logentry.ActionClockIn, logentry.ActionClockOut,
	}, actions(entries))

	assert.Equal(t, time.Date(2020, time.February, 24, 0, 0, 0, 0, time.UTC), entries[0].Date())
	assert.Equal(t, "monday", entries[0].DayName)
	assert.Equal(t, 3, entries[0].LineNumber)
	assert.Equal(t, time.Date(2020, time.February, 25, 0, 0, 0, 0, time.UTC), entries[6].Date())
}

func TestParseTasks(t *testing.T) {
	entries, _ := parseAll(t, 2021, `
	-- monday 09.08

	06:00 - Start
	06:08 - Cows
	09:46 - Sheep
	12:01 - Break
	14:35 - Corn
	18:30 - End
	`)

	require.Len(t, entries, 7)
	assert.Equal(t, time.Date(2021, time.August, 9, 0, 0, 0, 0, time.UTC), entries[0].Date())

	var tasks []string
	for _, e := range entries {
		if e.Action == logentry.ActionStartTask {
			tasks = append(tasks, e.Task)
		}
	}
	assert.Equal(t, []string{"Cows", "Sheep", "Corn"}, tasks)
	assert.Equal(t, logentry.ActionClockOut, entries[4].Action)
}

func TestParseKeepsGoingAfterBadLines(t *testing.T) {
	entries, warnings := parseAll(t, 2020, `
	-- monday 32.02
	08:00 - Start
	-- tuesday 25.02
	25:00 - Start
	09:00 - Start
	`)

	assert.Equal(t, []string{
		logentry.ActionClockIn, logentry.ActionSetDay, logentry.ActionClockIn,
	}, actions(entries))
	assert.Len(t, warnings, 3)
}
