package calculator_test

import (
	"log"
	"testing"
	"time"

	"github.com/sporadisk/weekclock/calculator"
	"github.com/sporadisk/weekclock/client/logfile"
	"github.com/sporadisk/weekclock/format"
)

// wednesday 26.02.2020, 13:30
var now = time.Date(2020, time.February, 26, 13, 30, 0, 0, time.UTC)

func TestDayTotals(t *testing.T) {
	tests := []*calcTest{
		newCalcTest("single day", true, `
			-- monday 24.02.2020
			08:00 - Start
			16:00 - Stop
		`).expectDay(24, "8h"),
		newCalcTest("breaks and flex", true, `
			--- begin ---
			-- tuesday 25.02.2020
			Flex: 89m

			08:15 - Start
			11:35 - Break

			11:45 - Back
			14:35 - Break
		`).expectDay(25, "7h 39m"),
		newCalcTest("two days", true, `
			-- monday 24.02.2020
			08:00 - Start
			12:00 - Break
			12:30 - Back
			16:00 - Done

			-- tuesday 25.02.2020
			07:00 - Start
			14:30 - Done
		`).expectDay(24, "7h 30m").expectDay(25, "7h 30m"),
		newCalcTest("tasks switch without clock-out", true, `
			-- monday 24.02.2020
			08:02 - Debate: Can swallows carry coconuts?
			08:12 - Fetch: Excalibur
			12:00 - Pause
			12:15 - Combat: The Black Knight
			12:30 - Done
		`).expectDay(24, "4h 13m"),
		newCalcTest("open today counts to now", true, `
			-- wednesday 26.02.2020
			08:00 - Start
		`).expectDay(26, "5h 30m"),
		newCalcTest("open day in the past", true, `
			-- monday 24.02.2020
			08:00 - Start
			10:00 - Stop
			11:00 - Start
		`).expectDay(24, "2h"),
		newCalcTest("empty day", true, `
			-- thursday 27.02.2020
		`).expectDay(27, "0m"),
		newCalcTest("no entries", true, "\n\n\n\t ---"),
		newCalcTest("end before start", false, `
			-- monday 24.02.2020
			07:06 - On
			06:50 - Off
		`),
		newCalcTest("double start", false, `
			-- monday 24.02.2020
			04:30 - On
			06:30 - On
		`),
		newCalcTest("start with end", false, `
			-- monday 24.02.2020
			19:06 - end
		`),
		newCalcTest("flex while clocked in", false, `
			-- monday 24.02.2020
			08:00 - Start
			Flex: 1h
		`),
		newCalcTest("entry before day header", false, `
			08:00 - Start
			-- monday 24.02.2020
		`),
		newCalcTest("impossible date", false, `
			-- friday 30.02.2020
			08:00 - Start
			09:00 - Stop
		`),
	}

	lp := logfile.LogParser{}
	err := lp.Init()
	if err != nil {
		t.Errorf("lp.Init: %s", err.Error())
		return
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			entries := lp.Parse(test.input)
			totals, err := calculator.DayTotals(entries, now)
			if (err == nil) != test.valid {
				t.Errorf("validation mismatch: expected %t, got error %v", test.valid, err)
				return
			}
			if !test.valid {
				return
			}

			if len(totals) != len(test.days) {
				t.Errorf("day count mismatch: expected %d, got %d", len(test.days), len(totals))
				return
			}

			for i, expected := range test.days {
				got := totals[i]
				if got.Date.Day() != expected.day {
					t.Errorf("day %d: expected date %d, got %s", i, expected.day, got.Date.Format("2006-01-02"))
				}
				if got.TimeWorked != expected.worked {
					t.Errorf("day %d: expected %s worked, got %s", i, format.DurationHM(expected.worked), format.DurationHM(got.TimeWorked))
				}
			}
		})
	}
}

type expectedDay struct {
	day    int
	worked time.Duration
}

type calcTest struct {
	name  string
	valid bool
	input string
	days  []expectedDay
}

func newCalcTest(name string, valid bool, input string) *calcTest {
	return &calcTest{
		name:  name,
		valid: valid,
		input: input,
	}
}

func (ct *calcTest) expectDay(day int, worked string) *calcTest {
	d, err := format.ParseDuration(worked)
	if err != nil {
		log.Panicf(`failed to parse duration string "%s": %s`, worked, err.Error())
	}
	ct.days = append(ct.days, expectedDay{day: day, worked: d})
	return ct
}
