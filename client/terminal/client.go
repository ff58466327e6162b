package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/sporadisk/weekclock/format"
	"github.com/sporadisk/weekclock/timesheet"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	labelWidth = 11
	missingDay = "-"
)

// Client prints every timesheet it receives. It is the consumer end of a
// worker subscription.
type Client struct {
	TimeFormat string
	Out        io.Writer
	Logger     *log.Logger

	renderer *lipgloss.Renderer
	header   lipgloss.Style
	label    lipgloss.Style
	empty    lipgloss.Style
	total    lipgloss.Style
}

func (c *Client) Init() error {
	if c.TimeFormat == "" {
		c.TimeFormat = format.DefaultClock
	}

	err := format.ValidateClockLayout(c.TimeFormat)
	if err != nil {
		return fmt.Errorf("ValidateClockLayout: %w", err)
	}

	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}

	c.renderer = lipgloss.NewRenderer(c.Out)
	c.header = c.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginTop(1)
	c.label = c.renderer.NewStyle().Width(labelWidth)
	c.empty = c.renderer.NewStyle().Foreground(lipgloss.Color("240"))
	c.total = c.renderer.NewStyle().Bold(true)
	return nil
}

// OnTimesheetUpdated writes the snapshot to Out.
func (c *Client) OnTimesheetUpdated(ts *timesheet.Timesheet) {
	if ts == nil {
		return
	}
	_, err := io.WriteString(c.Out, c.Render(ts))
	if err != nil {
		c.Logger.Error("writing timesheet", "week", ts.Week(), "err", err)
	}
}

// Render lays out one line per weekday followed by the week total.
func (c *Client) Render(ts *timesheet.Timesheet) string {
	var sb strings.Builder

	week := ts.Week()
	_, isoWeek := week.Monday.ISOWeek()

	// An anglo-centric approach to title-casing, like the weekday names.
	caser := cases.Title(language.English)
	title := caser.String(fmt.Sprintf("week %d, %s", isoWeek, strings.ToLower(format.Date(week.Monday))))
	sb.WriteString(c.header.Render(title) + "\n")

	for _, day := range week.Days() {
		row := c.label.Render(day.Weekday().String())
		wd, ok := ts.Day(day.Weekday())
		if ok {
			row += wd.Format(c.TimeFormat)
		} else {
			row += c.empty.Render(missingDay)
		}
		sb.WriteString(row + "\n")
	}

	sb.WriteString(c.total.Render(c.label.Render("Total")+format.Clock(ts.Total(), c.TimeFormat)) + "\n")
	sb.WriteString(c.empty.Render("updated "+format.Timestamp(ts.ProducedAt().In(time.Local))) + "\n")
	return sb.String()
}
