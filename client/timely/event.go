package timely

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sporadisk/weekclock/timesheet"
)

type timelyGetEvent struct {
	ID       int            `json:"id"`
	Day      string         `json:"day"` // format: YYYY-MM-DD
	User     User           `json:"user"`
	Duration timelyDuration `json:"duration"`
}

type timelyDuration struct {
	TotalMinutes float64 `json:"total_minutes"`
}

// ListAllEvents retrieves all events for the specified date (YYYY-MM-DD).
func (c *Client) ListAllEvents(ctx context.Context, date string) ([]timelyGetEvent, error) {
	path := fmt.Sprintf("%d/events", c.AccountID)
	var events []timelyGetEvent
	err := c.get(ctx, path, url.Values{"day": {date}}, &events)
	if err != nil {
		return nil, fmt.Errorf("get(%s): %w", path, err)
	}
	return events, nil
}

// WorkedTime adds up the current user's Timely events for each weekday.
// Days without events are left out.
func (c *Client) WorkedTime(ctx context.Context, week timesheet.Week) ([]timesheet.Record, error) {
	if c.user == nil {
		user, err := c.GetCurrentUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("GetCurrentUser: %w", err)
		}
		c.user = &user
	}

	records := []timesheet.Record{}
	for _, day := range week.Days() {
		date := day.Format(timesheet.DateLayout)
		events, err := c.ListAllEvents(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("ListAllEvents(%s): %w", date, err)
		}

		var minutes float64
		found := false
		for _, e := range events {
			if e.User.ID != c.user.ID {
				continue
			}
			if e.Day != date {
				return nil, &timesheet.DataIntegrityError{
					Date:   day,
					Reason: fmt.Sprintf("timely event %d is dated %s", e.ID, e.Day),
				}
			}
			minutes += e.Duration.TotalMinutes
			found = true
		}
		if !found {
			continue
		}

		records = append(records, timesheet.Record{
			Date:     day,
			WorkTime: time.Duration(minutes * float64(time.Minute)).Round(time.Minute),
		})
	}

	c.Logger.Debug("fetched worked time", "week", week, "days", len(records))
	return records, nil
}
