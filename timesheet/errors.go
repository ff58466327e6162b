package timesheet

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnrepresentable is returned when a duration cannot be shown as hours and
// minutes within a single day.
var ErrUnrepresentable = errors.New("worked time must be between 0 and 24h")

// ParseError reports worked time text that does not match its layout.
type ParseError struct {
	Text   string
	Layout string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as %q: %s", e.Text, e.Layout, e.Err.Error())
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DataIntegrityError means a timesheet could not be assembled without
// breaking its invariants. Date is zero when the problem is not tied to a day.
type DataIntegrityError struct {
	Date   time.Time
	Reason string
	Err    error
}

func (e *DataIntegrityError) Error() string {
	msg := e.Reason
	if !e.Date.IsZero() {
		msg = fmt.Sprintf("%s (%s)", e.Reason, e.Date.Format(DateLayout))
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}
	return msg
}

func (e *DataIntegrityError) Unwrap() error {
	return e.Err
}

// IntegrityError wraps a data source failure so that it aborts a production
// cycle like any other integrity problem. Errors that already are a
// *DataIntegrityError are returned unchanged.
func IntegrityError(reason string, err error) error {
	if err == nil {
		return nil
	}
	var die *DataIntegrityError
	if errors.As(err, &die) {
		return err
	}
	return &DataIntegrityError{Reason: reason, Err: err}
}
