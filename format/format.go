package format

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// DefaultClock is the layout worked time is shown and entered with.
	DefaultClock = "H'h'mm"
	// EntryClock is the layout used on the command line.
	EntryClock = "H:mm"
)

func Timestamp(ts time.Time) string {
	return ts.Format("15:04")
}

// Date formats a calendar day the way week labels show it ("February 24 2020").
func Date(d time.Time) string {
	return d.Format("January 2 2006")
}

func DurationHM(d time.Duration) string {
	hours := int(math.Floor(d.Hours()))
	d = d - (time.Duration(hours) * time.Hour)
	minutes := int(math.Floor(d.Minutes()))

	var sb strings.Builder
	if hours > 0 {
		sb.WriteString(fmt.Sprintf("%dh", hours))
	}

	if minutes > 0 {
		if hours > 0 {
			sb.WriteString(" ")
		}

		sb.WriteString(fmt.Sprintf("%dm", minutes))
	}

	if sb.Len() == 0 {
		return "0m"
	}

	return sb.String()
}

// Clock renders a time-of-day sized duration with a clock layout such as
// "H:mm" or "H'h'mm". Unknown layouts render as DurationHM.
func Clock(d time.Duration, layout string) string {
	tokens, err := tokenize(layout)
	if err != nil {
		return DurationHM(d)
	}

	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	seconds := int((d % time.Minute) / time.Second)

	var sb strings.Builder
	for _, tok := range tokens {
		switch tok.kind {
		case tokenLiteral:
			sb.WriteString(tok.text)
		case tokenHour:
			sb.WriteString(pad(hours, tok.width))
		case tokenMinute:
			sb.WriteString(pad(minutes, tok.width))
		case tokenSecond:
			sb.WriteString(pad(seconds, tok.width))
		}
	}
	return sb.String()
}

func pad(v, width int) string {
	if width == 2 {
		return fmt.Sprintf("%02d", v)
	}
	return fmt.Sprintf("%d", v)
}
