package format

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

func ParseTimestamp(ts string) (time.Time, error) {
	return time.Parse("15:04", ts)
}

func ParseDuration(d string) (time.Duration, error) {
	return time.ParseDuration(RemoveSpaces(d))
}

// ParseClock reads text written with a clock layout (see Clock) and returns
// the duration it describes. The whole text must be consumed.
func ParseClock(text, layout string) (time.Duration, error) {
	tokens, err := tokenize(layout)
	if err != nil {
		return 0, err
	}

	var hours, minutes, seconds int
	rest := text

	for _, tok := range tokens {
		if tok.kind == tokenLiteral {
			if !strings.HasPrefix(rest, tok.text) {
				return 0, fmt.Errorf("expected %q at %q", tok.text, rest)
			}
			rest = rest[len(tok.text):]
			continue
		}

		value, remaining, err := readNumber(rest, tok.width)
		if err != nil {
			return 0, err
		}
		rest = remaining

		switch tok.kind {
		case tokenHour:
			if value > 23 {
				return 0, fmt.Errorf("hour out of range: %d", value)
			}
			hours = value
		case tokenMinute:
			if value > 59 {
				return 0, fmt.Errorf("minute out of range: %d", value)
			}
			minutes = value
		case tokenSecond:
			if value > 59 {
				return 0, fmt.Errorf("second out of range: %d", value)
			}
			seconds = value
		}
	}

	if rest != "" {
		return 0, fmt.Errorf("unexpected trailing text %q", rest)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second, nil
}

// readNumber takes exactly two digits for width 2, one or two for width 1.
func readNumber(s string, width int) (int, string, error) {
	n := 0
	for n < len(s) && n < 2 && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, s, fmt.Errorf("expected digits at %q", s)
	}
	if width == 2 && n != 2 {
		return 0, s, fmt.Errorf("expected two digits at %q", s)
	}

	value := 0
	for _, c := range s[:n] {
		value = value*10 + int(c-'0')
	}
	return value, s[n:], nil
}

func RemoveSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, rune := range s {
		if !unicode.IsSpace(rune) {
			b.WriteRune(rune)
		}
	}
	return b.String()
}
