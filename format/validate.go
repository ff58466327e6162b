package format

import "fmt"

// ValidateClockLayout reports whether layout can be used with Clock and ParseClock.
func ValidateClockLayout(layout string) error {
	_, err := tokenize(layout)
	if err != nil {
		return fmt.Errorf("invalid clock layout %q: %w", layout, err)
	}
	return nil
}
