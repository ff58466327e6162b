package format

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyLayout = errors.New("layout has no hour, minute or second field")

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenHour
	tokenMinute
	tokenSecond
)

type layoutToken struct {
	kind  tokenKind
	width int
	text  string
}

// tokenize splits a clock layout into fields. H/h, m and s repeated once or
// twice are fields; text between single quotes is literal, '' is a quote.
func tokenize(layout string) ([]layoutToken, error) {
	var tokens []layoutToken
	var literal strings.Builder
	fields := 0

	flush := func() {
		if literal.Len() > 0 {
			tokens = append(tokens, layoutToken{kind: tokenLiteral, text: literal.String()})
			literal.Reset()
		}
	}

	runes := []rune(layout)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\'' {
			if i+1 < len(runes) && runes[i+1] == '\'' {
				literal.WriteRune('\'')
				i++
				continue
			}
			end := i + 1
			for ; end < len(runes); end++ {
				if runes[end] != '\'' {
					literal.WriteRune(runes[end])
					continue
				}
				if end+1 < len(runes) && runes[end+1] == '\'' {
					literal.WriteRune('\'')
					end++
					continue
				}
				break
			}
			if end >= len(runes) {
				return nil, fmt.Errorf("unterminated quote in layout %q", layout)
			}
			i = end
			continue
		}

		kind, ok := fieldKind(r)
		if !ok {
			literal.WriteRune(r)
			continue
		}

		width := 1
		for i+1 < len(runes) && runes[i+1] == r {
			width++
			i++
		}
		if width > 2 {
			return nil, fmt.Errorf("field %q repeated %d times in layout %q", r, width, layout)
		}

		flush()
		tokens = append(tokens, layoutToken{kind: kind, width: width})
		fields++
	}
	flush()

	if fields == 0 {
		return nil, ErrEmptyLayout
	}
	return tokens, nil
}

func fieldKind(r rune) (tokenKind, bool) {
	switch r {
	case 'H', 'h':
		return tokenHour, true
	case 'm':
		return tokenMinute, true
	case 's':
		return tokenSecond, true
	}
	return tokenLiteral, false
}
