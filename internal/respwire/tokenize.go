package respwire

import (
	"strings"

	"github.com/pkg/errors"
)

// tokenize splits a command line on whitespace, treating a
// double-quoted segment as a single token so values containing spaces
// can be expressed (e.g. SET greeting "hello world").
func tokenize(line string) ([]string, error) {
	var tokens []string
	var b strings.Builder
	inQuotes := false
	hasToken := false

	flush := func() {
		if hasToken {
			tokens = append(tokens, b.String())
			b.Reset()
			hasToken = false
		}
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			hasToken = true
		case !inQuotes && (r == ' ' || r == '\t'):
			flush()
		default:
			b.WriteRune(r)
			hasToken = true
		}
	}
	if inQuotes {
		return nil, errors.New("unterminated quoted segment")
	}
	flush()
	return tokens, nil
}
