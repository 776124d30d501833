// Package util provides argument helpers shared by the command handlers.
package util

import (
	"fmt"
	"strconv"
	"strings"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// CleanArg trims whitespace and surrounding quotes and unescapes inner
// quotes.
func CleanArg(s string) string {
	return FixEscapeQuotes(TrimQuotes(strings.TrimSpace(s)))
}

// ParseFloats parses the first n arguments as floats.
func ParseFloats(args []string, n int) ([]float64, error) {
	if len(args) < n {
		return nil, fmt.Errorf("expected %d numeric arguments, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(CleanArg(args[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// ArgAt returns the cleaned argument at i, or "" when absent.
func ArgAt(args []string, i int) string {
	if i < 0 || i >= len(args) {
		return ""
	}
	return CleanArg(args[i])
}

// FlagSet reports whether any argument from index from on equals flag.
func FlagSet(args []string, from int, flag string) bool {
	for i := from; i < len(args); i++ {
		if strings.EqualFold(CleanArg(args[i]), flag) {
			return true
		}
	}
	return false
}

// SplitFields splits a command line into fields. Double-quoted fields may
// contain spaces; "" inside them stands for a literal quote.
func SplitFields(line string) []string {
	var (
		fields  []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && inQuote && i+1 < len(line) && line[i+1] == '"':
			cur.WriteByte('"')
			i++
		case c == '"':
			inQuote = !inQuote
			started = true
		case (c == ' ' || c == '\t') && !inQuote:
			if started {
				fields = append(fields, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteByte(c)
			started = true
		}
	}
	if started {
		fields = append(fields, cur.String())
	}
	return fields
}
