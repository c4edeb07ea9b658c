package rule

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ipChrisLee/drm/internal/errs"
)

const (
	day   = 24 * time.Hour
	month = 30 * day
	year  = 12 * month
)

// Parse parses a range expression such as "(-6d:)[-2:]". It returns the
// first error found as an *errs.Error of kind ParseError.
func Parse(input string) (Rule, error) {
	if input == "" {
		return Rule{}, errs.Parse(errs.ReasonMalformed, "Failed to parse empty range.")
	}
	if input[0] != '(' || input[len(input)-1] != ']' {
		return Rule{}, errs.Parse(errs.ReasonMalformed, "DelRule should start with '(' and end with ']'.")
	}

	parts := strings.Split(input[1:len(input)-1], ")[")
	if len(parts) != 2 {
		return Rule{}, errs.Parse(errs.ReasonMalformed, "Failed to split '%s' into two parts by ')['.", input)
	}

	window, err := parseWindow(parts[0])
	if err != nil {
		return Rule{}, err
	}
	index, err := parseIndex(parts[1])
	if err != nil {
		return Rule{}, err
	}
	return Rule{Window: window, Index: index}, nil
}

// MustParse is like Parse but panics on error. It is meant for literals.
func MustParse(input string) Rule {
	r, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return r
}

func parseWindow(clause string) (Window, error) {
	bounds := strings.Split(clause, ":")
	if len(bounds) != 2 {
		return Window{}, errs.Parse(errs.ReasonMalformed, "Failed to split time range '%s'.", clause)
	}

	w := Window{Start: NegInf, End: PosInf}
	if bounds[0] != "" {
		o, err := parseOffset(bounds[0])
		if err != nil {
			return Window{}, err
		}
		w.Start = o
	}
	if bounds[1] != "" {
		o, err := parseOffset(bounds[1])
		if err != nil {
			return Window{}, err
		}
		w.End = o
	}
	return w, nil
}

// parseOffset sums "/"-separated terms. Every term's integer is checked
// before any unit, so "1x/a" is an integer error. A sum that leaves the
// range of time.Duration saturates to an infinite offset of the same sign.
func parseOffset(bound string) (Offset, error) {
	terms := strings.Split(bound, "/")
	values := make([]int64, len(terms))
	units := make([]rune, len(terms))

	for i, term := range terms {
		if term == "" {
			return Offset{}, errs.Parse(errs.ReasonMalformed, "Failed to parse time range, empty term in '%s'.", bound)
		}
		unitRune, size := utf8.DecodeLastRuneInString(term)
		digits := term[:len(term)-size]

		n, err := parseInt(digits)
		if err != nil {
			return Offset{}, errs.Parse(errs.ReasonInvalidInteger,
				"Failed to parse time range '%s' since parsing duration int '%s' failed", term, digits)
		}
		values[i], units[i] = n, unitRune
	}

	var total time.Duration
	var inf int8
	for i, n := range values {
		unit, ok := unitOf(units[i])
		if !ok {
			return Offset{}, errs.Parse(errs.ReasonUnknownUnit,
				"Failed to parse time range, unexpected durType '%c' in '%s'.", units[i], bound)
		}

		if inf != 0 {
			continue
		}
		part, ok := mulDuration(n, unit)
		if !ok {
			inf = sign(n)
			continue
		}
		sum, ok := addDuration(total, part)
		if !ok {
			inf = sign(int64(part))
			continue
		}
		total = sum
	}

	if inf != 0 {
		return Offset{inf: inf}, nil
	}
	return Finite(total), nil
}

func unitOf(r rune) (time.Duration, bool) {
	switch r {
	case 'Y':
		return year, true
	case 'M':
		return month, true
	case 'd', 'D':
		return day, true
	case 'h':
		return time.Hour, true
	case 'm':
		return time.Minute, true
	case 's':
		return time.Second, true
	}
	return 0, false
}

func parseIndex(clause string) (IndexRange, error) {
	bounds := strings.Split(clause, ":")
	if len(bounds) != 2 {
		return IndexRange{}, errs.Parse(errs.ReasonMalformed, "Failed to split index range '%s'.", clause)
	}

	var idx IndexRange
	for i, s := range bounds {
		if s == "" {
			continue
		}
		v, err := parseInt(s)
		if err != nil {
			return IndexRange{}, errs.Parse(errs.ReasonInvalidInteger, "Failed to parse index str '%s'.", s)
		}
		if i == 0 {
			idx.Start = At(v)
		} else {
			idx.End = At(v)
		}
	}
	return idx, nil
}

// parseInt accepts an optionally signed base-10 integer with surrounding
// whitespace.
func parseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func mulDuration(n int64, unit time.Duration) (time.Duration, bool) {
	u := int64(unit)
	if n > math.MaxInt64/u || n < math.MinInt64/u {
		return 0, false
	}
	return time.Duration(n * u), true
}

func addDuration(a, b time.Duration) (time.Duration, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

func sign(n int64) int8 {
	if n < 0 {
		return -1
	}
	return 1
}
