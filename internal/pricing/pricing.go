// Package pricing converts between display price strings and amounts.
//
// Catalog prices are display strings such as "$2,500,000". Parse keeps only
// digits and the decimal point and reads the rest as a dollar amount. Range
// bounds from the listing filter ("0-2500000", "4500000+") are dollar amounts
// too, so both sides of a comparison use the same unit.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var ErrEmpty = errors.New("no digits in price")

// Parse extracts the numeric amount from a display price
func Parse(s string) (decimal.Decimal, error) {
	digits := strip(s)
	if digits == "" {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", s, ErrEmpty)
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", s, err)
	}
	return d, nil
}

// strip removes everything that is not a digit or '.'
func strip(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, c := range s {
		if (c >= '0' && c <= '9') || c == '.' {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// Range is an inclusive price interval. Max is ignored when Open is set.
type Range struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Open bool
}

// ParseRange reads "min-max" or "min+"
func ParseRange(v string) (Range, error) {
	if strings.Contains(v, "+") {
		min, err := Parse(v)
		if err != nil {
			return Range{}, fmt.Errorf("parse range %q: %w", v, err)
		}
		return Range{Min: min, Open: true}, nil
	}

	parts := strings.Split(v, "-")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("parse range %q: want min-max", v)
	}
	min, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return Range{}, fmt.Errorf("parse range %q: %w", v, err)
	}
	max, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return Range{}, fmt.Errorf("parse range %q: %w", v, err)
	}
	return Range{Min: min, Max: max}, nil
}

// Contains reports whether amount lies in the range, bounds included
func (r Range) Contains(amount decimal.Decimal) bool {
	if amount.LessThan(r.Min) {
		return false
	}
	if r.Open {
		return true
	}
	return !amount.GreaterThan(r.Max)
}

// Format renders an amount as "$2,500,000"
func Format(d decimal.Decimal) string {
	if d.IsInteger() {
		return "$" + humanize.Comma(d.IntPart())
	}
	return "$" + humanize.FormatFloat("#,###.##", d.InexactFloat64())
}
