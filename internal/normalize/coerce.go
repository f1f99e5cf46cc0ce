package normalize

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

// decimalZero is the 0.00 default for decimal-typed fields.
var decimalZero = decimal.New(0, -2)

// numericJunk lists thousands separators and currency glyphs stripped before
// numeric parsing. Exports routinely carry amounts like "₦1,250,000.00".
var numericJunk = []string{",", " ", " ", "₦", "$", "£", "€"}

func stripNumeric(s string) string {
	s = strings.TrimSpace(s)
	for _, junk := range numericJunk {
		s = strings.ReplaceAll(s, junk, "")
	}
	return s
}

// SafeInt is total: blank, null or unparsable input yields 0 and never an
// error. The second return is false only when a non-blank value had to be
// recovered to the default.
func SafeInt(raw string) (int64, bool) {
	s := stripNumeric(raw)
	if s == "" {
		return 0, true
	}
	// Integer columns in the wild carry "12", "12.0" and "GL-12" alike;
	// decimal parsing accepts the first two.
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.IntPart(), true
}

// SafeDecimal is total: blank, null or unparsable input yields 0.00.
func SafeDecimal(raw string) (decimal.Decimal, bool) {
	s := stripNumeric(raw)
	if s == "" {
		return decimalZero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimalZero, false
	}
	return d, true
}

// SafeDate parses a date permissively and keeps only the calendar date
// component. Blank or unparsable input yields nil.
func SafeDate(raw string) (interface{}, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, true
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}
