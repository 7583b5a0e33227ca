package career

import "strings"

// Month mirrors the upper-cased month enum used by the relational schema.
// Cache entries and store rows carry the same representation.
type Month string

const (
	January   Month = "JANUARY"
	February  Month = "FEBRUARY"
	March     Month = "MARCH"
	April     Month = "APRIL"
	May       Month = "MAY"
	June      Month = "JUNE"
	July      Month = "JULY"
	August    Month = "AUGUST"
	September Month = "SEPTEMBER"
	October   Month = "OCTOBER"
	November  Month = "NOVEMBER"
	December  Month = "DECEMBER"
)

// Months lists every valid month in calendar order.
var Months = []Month{
	January, February, March, April, May, June,
	July, August, September, October, November, December,
}

// ParseMonth normalizes s to the canonical upper-cased form.
// Returns ErrBadRequest for unrecognized values.
func ParseMonth(s string) (Month, error) {
	m := Month(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", BadRequestf("unrecognized month %q", s)
	}
	return m, nil
}

// Valid reports whether m is one of the twelve canonical months.
func (m Month) Valid() bool {
	for _, known := range Months {
		if m == known {
			return true
		}
	}
	return false
}
