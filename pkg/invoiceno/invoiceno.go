// Package invoiceno derives sequential human-readable invoice numbers
// in the fixed format INV/<4-digit year>/<10-digit zero-padded sequence>.
package invoiceno

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Prefix is the textual marker every sale invoice number starts with.
const Prefix = "INV"

// Pattern matches a well-formed invoice number and captures year and sequence.
var Pattern = regexp.MustCompile(`^INV/(\d{4})/(\d{10})$`)

// Format renders an invoice number for the given year and sequence.
func Format(year int, seq int64) string {
	return fmt.Sprintf("%s/%04d/%010d", Prefix, year, seq)
}

// Next computes the invoice number that follows latest for the calendar
// year of now. A latest number from a different year, an empty latest, or
// a malformed one all restart the sequence at 1; issuance never blocks on
// a corrupt prior record. The database uniqueness constraint on the
// number column is what makes an accidental reuse fail instead of
// silently producing a duplicate.
func Next(latest string, now time.Time) string {
	year := now.Year()
	if m := Pattern.FindStringSubmatch(latest); m != nil {
		y, _ := strconv.Atoi(m[1])
		seq, err := strconv.ParseInt(m[2], 10, 64)
		if y == year && err == nil && seq > 0 {
			return Format(year, seq+1)
		}
	}
	return Format(year, 1)
}

// YearPrefix returns the SQL LIKE prefix selecting numbers of one year.
func YearPrefix(year int) string {
	return fmt.Sprintf("%s/%04d/", Prefix, year)
}
