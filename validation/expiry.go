package validation

import (
	"strconv"
	"strings"
	"time"
)

var monthNames = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// CardExpired reports whether a card with the given three-letter expiry month
// and four-digit year is in the past. Unknown months count as expired.
//
// Checkout does not consult this; the payment form only format-checks expiry
// fields. Kept for the back office to adopt if the rule ever goes live.
func CardExpired(expMonth, expYear string, now time.Time) bool {
	index := -1
	for i, m := range monthNames {
		if strings.EqualFold(expMonth, m) {
			index = i
			break
		}
	}
	if index == -1 {
		return true
	}
	year, err := strconv.Atoi(expYear)
	if err != nil {
		return true
	}
	// Valid through the last instant of the expiry month
	endOfMonth := time.Date(year, time.Month(index+1)+1, 1, 0, 0, 0, 0, time.UTC)
	return !now.Before(endOfMonth)
}
