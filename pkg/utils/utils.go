package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date layout used throughout the API.
const DateLayout = "2006-01-02"

// SplitPrincipal splits a principal across a number of installments.
// Every installment gets floor(principal/terms) except the last, which
// absorbs the remainder so the slice always sums exactly to principal.
func SplitPrincipal(principal int64, terms int) []int64 {
	amounts := make([]int64, terms)
	base := principal / int64(terms)
	for i := 0; i < terms-1; i++ {
		amounts[i] = base
	}
	amounts[terms-1] = principal - base*int64(terms-1)
	return amounts
}

// AddMonths advances a calendar date by n months using Go's AddDate
// normalization: overflowing days roll into the next month (Jan 31 plus one
// month is Mar 2 or Mar 3) rather than clamping to month end.
func AddMonths(date time.Time, n int) time.Time {
	return date.AddDate(0, n, 0)
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatMinorUnits renders an amount held in minor currency units as a
// major-unit display string, e.g. 123456 -> "1234.56". Display only; the
// allocation path works on the integer amounts.
func FormatMinorUnits(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}
