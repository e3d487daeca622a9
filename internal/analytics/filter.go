package analytics

import (
	"time"

	"retail_dashboard/internal/sales"
)

// Filter narrows the records that feed a computation. Zero values mean
// "no bound": an empty ShopID matches every shop, a zero DateFrom or DateTo
// leaves that side of the range open. Both date bounds are inclusive.
type Filter struct {
	ShopID   string
	DateFrom time.Time
	DateTo   time.Time
}

// Match reports whether a record at shopID dated date passes the filter.
func (f Filter) Match(shopID string, date time.Time) bool {
	if f.ShopID != "" && f.ShopID != shopID {
		return false
	}
	if !f.DateFrom.IsZero() && date.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && date.After(f.DateTo) {
		return false
	}
	return true
}

// FilterSales returns the sales that pass f, in input order.
func FilterSales(in []sales.Sale, f Filter) []sales.Sale {
	out := make([]sales.Sale, 0, len(in))
	for _, s := range in {
		if f.Match(s.ShopID, s.Date) {
			out = append(out, s)
		}
	}
	return out
}

// FilterExpenses returns the expenses that pass f, in input order.
func FilterExpenses(in []sales.Expense, f Filter) []sales.Expense {
	out := make([]sales.Expense, 0, len(in))
	for _, e := range in {
		if f.Match(e.ShopID, e.Date) {
			out = append(out, e)
		}
	}
	return out
}
