package analytics

import (
	"fmt"
	"math"

	"retail_dashboard/internal/sales"
)

// ValidationError is returned in strict mode when a record carries a
// monetary value that is negative or not a finite number.
type ValidationError struct {
	Record   string // "sale", "expense" or "product"
	RecordID string
	Field    string
	Value    float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s is %v", e.Record, e.RecordID, e.Field, e.Value)
}

func badMoney(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0) || v < 0
}

// Validate checks every monetary field of the snapshot and returns the first
// offending value as a *ValidationError.
func Validate(snap sales.Snapshot) error {
	for _, s := range snap.Sales {
		if badMoney(s.UnitPrice) {
			return &ValidationError{Record: "sale", RecordID: s.ID, Field: "unitPrice", Value: s.UnitPrice}
		}
		if badMoney(s.TotalAmount) {
			return &ValidationError{Record: "sale", RecordID: s.ID, Field: "totalAmount", Value: s.TotalAmount}
		}
	}
	for _, e := range snap.Expenses {
		if badMoney(e.Amount) {
			return &ValidationError{Record: "expense", RecordID: e.ID, Field: "amount", Value: e.Amount}
		}
	}
	for _, p := range snap.Products {
		if badMoney(p.Price) {
			return &ValidationError{Record: "product", RecordID: p.ID, Field: "price", Value: p.Price}
		}
	}
	return nil
}

// num maps NaN and infinities to 0 so tolerant sums stay finite.
func num(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
