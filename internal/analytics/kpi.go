package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPISnapshot holds the headline figures for the most recent day in the daily
// series, plus deltas against the previous day. Delta pointers are nil when
// the series has fewer than two rows: "no delta available" is a valid state,
// not an error.
type KPISnapshot struct {
	Date              time.Time        `json:"date"`
	Revenue           decimal.Decimal  `json:"revenue"`
	Quantity          int64            `json:"quantity"`
	Transactions      int              `json:"transactions"`
	RevenueDelta      *decimal.Decimal `json:"revenue_delta,omitempty"`
	QuantityDelta     *int64           `json:"quantity_delta,omitempty"`
	TransactionsDelta *int             `json:"transactions_delta,omitempty"`
}

// Snapshot computes the KPI card values from a daily series. The series must
// be in ascending date order (AggregateDaily's output invariant). Returns
// false when the series is empty.
func Snapshot(daily []DailySales) (KPISnapshot, bool) {
	if len(daily) == 0 {
		return KPISnapshot{}, false
	}

	last := daily[len(daily)-1]
	snap := KPISnapshot{
		Date:         last.Date,
		Revenue:      last.Amount,
		Quantity:     last.Quantity,
		Transactions: last.Transactions,
	}

	if len(daily) >= 2 {
		prev := daily[len(daily)-2]
		revDelta := last.Amount.Sub(prev.Amount)
		qtyDelta := last.Quantity - prev.Quantity
		txDelta := last.Transactions - prev.Transactions
		snap.RevenueDelta = &revDelta
		snap.QuantityDelta = &qtyDelta
		snap.TransactionsDelta = &txDelta
	}

	return snap, true
}
