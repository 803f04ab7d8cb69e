package analytics

import (
	"testing"

	"adash/internal/dataset"

	"github.com/shopspring/decimal"
)

// sampleDay builds one identical day of transactions for delta tests.
func sampleDay(day string) []dataset.Transaction {
	return []dataset.Transaction{
		tx(day, 9, "R-"+day+"-1", "A", "X", "C", 2, "10"),
		tx(day, 10, "R-"+day+"-2", "B", "Y", "C", 1, "5"),
	}
}

func TestSnapshot_EmptySeries(t *testing.T) {
	if _, ok := Snapshot(nil); ok {
		t.Fatalf("expected no snapshot for an empty series")
	}
}

func TestSnapshot_SingleDayHasNoDelta(t *testing.T) {
	daily := AggregateDaily(sampleDay("2024-01-01"))

	snap, ok := Snapshot(daily)
	if !ok {
		t.Fatalf("expected a snapshot")
	}
	if snap.RevenueDelta != nil || snap.QuantityDelta != nil || snap.TransactionsDelta != nil {
		t.Errorf("single-day series must report no delta, got %+v", snap)
	}
	if !snap.Revenue.Equal(decimal.NewFromInt(25)) || snap.Quantity != 3 || snap.Transactions != 2 {
		t.Errorf("unexpected headline figures: %+v", snap)
	}
}

func TestSnapshot_DeltasAgainstPreviousDay(t *testing.T) {
	daily := AggregateDaily(append(sampleDay("2024-01-01"), sampleDay("2024-01-02")...))

	snap, ok := Snapshot(daily)
	if !ok {
		t.Fatalf("expected a snapshot")
	}
	if !snap.Date.Equal(daily[1].Date) {
		t.Errorf("snapshot must describe the latest day")
	}
	if snap.RevenueDelta == nil || !snap.RevenueDelta.Equal(decimal.Zero) {
		t.Errorf("expected zero revenue delta between identical days, got %v", snap.RevenueDelta)
	}
	if snap.QuantityDelta == nil || *snap.QuantityDelta != 0 {
		t.Errorf("expected zero quantity delta, got %v", snap.QuantityDelta)
	}
	if snap.TransactionsDelta == nil || *snap.TransactionsDelta != 0 {
		t.Errorf("expected zero transactions delta, got %v", snap.TransactionsDelta)
	}
}
