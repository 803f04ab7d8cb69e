package analytics

import (
	"testing"

	"adash/internal/dataset"
)

func TestSession_DerivedTablesAndIdentity(t *testing.T) {
	records := []dataset.Transaction{
		tx("2024-01-01", 9, "R-1", "A", "X", "Drinks", 2, "10"),
		tx("2024-01-02", 14, "R-2", "B", "Y", "Food", 1, "5"),
	}

	s := NewSession(records)
	if s.ID() == "" {
		t.Fatalf("session must carry an identifier")
	}

	if got := len(s.Daily()); got != 2 {
		t.Errorf("expected 2 daily rows, got %d", got)
	}
	if got := len(s.Hourly()); got != 24 {
		t.Errorf("expected 24 hourly rows, got %d", got)
	}
	if got := len(s.Products()); got != 2 {
		t.Errorf("expected 2 products, got %d", got)
	}
	if got := len(s.Categories()); got != 2 {
		t.Errorf("expected 2 categories, got %d", got)
	}
	if got := len(s.Customers()); got != 2 {
		t.Errorf("expected 2 customers, got %d", got)
	}

	// Two sessions over the same upload are distinct owners.
	if NewSession(records).ID() == s.ID() {
		t.Errorf("sessions must not share identifiers")
	}
}

func TestSession_EmptyUpload(t *testing.T) {
	s := NewSession(nil)

	if got := len(s.Daily()); got != 0 {
		t.Errorf("expected empty daily series, got %d rows", got)
	}
	if _, ok := s.KPIs(); ok {
		t.Errorf("expected no KPI snapshot for an empty session")
	}
	if got := len(s.TopProducts(8)); got != 0 {
		t.Errorf("expected empty product ranking, got %d rows", got)
	}
	if got := len(s.PaymentMix()); got != 0 {
		t.Errorf("expected empty payment mix, got %d rows", got)
	}
}
