package analytics

import (
	"adash/internal/dataset"

	"github.com/google/uuid"
)

// Session owns one upload's cleaned transactions and every table derived from
// them. It is the single source of truth for one user session: created on
// upload, discarded on session end, never shared between sessions. Derived
// tables are computed once, on first access, and recomputing means building a
// new Session from a new upload.
type Session struct {
	id      string
	records []dataset.Transaction

	// Cached derived tables
	daily      []DailySales
	hourly     []HourlyDemand
	products   []ProductVolume
	categories []CategoryRevenue
	customers  []CustomerActivity

	isDerived bool
}

// NewSession creates a session around one cleaned upload.
func NewSession(records []dataset.Transaction) *Session {
	return &Session{
		id:      uuid.NewString(),
		records: records,
	}
}

// derive computes all five aggregate tables. Each aggregate degrades to an
// empty result on an empty upload, so there is no error path here.
func (s *Session) derive() {
	if s.isDerived {
		return
	}
	s.daily = AggregateDaily(s.records)
	s.hourly = AggregateHourly(s.records)
	s.products = AggregateByProduct(s.records)
	s.categories = AggregateByCategory(s.records)
	s.customers = AggregateByCustomer(s.records)
	s.isDerived = true
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Records returns the cleaned transactions backing this session.
func (s *Session) Records() []dataset.Transaction {
	return s.records
}

// Daily returns the daily sales series, ascending by date.
func (s *Session) Daily() []DailySales {
	s.derive()
	return s.daily
}

// Hourly returns the 24-row intraday demand profile.
func (s *Session) Hourly() []HourlyDemand {
	s.derive()
	return s.hourly
}

// Products returns per-product volumes, highest first.
func (s *Session) Products() []ProductVolume {
	s.derive()
	return s.products
}

// TopProducts returns the top-n product ranking with the "Other" roll-up.
func (s *Session) TopProducts(n int) []ProductVolume {
	return TopProducts(s.Products(), n)
}

// Categories returns per-category totals, highest revenue first.
func (s *Session) Categories() []CategoryRevenue {
	s.derive()
	return s.categories
}

// Customers returns the per-customer behavioral summary.
func (s *Session) Customers() []CustomerActivity {
	s.derive()
	return s.customers
}

// KPIs returns the headline snapshot for the latest day.
func (s *Session) KPIs() (KPISnapshot, bool) {
	return Snapshot(s.Daily())
}

// PaymentMix returns the distribution of rows by payment method.
func (s *Session) PaymentMix() []MixShare {
	return AggregateMix(s.records, func(t dataset.Transaction) string { return t.Payment })
}

// SaleTypeMix returns the distribution of rows by sale type.
func (s *Session) SaleTypeMix() []MixShare {
	return AggregateMix(s.records, func(t dataset.Transaction) string { return t.SaleType })
}
