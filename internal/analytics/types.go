package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySales is one row of the daily sales series. The series invariant is
// ascending date order; KPI deltas and the forecast context read its tail
// positionally.
type DailySales struct {
	Date             time.Time       `json:"date"`
	Transactions     int             `json:"transactions"` // distinct receipts
	Amount           decimal.Decimal `json:"amount"`
	Quantity         int64           `json:"quantity"`
	DistinctProducts int             `json:"distinct_products"`
}

// HourlyDemand is the average quantity ordered in one hour-of-day across all
// days present. All 24 hours are always represented; hours with no data are
// zero-filled.
type HourlyDemand struct {
	Hour        int     `json:"hour"`
	AvgQuantity float64 `json:"avg_quantity"`
}

// ProductVolume is the total quantity sold for one product.
type ProductVolume struct {
	Product  string `json:"product"`
	Quantity int64  `json:"quantity"`
}

// OtherProducts labels the synthetic roll-up row produced by TopProducts.
const OtherProducts = "Other"

// CategoryRevenue is the total quantity and revenue for one category.
type CategoryRevenue struct {
	Category string          `json:"category"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// CustomerActivity is the per-customer behavioral summary. It is the feature
// source for segmentation.
type CustomerActivity struct {
	Customer           string          `json:"customer"`
	Spend              decimal.Decimal `json:"spend"`
	Quantity           int64           `json:"quantity"`
	DistinctProducts   int             `json:"distinct_products"`
	DistinctCategories int             `json:"distinct_categories"`
	Transactions       int             `json:"transactions"` // distinct receipts
}

// MixShare is one slice of a categorical distribution (payment method,
// sale type) measured in transaction rows.
type MixShare struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}
