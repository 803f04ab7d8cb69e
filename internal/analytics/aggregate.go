package analytics

import (
	"sort"
	"time"

	"adash/internal/dataset"

	"github.com/shopspring/decimal"
)

// AggregateDaily groups transactions by calendar date. Rows come back in
// strictly ascending date order; downstream consumers read the tail for
// "latest vs previous" comparisons, so the ordering is enforced here, not
// assumed there. An empty input yields an empty series.
func AggregateDaily(records []dataset.Transaction) []DailySales {
	type dayAcc struct {
		date     time.Time
		receipts map[string]bool
		products map[string]bool
		amount   decimal.Decimal
		quantity int64
	}

	days := make(map[string]*dayAcc)
	for _, r := range records {
		key := r.Date.Format("2006-01-02")
		acc, ok := days[key]
		if !ok {
			acc = &dayAcc{
				date:     r.Date,
				receipts: make(map[string]bool),
				products: make(map[string]bool),
			}
			days[key] = acc
		}
		acc.receipts[r.Receipt] = true
		acc.products[r.Product] = true
		acc.amount = acc.amount.Add(r.Amount)
		acc.quantity += r.Quantity
	}

	result := make([]DailySales, 0, len(days))
	for _, acc := range days {
		result = append(result, DailySales{
			Date:             acc.date,
			Transactions:     len(acc.receipts),
			Amount:           acc.amount,
			Quantity:         acc.quantity,
			DistinctProducts: len(acc.products),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

// AggregateHourly averages ordered quantity per hour-of-day across all days
// present. The result always has 24 rows, hour 0 through 23, zero-filled for
// hours with no data.
func AggregateHourly(records []dataset.Transaction) []HourlyDemand {
	var sums [24]int64
	var counts [24]int
	for _, r := range records {
		sums[r.Hour] += r.Quantity
		counts[r.Hour]++
	}

	result := make([]HourlyDemand, 24)
	for h := 0; h < 24; h++ {
		result[h] = HourlyDemand{Hour: h}
		if counts[h] > 0 {
			result[h].AvgQuantity = float64(sums[h]) / float64(counts[h])
		}
	}
	return result
}

// AggregateByProduct sums quantity per distinct product, ordered by quantity
// descending (name ascending on ties, to keep rankings deterministic).
func AggregateByProduct(records []dataset.Transaction) []ProductVolume {
	totals := make(map[string]int64)
	for _, r := range records {
		totals[r.Product] += r.Quantity
	}

	result := make([]ProductVolume, 0, len(totals))
	for product, qty := range totals {
		result = append(result, ProductVolume{Product: product, Quantity: qty})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Quantity != result[j].Quantity {
			return result[i].Quantity > result[j].Quantity
		}
		return result[i].Product < result[j].Product
	})
	return result
}

// TopProducts keeps the n highest-volume products and rolls everything else
// into a synthetic "Other" row whose quantity is the sum of the excluded
// products. Inputs with at most n products come back unchanged.
func TopProducts(products []ProductVolume, n int) []ProductVolume {
	if n <= 0 || len(products) <= n {
		return products
	}

	top := make([]ProductVolume, n, n+1)
	copy(top, products[:n])

	var rest int64
	for _, p := range products[n:] {
		rest += p.Quantity
	}
	return append(top, ProductVolume{Product: OtherProducts, Quantity: rest})
}

// AggregateByCategory sums quantity and revenue per distinct category,
// ordered by revenue descending (name ascending on ties).
func AggregateByCategory(records []dataset.Transaction) []CategoryRevenue {
	type catAcc struct {
		quantity int64
		revenue  decimal.Decimal
	}

	totals := make(map[string]*catAcc)
	for _, r := range records {
		acc, ok := totals[r.Category]
		if !ok {
			acc = &catAcc{}
			totals[r.Category] = acc
		}
		acc.quantity += r.Quantity
		acc.revenue = acc.revenue.Add(r.Amount)
	}

	result := make([]CategoryRevenue, 0, len(totals))
	for category, acc := range totals {
		result = append(result, CategoryRevenue{
			Category: category,
			Quantity: acc.quantity,
			Revenue:  acc.revenue,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Revenue.Equal(result[j].Revenue) {
			return result[i].Revenue.GreaterThan(result[j].Revenue)
		}
		return result[i].Category < result[j].Category
	})
	return result
}

// AggregateByCustomer builds the per-customer behavioral summary: total
// spend, total quantity, distinct products, distinct categories, and
// transaction count (distinct receipts). Ordered by spend descending.
func AggregateByCustomer(records []dataset.Transaction) []CustomerActivity {
	type custAcc struct {
		spend      decimal.Decimal
		quantity   int64
		products   map[string]bool
		categories map[string]bool
		receipts   map[string]bool
	}

	totals := make(map[string]*custAcc)
	for _, r := range records {
		acc, ok := totals[r.Customer]
		if !ok {
			acc = &custAcc{
				products:   make(map[string]bool),
				categories: make(map[string]bool),
				receipts:   make(map[string]bool),
			}
			totals[r.Customer] = acc
		}
		acc.spend = acc.spend.Add(r.Amount)
		acc.quantity += r.Quantity
		acc.products[r.Product] = true
		acc.categories[r.Category] = true
		acc.receipts[r.Receipt] = true
	}

	result := make([]CustomerActivity, 0, len(totals))
	for customer, acc := range totals {
		result = append(result, CustomerActivity{
			Customer:           customer,
			Spend:              acc.spend,
			Quantity:           acc.quantity,
			DistinctProducts:   len(acc.products),
			DistinctCategories: len(acc.categories),
			Transactions:       len(acc.receipts),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Spend.Equal(result[j].Spend) {
			return result[i].Spend.GreaterThan(result[j].Spend)
		}
		return result[i].Customer < result[j].Customer
	})
	return result
}

// AggregateMix counts transaction rows per label extracted by pick, ordered
// by count descending (label ascending on ties). Used for the payment-method
// and sale-type distributions.
func AggregateMix(records []dataset.Transaction, pick func(dataset.Transaction) string) []MixShare {
	counts := make(map[string]int)
	for _, r := range records {
		counts[pick(r)]++
	}

	result := make([]MixShare, 0, len(counts))
	for label, count := range counts {
		result = append(result, MixShare{Label: label, Count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Label < result[j].Label
	})
	return result
}
