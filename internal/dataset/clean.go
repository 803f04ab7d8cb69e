package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Transaction is one cleaned, typed sales record.
type Transaction struct {
	Timestamp time.Time
	Date      time.Time // date-only projection of Timestamp
	Hour      int       // hour-of-day projection of Timestamp
	Receipt   string
	SaleType  string
	Customer  string
	Product   string
	Category  string
	Quantity  int64
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal // Quantity * UnitPrice
	Payment   string
}

// CleanReport summarizes what cleaning kept and what it discarded.
type CleanReport struct {
	Input        int
	Kept         int
	Dropped      int
	BadTimestamp int
	BadQuantity  int
	BadPrice     int
}

// Accepted timestamp layouts, tried in order. Uploads come from POS exports
// with no single agreed format.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
}

// Clean turns a canonical RawTable into typed transactions.
//
// Policy for malformed values: rows whose timestamp does not parse or whose
// quantity/price is non-numeric or negative are dropped, counted in the
// report, and logged. The policy is uniform across all rows and never aborts
// the pipeline. Clean is pure, so re-running it on the same table is a no-op
// in effect.
func Clean(t RawTable) ([]Transaction, CleanReport, error) {
	if !IsCanonical(t) {
		return nil, CleanReport{}, fmt.Errorf("clean requires a reconciled table, got columns %v", t.Columns)
	}

	idx := func(name string) int { return t.ColumnIndex(name) }
	tsIdx, qtyIdx, priceIdx := idx(ColTimestamp), idx(ColQuantity), idx(ColPrice)
	receiptIdx, typeIdx, custIdx := idx(ColReceipt), idx(ColSaleType), idx(ColCustomer)
	prodIdx, catIdx, payIdx := idx(ColProduct), idx(ColCategory), idx(ColPayment)

	report := CleanReport{Input: len(t.Rows)}
	records := make([]Transaction, 0, len(t.Rows))

	for _, row := range t.Rows {
		ts, ok := parseTimestamp(row[tsIdx])
		if !ok {
			report.BadTimestamp++
			continue
		}

		qty, ok := parseQuantity(row[qtyIdx])
		if !ok {
			report.BadQuantity++
			continue
		}

		price, ok := parsePrice(row[priceIdx])
		if !ok {
			report.BadPrice++
			continue
		}

		records = append(records, Transaction{
			Timestamp: ts,
			Date:      time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location()),
			Hour:      ts.Hour(),
			Receipt:   row[receiptIdx],
			SaleType:  row[typeIdx],
			Customer:  row[custIdx],
			Product:   row[prodIdx],
			Category:  row[catIdx],
			Quantity:  qty,
			UnitPrice: price,
			Amount:    price.Mul(decimal.NewFromInt(qty)),
			Payment:   row[payIdx],
		})
	}

	report.Kept = len(records)
	report.Dropped = report.Input - report.Kept
	if report.Dropped > 0 {
		log.Warn().
			Int("dropped", report.Dropped).
			Int("bad_timestamp", report.BadTimestamp).
			Int("bad_quantity", report.BadQuantity).
			Int("bad_price", report.BadPrice).
			Msg("Dropped malformed transaction rows")
	}

	return records, report, nil
}

func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseQuantity(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	// Integer first; fall back to float for exports that write "2.0".
	if qty, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return qty, qty >= 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), f >= 0
}

func parsePrice(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, false
	}
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return decimal.Decimal{}, false
	}
	return price, true
}
