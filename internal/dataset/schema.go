package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// Canonical column names of the transaction log. Every pipeline stage
// downstream of reconciliation assumes exactly these nine columns.
const (
	ColTimestamp = "Tanggal & Waktu"
	ColReceipt   = "Nomor Struk"
	ColSaleType  = "Jenis Penjualan"
	ColCustomer  = "Nama Pelanggan"
	ColProduct   = "Nama Produk"
	ColCategory  = "Kategori"
	ColQuantity  = "Jumlah"
	ColPrice     = "Harga"
	ColPayment   = "Metode Pembayaran"
)

// CanonicalColumns returns the canonical schema in its stable order.
func CanonicalColumns() []string {
	return []string{
		ColTimestamp,
		ColReceipt,
		ColSaleType,
		ColCustomer,
		ColProduct,
		ColCategory,
		ColQuantity,
		ColPrice,
		ColPayment,
	}
}

// RawTable is an uploaded table before typing: a header plus string cells.
// Rows shorter than the header are padded with empty cells by the readers.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of a column, or -1 when absent.
func (t RawTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ColumnMapping maps each canonical column name to the column name actually
// present in the upload. It is built once per upload and applied exactly once.
type ColumnMapping map[string]string

// SchemaError reports canonical columns that could not be resolved against an
// upload. It is recoverable: the caller re-prompts for the missing mappings.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch: no mapping for canonical columns: %s", strings.Join(e.Missing, ", "))
}

// IsCanonical reports whether the table's column set equals the canonical set
// (order-insensitive, no extras, no duplicates).
func IsCanonical(t RawTable) bool {
	if len(t.Columns) != len(CanonicalColumns()) {
		return false
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if seen[c] {
			return false
		}
		seen[c] = true
	}
	for _, c := range CanonicalColumns() {
		if !seen[c] {
			return false
		}
	}
	return true
}

// Reconcile aligns an uploaded table onto the canonical schema.
//
// If the upload already exposes exactly the canonical column set it is
// returned unchanged. Otherwise every canonical column is resolved through the
// supplied mapping and the table is re-projected to exactly the nine canonical
// columns, dropping anything unmapped. A canonical column with no usable
// mapping yields a *SchemaError listing every unresolved column, so the caller
// can request the full set of corrections in one round trip.
func Reconcile(t RawTable, mapping ColumnMapping) (RawTable, error) {
	if IsCanonical(t) {
		return t, nil
	}

	canonical := CanonicalColumns()
	indices := make([]int, len(canonical))
	var missing []string

	for i, col := range canonical {
		source := col
		if mapped, ok := mapping[col]; ok && mapped != "" {
			source = mapped
		}
		idx := t.ColumnIndex(source)
		if idx < 0 {
			missing = append(missing, col)
			continue
		}
		indices[i] = idx
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return RawTable{}, &SchemaError{Missing: missing}
	}

	out := RawTable{
		Columns: canonical,
		Rows:    make([][]string, len(t.Rows)),
	}
	for r, row := range t.Rows {
		projected := make([]string, len(indices))
		for i, idx := range indices {
			if idx < len(row) {
				projected[i] = row[idx]
			}
		}
		out.Rows[r] = projected
	}
	return out, nil
}
