package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// ReadFile loads an uploaded transaction log from disk, sniffing the format
// by extension. CSV and XLSX uploads are supported.
func ReadFile(path string) (RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return RawTable{}, fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return RawTable{}, fmt.Errorf("unsupported upload format %q (expected .csv or .xlsx)", filepath.Ext(path))
	}
}

// ReadCSV parses a comma-separated upload with a header row into a RawTable.
// Short rows are padded; rows with no cells at all are skipped.
func ReadCSV(r io.Reader) (RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // uploads are loosely structured; pad/truncate ourselves

	header, err := reader.Read()
	if err != nil {
		return RawTable{}, fmt.Errorf("read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := RawTable{Columns: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Msg("Skipping malformed CSV row")
			continue
		}
		table.Rows = append(table.Rows, padRow(row, len(header)))
	}
	return table, nil
}

// ReadXLSX parses the first sheet of an Excel upload into a RawTable.
func ReadXLSX(path string) (RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return RawTable{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return RawTable{}, fmt.Errorf("workbook %q has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return RawTable{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return RawTable{}, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	table := RawTable{Columns: header}
	for _, row := range rows[1:] {
		table.Rows = append(table.Rows, padRow(row, len(header)))
	}
	return table, nil
}

func padRow(row []string, width int) []string {
	padded := make([]string, width)
	for i := 0; i < width && i < len(row); i++ {
		padded[i] = strings.TrimSpace(row[i])
	}
	return padded
}
