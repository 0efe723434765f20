package enrich

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/asifiqbal2018/sales-analytics-system/internal/model"
)

// Header is the fixed 12-column header of the enriched data file.
const Header = "TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region|API_Category|API_Brand|API_Rating|API_Match"

const (
	numFields   = 12
	colTxnID    = 0
	colDate     = 1
	colProdID   = 2
	colProdName = 3
	colQty      = 4
	colPrice    = 5
	colCustID   = 6
	colRegion   = 7
	colCategory = 8
	colBrand    = 9
	colRating   = 10
	colMatch    = 11
)

// Write writes the enriched rows (with header) as pipe-delimited text.
// Nil catalog fields serialize as empty strings; Match as "true"/"false".
func Write(w io.Writer, rows []model.Enriched) error {
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(MarshalRow(row), "|")); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return nil
}

// WriteFile persists the enriched set, creating the parent directory.
func WriteFile(path string, rows []model.Enriched) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating enriched file: %w", err)
	}
	defer f.Close()

	return Write(f, rows)
}

// MarshalRow converts an enriched record to its 12 pipe-delimited fields.
func MarshalRow(row model.Enriched) []string {
	out := make([]string, numFields)
	out[colTxnID] = row.TransactionID
	out[colDate] = row.Date
	out[colProdID] = row.ProductID
	out[colProdName] = row.ProductName
	out[colQty] = strconv.Itoa(row.Quantity)
	out[colPrice] = row.UnitPrice.String()
	out[colCustID] = row.CustomerID
	out[colRegion] = row.Region
	if row.Category != nil {
		out[colCategory] = *row.Category
	}
	if row.Brand != nil {
		out[colBrand] = *row.Brand
	}
	if row.Rating != nil {
		out[colRating] = strconv.FormatFloat(*row.Rating, 'g', -1, 64)
	}
	out[colMatch] = strconv.FormatBool(row.Match)
	return out
}

// Read parses an enriched data file back into records. Rows with extra
// pipes inside ProductName are recovered positionally the same way the
// ingest parser does; otherwise-malformed rows are skipped.
func Read(r io.Reader) ([]model.Enriched, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading enriched file: %w", err)
	}

	var rows []model.Enriched
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == Header {
			continue
		}
		row, ok := unmarshalRow(line)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func unmarshalRow(line string) (model.Enriched, bool) {
	parts := strings.Split(line, "|")

	var fields [numFields]string
	switch {
	case len(parts) == numFields:
		copy(fields[:], parts)
	case len(parts) > numFields:
		copy(fields[:colProdName], parts[:colProdName])
		fields[colProdName] = strings.Join(parts[colProdName:len(parts)-8], "|")
		copy(fields[colQty:], parts[len(parts)-8:])
	default:
		return model.Enriched{}, false
	}

	qty, err := strconv.Atoi(fields[colQty])
	if err != nil {
		return model.Enriched{}, false
	}
	price, err := decimal.NewFromString(fields[colPrice])
	if err != nil {
		return model.Enriched{}, false
	}

	row := model.Enriched{
		Transaction: model.Transaction{
			TransactionID: fields[colTxnID],
			Date:          fields[colDate],
			ProductID:     fields[colProdID],
			ProductName:   fields[colProdName],
			Quantity:      qty,
			UnitPrice:     price,
			CustomerID:    fields[colCustID],
			Region:        fields[colRegion],
		},
		Match: fields[colMatch] == "true",
	}
	if fields[colCategory] != "" {
		v := fields[colCategory]
		row.Category = &v
	}
	if fields[colBrand] != "" {
		v := fields[colBrand]
		row.Brand = &v
	}
	if fields[colRating] != "" {
		if v, err := strconv.ParseFloat(fields[colRating], 64); err == nil {
			row.Rating = &v
		}
	}
	return row, true
}
