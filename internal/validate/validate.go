package validate

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/asifiqbal2018/sales-analytics-system/internal/ids"
	"github.com/asifiqbal2018/sales-analytics-system/internal/model"
)

// Options holds the optional filters applied after validation.
type Options struct {
	Region    string // case-insensitive exact match; empty = no filter
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// Apply validates records and applies the optional filters, in that order.
// It returns normalized copies of the surviving records, so the input slice
// is never mutated and downstream stages can rely on a read-only record set.
//
// Validation short-circuits on the first failing rule per record; every
// failure increments the single invalid counter, with no per-reason split.
func Apply(records []model.Transaction, opts Options) ([]model.Transaction, int, model.FilterSummary) {
	summary := model.FilterSummary{TotalInput: len(records)}

	var valid []model.Transaction
	for _, rec := range records {
		norm, ok := normalize(rec)
		if !ok {
			summary.Invalid++
			continue
		}
		valid = append(valid, norm)
	}

	current := valid

	if region := strings.TrimSpace(opts.Region); region != "" {
		before := len(current)
		var kept []model.Transaction
		for _, rec := range current {
			if strings.EqualFold(rec.Region, region) {
				kept = append(kept, rec)
			}
		}
		current = kept
		summary.FilteredByRegion = before - len(current)
	}

	if opts.MinAmount != nil || opts.MaxAmount != nil {
		before := len(current)
		var kept []model.Transaction
		for _, rec := range current {
			amt := rec.Amount()
			if opts.MinAmount != nil && amt.LessThan(*opts.MinAmount) {
				continue
			}
			if opts.MaxAmount != nil && amt.GreaterThan(*opts.MaxAmount) {
				continue
			}
			kept = append(kept, rec)
		}
		current = kept
		summary.FilteredByAmount = before - len(current)
	}

	summary.FinalCount = len(current)
	return current, summary.Invalid, summary
}

// normalize trims and checks a record, returning the cleaned copy.
func normalize(rec model.Transaction) (model.Transaction, bool) {
	rec.TransactionID = strings.TrimSpace(rec.TransactionID)
	rec.Date = strings.TrimSpace(rec.Date)
	rec.ProductID = strings.TrimSpace(rec.ProductID)
	rec.ProductName = strings.TrimSpace(rec.ProductName)
	rec.CustomerID = strings.TrimSpace(rec.CustomerID)
	rec.Region = strings.TrimSpace(rec.Region)

	if rec.TransactionID == "" || rec.Date == "" || rec.ProductID == "" ||
		rec.ProductName == "" || rec.CustomerID == "" || rec.Region == "" {
		return model.Transaction{}, false
	}
	if rec.Quantity <= 0 || !rec.UnitPrice.IsPositive() {
		return model.Transaction{}, false
	}
	if !ids.HasTransactionPrefix(rec.TransactionID) {
		return model.Transaction{}, false
	}
	if !ids.HasProductPrefix(rec.ProductID) {
		return model.Transaction{}, false
	}
	if !ids.HasCustomerPrefix(rec.CustomerID) {
		return model.Transaction{}, false
	}
	return rec, true
}

// Overview describes the valid record set before filters are chosen: the
// sorted distinct regions present and the min/max transaction amount.
type Overview struct {
	Regions   []string
	MinAmount decimal.Decimal
	MaxAmount decimal.Decimal
	HasRange  bool // false when there are no valid records
}

// Summarize computes the filter-choice overview for a valid record set.
func Summarize(valid []model.Transaction) Overview {
	seen := make(map[string]bool)
	var regions []string
	for _, rec := range valid {
		if !seen[rec.Region] {
			seen[rec.Region] = true
			regions = append(regions, rec.Region)
		}
	}
	sort.Strings(regions)

	ov := Overview{Regions: regions}
	for i, rec := range valid {
		amt := rec.Amount()
		if i == 0 {
			ov.MinAmount, ov.MaxAmount, ov.HasRange = amt, amt, true
			continue
		}
		if amt.LessThan(ov.MinAmount) {
			ov.MinAmount = amt
		}
		if amt.GreaterThan(ov.MaxAmount) {
			ov.MaxAmount = amt
		}
	}
	return ov
}
