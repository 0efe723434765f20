package enrich

import (
	"github.com/asifiqbal2018/sales-analytics-system/internal/catalog"
	"github.com/asifiqbal2018/sales-analytics-system/internal/ids"
	"github.com/asifiqbal2018/sales-analytics-system/internal/model"
)

// Enrich joins each transaction against the catalog by the numeric part of
// its product ID. A lookup miss is a normal outcome, not an error: the
// record is copied through with Match=false and nil catalog fields.
func Enrich(txns []model.Transaction, svc *catalog.Service) []model.Enriched {
	enriched := make([]model.Enriched, 0, len(txns))
	for _, t := range txns {
		row := model.Enriched{Transaction: t}

		if num, ok := ids.ProductNumber(t.ProductID); ok {
			if p, found := svc.Get(num); found {
				category, brand, rating := p.Category, p.Brand, p.Rating
				row.Category = &category
				row.Brand = &brand
				row.Rating = &rating
				row.Match = true
			}
		}

		enriched = append(enriched, row)
	}
	return enriched
}

// MatchCount returns how many rows carry resolved catalog attributes.
func MatchCount(rows []model.Enriched) int {
	n := 0
	for _, r := range rows {
		if r.Match {
			n++
		}
	}
	return n
}
