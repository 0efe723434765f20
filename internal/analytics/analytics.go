package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/asifiqbal2018/sales-analytics-system/internal/model"
)

// All functions in this package are pure folds over the valid record set:
// nothing is cached, nothing is mutated, and calling twice yields identical
// results. Groupings accumulate in first-seen order and are sorted with
// stable sorts so that ties resolve deterministically.

// RegionStat summarizes sales for one region.
type RegionStat struct {
	Region           string
	TotalSales       decimal.Decimal
	TransactionCount int
	Percentage       decimal.Decimal // share of grand total, rounded to 2 places
}

// ProductStat summarizes quantity and revenue for one product name.
type ProductStat struct {
	Name     string
	Quantity int
	Revenue  decimal.Decimal
}

// CustomerStat summarizes purchases for one customer.
type CustomerStat struct {
	CustomerID    string
	TotalSpent    decimal.Decimal
	PurchaseCount int
	AvgOrderValue decimal.Decimal // rounded to 2 places, zero if no purchases
	Products      []string        // distinct product names in first-seen order
}

// DayStat summarizes one date's sales.
type DayStat struct {
	Date             string
	Revenue          decimal.Decimal
	TransactionCount int
	UniqueCustomers  int
}

// TotalRevenue sums Amount over all transactions.
func TotalRevenue(txns []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount())
	}
	return total
}

// RegionSales groups by region, ordered by total sales descending.
// The percentage of the grand total is zero when the grand total is zero.
func RegionSales(txns []model.Transaction) []RegionStat {
	idx := make(map[string]int)
	var stats []RegionStat
	grand := decimal.Zero

	for _, t := range txns {
		if t.Region == "" {
			continue
		}
		amt := t.Amount()
		grand = grand.Add(amt)

		i, ok := idx[t.Region]
		if !ok {
			i = len(stats)
			idx[t.Region] = i
			stats = append(stats, RegionStat{Region: t.Region, TotalSales: decimal.Zero})
		}
		stats[i].TotalSales = stats[i].TotalSales.Add(amt)
		stats[i].TransactionCount++
	}

	for i := range stats {
		if grand.IsPositive() {
			stats[i].Percentage = stats[i].TotalSales.Mul(decimal.NewFromInt(100)).Div(grand).Round(2)
		} else {
			stats[i].Percentage = decimal.Zero
		}
	}

	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].TotalSales.GreaterThan(stats[b].TotalSales)
	})
	return stats
}

// TopProducts returns the first n products by total quantity descending,
// ties broken by revenue descending. n <= 0 yields an empty result.
func TopProducts(txns []model.Transaction, n int) []ProductStat {
	if n <= 0 {
		return nil
	}
	stats := productStats(txns)
	sort.SliceStable(stats, func(a, b int) bool {
		if stats[a].Quantity != stats[b].Quantity {
			return stats[a].Quantity > stats[b].Quantity
		}
		return stats[a].Revenue.GreaterThan(stats[b].Revenue)
	})
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// LowPerformers returns products with total quantity strictly below the
// threshold, ordered by quantity ascending, ties broken by revenue ascending.
func LowPerformers(txns []model.Transaction, threshold int) []ProductStat {
	var low []ProductStat
	for _, s := range productStats(txns) {
		if s.Quantity < threshold {
			low = append(low, s)
		}
	}
	sort.SliceStable(low, func(a, b int) bool {
		if low[a].Quantity != low[b].Quantity {
			return low[a].Quantity < low[b].Quantity
		}
		return low[a].Revenue.LessThan(low[b].Revenue)
	})
	return low
}

func productStats(txns []model.Transaction) []ProductStat {
	idx := make(map[string]int)
	var stats []ProductStat
	for _, t := range txns {
		if t.ProductName == "" {
			continue
		}
		i, ok := idx[t.ProductName]
		if !ok {
			i = len(stats)
			idx[t.ProductName] = i
			stats = append(stats, ProductStat{Name: t.ProductName, Revenue: decimal.Zero})
		}
		stats[i].Quantity += t.Quantity
		stats[i].Revenue = stats[i].Revenue.Add(t.Amount())
	}
	return stats
}

// CustomerStats groups by customer ID, ordered by total spent descending.
func CustomerStats(txns []model.Transaction) []CustomerStat {
	idx := make(map[string]int)
	var stats []CustomerStat

	for _, t := range txns {
		if t.CustomerID == "" {
			continue
		}
		i, ok := idx[t.CustomerID]
		if !ok {
			i = len(stats)
			idx[t.CustomerID] = i
			stats = append(stats, CustomerStat{CustomerID: t.CustomerID, TotalSpent: decimal.Zero})
		}
		stats[i].TotalSpent = stats[i].TotalSpent.Add(t.Amount())
		stats[i].PurchaseCount++

		if t.ProductName != "" && !contains(stats[i].Products, t.ProductName) {
			stats[i].Products = append(stats[i].Products, t.ProductName)
		}
	}

	for i := range stats {
		if stats[i].PurchaseCount > 0 {
			stats[i].AvgOrderValue = stats[i].TotalSpent.
				Div(decimal.NewFromInt(int64(stats[i].PurchaseCount))).Round(2)
		}
	}

	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].TotalSpent.GreaterThan(stats[b].TotalSpent)
	})
	return stats
}

// DailyTrend groups by date string, ordered chronologically. Dates are
// grouped and sorted lexicographically; no calendar parsing is involved.
func DailyTrend(txns []model.Transaction) []DayStat {
	idx := make(map[string]int)
	customers := make(map[string]map[string]bool)
	var days []DayStat

	for _, t := range txns {
		if t.Date == "" {
			continue
		}
		i, ok := idx[t.Date]
		if !ok {
			i = len(days)
			idx[t.Date] = i
			days = append(days, DayStat{Date: t.Date, Revenue: decimal.Zero})
			customers[t.Date] = make(map[string]bool)
		}
		days[i].Revenue = days[i].Revenue.Add(t.Amount())
		days[i].TransactionCount++
		if t.CustomerID != "" {
			customers[t.Date][t.CustomerID] = true
		}
	}

	for i := range days {
		days[i].UniqueCustomers = len(customers[days[i].Date])
	}

	sort.Slice(days, func(a, b int) bool { return days[a].Date < days[b].Date })
	return days
}

// PeakDay returns the day with maximum revenue; revenue ties go to the
// lexicographically earliest date. An empty record set yields ("", 0, 0).
func PeakDay(txns []model.Transaction) (string, decimal.Decimal, int) {
	trend := DailyTrend(txns)
	if len(trend) == 0 {
		return "", decimal.Zero, 0
	}

	best := trend[0]
	for _, d := range trend[1:] {
		// trend is date-ascending, so a strict comparison keeps the earliest
		// date on exact revenue ties.
		if d.Revenue.GreaterThan(best.Revenue) {
			best = d
		}
	}
	return best.Date, best.Revenue, best.TransactionCount
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
