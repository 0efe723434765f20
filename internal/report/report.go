package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/asifiqbal2018/sales-analytics-system/internal/analytics"
	"github.com/asifiqbal2018/sales-analytics-system/internal/model"
)

const (
	reportWidth = 60
	topN        = 5
	lowQtyLimit = 10
)

// DefaultCurrency prefixes money values in the rendered report.
const DefaultCurrency = "₹"

// Renderer formats the fixed-layout sales report.
type Renderer struct {
	currency string
}

// NewRenderer creates a Renderer with the given currency symbol
// (DefaultCurrency if empty).
func NewRenderer(currency string) *Renderer {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Renderer{currency: currency}
}

// Render produces the full report text. It recomputes every aggregate from
// the record sets it is given, so a standalone call is always
// self-consistent regardless of what the caller computed earlier.
func (r *Renderer) Render(valid []model.Transaction, enriched []model.Enriched, now time.Time) string {
	var lines []string
	add := func(s string) { lines = append(lines, s) }

	totalTx := len(valid)
	totalRevenue := analytics.TotalRevenue(valid)
	avgOrder := decimal.Zero
	if totalTx > 0 {
		avgOrder = totalRevenue.Div(decimal.NewFromInt(int64(totalTx)))
	}

	dateMin, dateMax := dateRange(valid)

	// Header.
	add(rule('=', reportWidth))
	add(center("SALES ANALYTICS REPORT", reportWidth))
	add(center("Generated: "+now.Format("2006-01-02 15:04:05"), reportWidth))
	add(center(fmt.Sprintf("Records Processed: %d", totalTx), reportWidth))
	add(rule('=', reportWidth))
	add("")

	// Overall summary.
	add("OVERALL SUMMARY")
	add(rule('-', reportWidth))
	add("Total Revenue:        " + r.Money(totalRevenue))
	add(fmt.Sprintf("Total Transactions:   %d", totalTx))
	add("Average Order Value:  " + r.Money(avgOrder))
	add(fmt.Sprintf("Date Range:           %s to %s", dateMin, dateMax))
	add("")

	// Region performance.
	regions := analytics.RegionSales(valid)
	add("REGION-WISE PERFORMANCE")
	add(rule('-', reportWidth))
	if len(regions) > 0 {
		rows := make([][]string, 0, len(regions))
		for _, s := range regions {
			rows = append(rows, []string{
				s.Region,
				r.Money(s.TotalSales),
				s.Percentage.StringFixed(2) + "%",
				strconv.Itoa(s.TransactionCount),
			})
		}
		add(table([]string{"Region", "Sales", "% of Total", "Transactions"}, rows))
	} else {
		add("No region data available.")
	}
	add("")

	// Top products.
	add(fmt.Sprintf("TOP %d PRODUCTS", topN))
	add(rule('-', reportWidth))
	top := analytics.TopProducts(valid, topN)
	if len(top) > 0 {
		rows := make([][]string, 0, len(top))
		for i, p := range top {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				p.Name,
				strconv.Itoa(p.Quantity),
				r.Money(p.Revenue),
			})
		}
		add(table([]string{"Rank", "Product Name", "Quantity Sold", "Revenue"}, rows))
	} else {
		add("No product data available.")
	}
	add("")

	// Top customers.
	add(fmt.Sprintf("TOP %d CUSTOMERS", topN))
	add(rule('-', reportWidth))
	customers := analytics.CustomerStats(valid)
	if len(customers) > topN {
		customers = customers[:topN]
	}
	if len(customers) > 0 {
		rows := make([][]string, 0, len(customers))
		for i, c := range customers {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				c.CustomerID,
				r.Money(c.TotalSpent),
				strconv.Itoa(c.PurchaseCount),
			})
		}
		add(table([]string{"Rank", "Customer ID", "Total Spent", "Order Count"}, rows))
	} else {
		add("No customer data available.")
	}
	add("")

	// Daily trend.
	add("DAILY SALES TREND")
	add(rule('-', reportWidth))
	trend := analytics.DailyTrend(valid)
	if len(trend) > 0 {
		rows := make([][]string, 0, len(trend))
		for _, d := range trend {
			rows = append(rows, []string{
				d.Date,
				r.Money(d.Revenue),
				strconv.Itoa(d.TransactionCount),
				strconv.Itoa(d.UniqueCustomers),
			})
		}
		add(table([]string{"Date", "Revenue", "Transactions", "Unique Customers"}, rows))
	} else {
		add("No daily trend data available.")
	}
	add("")

	// Product performance.
	add("PRODUCT PERFORMANCE ANALYSIS")
	add(rule('-', reportWidth))
	peakDate, peakRevenue, peakCount := analytics.PeakDay(valid)
	if peakDate != "" {
		add(fmt.Sprintf("Best selling day: %s | Revenue: %s | Transactions: %d",
			peakDate, r.Money(peakRevenue), peakCount))
	} else {
		add("Best selling day: N/A")
	}
	add("")

	add(fmt.Sprintf("Low performing products (qty < %d):", lowQtyLimit))
	low := analytics.LowPerformers(valid, lowQtyLimit)
	if len(low) > 0 {
		rows := make([][]string, 0, len(low))
		for _, p := range low {
			rows = append(rows, []string{p.Name, strconv.Itoa(p.Quantity), r.Money(p.Revenue)})
		}
		add(table([]string{"Product Name", "Total Quantity", "Total Revenue"}, rows))
	} else {
		add("None")
	}
	add("")

	add("Average transaction value per region:")
	if len(regions) > 0 {
		type regionAvg struct {
			region string
			value  decimal.Decimal
		}
		avgs := make([]regionAvg, 0, len(regions))
		for _, s := range regions {
			avgs = append(avgs, regionAvg{
				region: s.Region,
				value:  s.TotalSales.Div(decimal.NewFromInt(int64(s.TransactionCount))),
			})
		}
		sort.SliceStable(avgs, func(a, b int) bool { return avgs[a].value.GreaterThan(avgs[b].value) })

		rows := make([][]string, 0, len(avgs))
		for _, a := range avgs {
			rows = append(rows, []string{a.region, r.Money(a.value)})
		}
		add(table([]string{"Region", "Avg Tx Value"}, rows))
	} else {
		add("N/A")
	}
	add("")

	// Enrichment summary.
	add("API ENRICHMENT SUMMARY")
	add(rule('-', reportWidth))
	matched := 0
	for _, e := range enriched {
		if e.Match {
			matched++
		}
	}
	successRate := 0.0
	if len(enriched) > 0 {
		successRate = float64(matched) / float64(len(enriched)) * 100.0
	}
	add(fmt.Sprintf("Total transactions enriched: %d", len(enriched)))
	add(fmt.Sprintf("Successful enrichments:      %d", matched))
	add(fmt.Sprintf("Success rate:               %.2f%%", successRate))
	add("")
	add("Products that couldn't be enriched:")
	unmatched := unmatchedProducts(enriched)
	if len(unmatched) > 0 {
		for _, p := range unmatched {
			add("- " + p)
		}
	} else {
		add("None")
	}
	add("")

	return strings.Join(lines, "\n")
}

// WriteFile writes the rendered report, creating the parent directory.
func WriteFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Money formats a decimal as <symbol><thousands-grouped 2-decimal>.
func (r *Renderer) Money(d decimal.Decimal) string {
	return r.currency + groupThousands(d.StringFixed(2))
}

// groupThousands inserts commas into the integer part of a fixed-point
// string: "1234567.89" -> "1,234,567.89".
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	out := b.String()
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// dateRange returns the min/max date strings, or "N/A" when empty.
func dateRange(txns []model.Transaction) (string, string) {
	min, max := "", ""
	for _, t := range txns {
		if t.Date == "" {
			continue
		}
		if min == "" || t.Date < min {
			min = t.Date
		}
		if t.Date > max {
			max = t.Date
		}
	}
	if min == "" {
		return "N/A", "N/A"
	}
	return min, max
}

// unmatchedProducts returns the sorted distinct product names among rows
// with no catalog match.
func unmatchedProducts(enriched []model.Enriched) []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range enriched {
		if e.Match || e.ProductName == "" || seen[e.ProductName] {
			continue
		}
		seen[e.ProductName] = true
		names = append(names, e.ProductName)
	}
	sort.Strings(names)
	return names
}

// table renders a left-justified, width-padded text table with a dash
// separator row under the header, columns joined by two spaces.
func table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := utf8.RuneCountInString(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	formatRow := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = padRight(cell, widths[i])
		}
		return strings.Join(parts, "  ")
	}

	var b strings.Builder
	b.WriteString(formatRow(headers))
	b.WriteByte('\n')
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	b.WriteString(strings.Join(seps, "  "))
	for _, row := range rows {
		b.WriteByte('\n')
		b.WriteString(formatRow(row))
	}
	return b.String()
}

func padRight(s string, width int) string {
	if n := width - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func center(s string, width int) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	left := n / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", n-left)
}

func rule(c byte, width int) string {
	return strings.Repeat(string(c), width)
}
