package ingest

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/asifiqbal2018/sales-analytics-system/internal/model"
)

// Parser converts raw data lines into transactions.
type Parser interface {
	Parse(lines []string) []model.Transaction
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&PipeParser{})
	return r
}

const numFields = 8

// PipeParser parses pipe-delimited sales rows in the order
// TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region.
type PipeParser struct{}

// Format returns the parser name.
func (p *PipeParser) Format() string { return "pipe" }

// Parse converts lines to transactions. Malformed lines are dropped, not
// counted: wrong field count and unparseable numbers are structural noise at
// this stage, and the permissive policy is part of the output contract.
func (p *PipeParser) Parse(lines []string) []model.Transaction {
	var txns []model.Transaction
	for _, line := range lines {
		txn, ok := parseLine(line)
		if !ok {
			continue
		}
		txns = append(txns, txn)
	}
	return txns
}

func parseLine(line string) (model.Transaction, bool) {
	parts := strings.Split(line, "|")

	var fields [numFields]string
	switch {
	case len(parts) == numFields:
		for i, p := range parts {
			fields[i] = strings.TrimSpace(p)
		}
	case len(parts) > numFields:
		// Extra pipes are assumed to sit inside ProductName: the first 3 and
		// last 4 fields are fixed, everything between is the name.
		fields[0] = strings.TrimSpace(parts[0])
		fields[1] = strings.TrimSpace(parts[1])
		fields[2] = strings.TrimSpace(parts[2])
		fields[3] = strings.TrimSpace(strings.Join(parts[3:len(parts)-4], "|"))
		fields[4] = strings.TrimSpace(parts[len(parts)-4])
		fields[5] = strings.TrimSpace(parts[len(parts)-3])
		fields[6] = strings.TrimSpace(parts[len(parts)-2])
		fields[7] = strings.TrimSpace(parts[len(parts)-1])
	default:
		return model.Transaction{}, false
	}

	// Commas are stripped everywhere they can appear: as stray punctuation in
	// the name and as thousands separators in the numeric fields.
	name := strings.TrimSpace(strings.ReplaceAll(fields[3], ",", ""))
	qtyStr := strings.TrimSpace(strings.ReplaceAll(fields[4], ",", ""))
	priceStr := strings.TrimSpace(strings.ReplaceAll(fields[5], ",", ""))

	qty, err := strconv.Atoi(qtyStr)
	if err != nil {
		return model.Transaction{}, false
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return model.Transaction{}, false
	}

	return model.Transaction{
		TransactionID: fields[0],
		Date:          fields[1],
		ProductID:     fields[2],
		ProductName:   name,
		Quantity:      qty,
		UnitPrice:     price,
		CustomerID:    fields[6],
		Region:        fields[7],
	}, true
}
