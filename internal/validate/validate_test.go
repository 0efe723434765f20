package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asifiqbal2018/sales-analytics-system/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func txn(id, date, pid, name string, qty int, price, cid, region string) model.Transaction {
	return model.Transaction{
		TransactionID: id,
		Date:          date,
		ProductID:     pid,
		ProductName:   name,
		Quantity:      qty,
		UnitPrice:     dec(price),
		CustomerID:    cid,
		Region:        region,
	}
}

func TestApplyValidRecord(t *testing.T) {
	in := []model.Transaction{txn("T001", "2024-12-01", "P101", "Laptop", 2, "45000", "C001", "North")}
	valid, invalid, summary := Apply(in, Options{})

	require.Len(t, valid, 1)
	assert.Zero(t, invalid)
	assert.Equal(t, model.FilterSummary{TotalInput: 1, FinalCount: 1}, summary)
}

func TestApplyRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name string
		rec  model.Transaction
	}{
		{"blank region", txn("T001", "2024-12-01", "P101", "Laptop", 2, "45000", "C001", "  ")},
		{"blank product name", txn("T001", "2024-12-01", "P101", "", 2, "45000", "C001", "North")},
		{"zero quantity", txn("T001", "2024-12-01", "P101", "Laptop", 0, "45000", "C001", "North")},
		{"negative price", txn("T001", "2024-12-01", "P101", "Laptop", 2, "-5", "C001", "North")},
		{"bad transaction prefix", txn("X001", "2024-12-01", "P101", "Laptop", 2, "45000", "C001", "North")},
		{"bad product prefix", txn("T001", "2024-12-01", "Q101", "Laptop", 2, "45000", "C001", "North")},
		{"bad customer prefix", txn("T001", "2024-12-01", "P101", "Laptop", 2, "45000", "X001", "North")},
		{"lowercase prefix", txn("t001", "2024-12-01", "P101", "Laptop", 2, "45000", "C001", "North")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, invalid, summary := Apply([]model.Transaction{tt.rec}, Options{})
			assert.Empty(t, valid)
			assert.Equal(t, 1, invalid)
			assert.Equal(t, 1, summary.Invalid)
			assert.Zero(t, summary.FinalCount)
		})
	}
}

func TestApplyNormalizesWithoutMutatingInput(t *testing.T) {
	in := []model.Transaction{txn(" T001 ", " 2024-12-01 ", " P101 ", " Laptop ", 2, "45000", " C001 ", " North ")}
	valid, _, _ := Apply(in, Options{})

	require.Len(t, valid, 1)
	assert.Equal(t, "T001", valid[0].TransactionID)
	assert.Equal(t, "North", valid[0].Region)
	assert.Equal(t, " T001 ", in[0].TransactionID, "input slice is left untouched")
}

func TestApplyRegionFilterCaseInsensitive(t *testing.T) {
	in := []model.Transaction{
		txn("T001", "2024-12-01", "P101", "Laptop", 2, "45000", "C001", "North"),
		txn("T002", "2024-12-01", "P102", "Mouse", 3, "500", "C002", "South"),
	}
	valid, _, summary := Apply(in, Options{Region: "north"})

	require.Len(t, valid, 1)
	assert.Equal(t, "T001", valid[0].TransactionID)
	assert.Equal(t, 1, summary.FilteredByRegion)
	assert.Equal(t, 1, summary.FinalCount)
}

func TestApplyAmountFilterInclusiveBounds(t *testing.T) {
	in := []model.Transaction{
		txn("T001", "2024-12-01", "P101", "Laptop", 2, "45000", "C001", "North"), // 90000
		txn("T002", "2024-12-01", "P102", "Mouse", 3, "500", "C002", "South"),   // 1500
		txn("T003", "2024-12-01", "P103", "Desk", 1, "7000", "C003", "East"),    // 7000
	}

	valid, _, summary := Apply(in, Options{MinAmount: decPtr("1500"), MaxAmount: decPtr("7000")})
	require.Len(t, valid, 2, "both bounds are inclusive")
	assert.Equal(t, 1, summary.FilteredByAmount)

	valid, _, _ = Apply(in, Options{MinAmount: decPtr("7001")})
	require.Len(t, valid, 1)
	assert.Equal(t, "T001", valid[0].TransactionID)

	valid, _, _ = Apply(in, Options{MaxAmount: decPtr("1500")})
	require.Len(t, valid, 1)
	assert.Equal(t, "T002", valid[0].TransactionID)
}

func TestApplyFilterStageCounts(t *testing.T) {
	in := []model.Transaction{
		txn("T001", "2024-12-01", "P101", "Laptop", 2, "45000", "C001", "North"),
		txn("T002", "2024-12-01", "P102", "Mouse", 3, "500", "C002", "North"),
		txn("T003", "2024-12-01", "P103", "Desk", 1, "7000", "C003", "South"),
		txn("bad", "2024-12-01", "P104", "Lamp", 1, "100", "C004", "West"),
	}
	valid, invalid, summary := Apply(in, Options{Region: "North", MinAmount: decPtr("2000")})

	require.Len(t, valid, 1)
	assert.Equal(t, 1, invalid)
	assert.Equal(t, model.FilterSummary{
		TotalInput:       4,
		Invalid:          1,
		FilteredByRegion: 1,
		FilteredByAmount: 1,
		FinalCount:       1,
	}, summary)
}

func TestSummarize(t *testing.T) {
	valid := []model.Transaction{
		txn("T001", "2024-12-01", "P101", "Laptop", 2, "45000", "C001", "South"),
		txn("T002", "2024-12-01", "P102", "Mouse", 3, "500", "C002", "North"),
		txn("T003", "2024-12-01", "P103", "Desk", 1, "7000", "C003", "North"),
	}
	ov := Summarize(valid)

	assert.Equal(t, []string{"North", "South"}, ov.Regions, "distinct regions, sorted")
	assert.True(t, ov.HasRange)
	assert.Equal(t, "1500", ov.MinAmount.String())
	assert.Equal(t, "90000", ov.MaxAmount.String())
}

func TestSummarizeEmpty(t *testing.T) {
	ov := Summarize(nil)
	assert.Empty(t, ov.Regions)
	assert.False(t, ov.HasRange, "no valid transactions means no amount range")
}
