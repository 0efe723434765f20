package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asifiqbal2018/sales-analytics-system/internal/config"
	"github.com/asifiqbal2018/sales-analytics-system/internal/enrich"
	"github.com/asifiqbal2018/sales-analytics-system/internal/runlog"
)

const sampleData = `TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region
T001|2024-12-01|P101|Laptop|2|45,000|C001|North
T002|2024-12-01|P102|Key|board|3|500|C002|South
T003|2024-12-02|P999|Webcam|1|3000|C003|North
T004|2024-12-02|P103|Desk|0|7000|C004|East
bad line
`

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products":[
			{"id":101,"title":"Laptop","category":"electronics","brand":"Acme","price":499.5,"rating":4.5},
			{"id":102,"title":"Keyboard","category":"accessories","brand":"Logi","price":19.9,"rating":4.1}
		]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeProject(t *testing.T, catalogURL string) (string, *config.Config) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Input.Path = filepath.Join(dir, "sales_data.txt")
	cfg.Output.EnrichedPath = filepath.Join(dir, "enriched_sales_data.txt")
	cfg.Output.ReportPath = filepath.Join(dir, "output", "sales_report.txt")
	cfg.Output.RunLogDir = filepath.Join(dir, "logs")
	cfg.Catalog.BaseURL = catalogURL
	cfg.Catalog.TimeoutSeconds = 2

	cfgPath := filepath.Join(dir, "sales.yaml")
	require.NoError(t, config.Save(cfgPath, cfg))
	require.NoError(t, os.WriteFile(cfg.Input.Path, []byte(sampleData), 0o644))
	return cfgPath, cfg
}

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	cmd := NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestRunFullPipeline(t *testing.T) {
	srv := catalogServer(t)
	cfgPath, cfg := writeProject(t, srv.URL)

	out := execute(t, "", "run", "--config", cfgPath)

	assert.Contains(t, out, "✓ Successfully read 5 transactions")
	assert.Contains(t, out, "✓ Parsed 4 records", "bad line dropped by the parser")
	assert.Contains(t, out, "✓ Valid: 3 | Invalid: 1", "zero-quantity row rejected")
	assert.Contains(t, out, "Available regions: North, South")
	assert.Contains(t, out, "✓ Fetched 2 products")
	assert.Contains(t, out, "✓ Enriched 2/3 transactions")

	// Enriched file round-trips.
	f, err := os.Open(cfg.Output.EnrichedPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := enrich.Read(f)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Key|board", rows[1].ProductName)
	assert.True(t, rows[0].Match)
	assert.False(t, rows[2].Match, "P999 has no catalog entry")

	// Report written with fixed sections.
	body, err := os.ReadFile(cfg.Output.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(body), "SALES ANALYTICS REPORT")
	assert.Contains(t, string(body), "API ENRICHMENT SUMMARY")
	assert.Contains(t, string(body), "- Webcam")

	// Run log appended.
	entries, err := runlog.Read(cfg.Output.RunLogDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Valid)
	assert.Equal(t, 2, entries[0].Matched)
}

func TestRunWithRegionFilter(t *testing.T) {
	srv := catalogServer(t)
	cfgPath, _ := writeProject(t, srv.URL)

	out := execute(t, "", "run", "--config", cfgPath, "--region", "north")
	assert.Contains(t, out, "✓ Valid: 2 | Invalid: 1")
}

func TestRunWithAmountFilter(t *testing.T) {
	srv := catalogServer(t)
	cfgPath, _ := writeProject(t, srv.URL)

	// Amounts: 90000, 1500, 3000. Inclusive bounds keep 1500 and 3000.
	out := execute(t, "", "run", "--config", cfgPath, "--min-amount", "1500", "--max-amount", "3000")
	assert.Contains(t, out, "✓ Valid: 2 | Invalid: 1")
}

func TestRunInteractiveFilters(t *testing.T) {
	srv := catalogServer(t)
	cfgPath, _ := writeProject(t, srv.URL)

	out := execute(t, "y\nSouth\n\n\n", "run", "--config", cfgPath, "--interactive")
	assert.Contains(t, out, "Do you want to filter data?")
	assert.Contains(t, out, "✓ Valid: 1 | Invalid: 1")
}

func TestRunInteractiveDeclined(t *testing.T) {
	srv := catalogServer(t)
	cfgPath, _ := writeProject(t, srv.URL)

	out := execute(t, "n\n", "run", "--config", cfgPath, "--interactive")
	assert.Contains(t, out, "✓ Valid: 3 | Invalid: 1")
}

func TestRunNoEnrich(t *testing.T) {
	cfgPath, cfg := writeProject(t, "http://127.0.0.1:1")

	out := execute(t, "", "run", "--config", cfgPath, "--no-enrich")
	assert.Contains(t, out, "Catalog fetch skipped")
	assert.Contains(t, out, "✓ Enriched 0/3 transactions")

	body, err := os.ReadFile(cfg.Output.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Success rate:               0.00%")
}

func TestRunProviderFailureDegradesToEmptyCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	cfgPath, _ := writeProject(t, srv.URL)

	out := execute(t, "", "run", "--config", cfgPath)
	assert.Contains(t, out, "✗ API fetch failed (continuing with no enrichment matches).")
	assert.Contains(t, out, "✓ Enriched 0/3 transactions")
}

func TestRunMissingInputStops(t *testing.T) {
	srv := catalogServer(t)
	cfgPath, cfg := writeProject(t, srv.URL)
	require.NoError(t, os.Remove(cfg.Input.Path))

	out := execute(t, "", "run", "--config", cfgPath)
	assert.Contains(t, out, "✗ No data read.")
	assert.NotContains(t, out, "[4/10]")
}

func TestRunUnknownFormat(t *testing.T) {
	srv := catalogServer(t)
	cfgPath, cfg := writeProject(t, srv.URL)
	cfg.Input.Format = "xml"
	require.NoError(t, config.Save(cfgPath, cfg))

	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"run", "--config", cfgPath})
	assert.Error(t, cmd.Execute())
}

func TestRunBadAmountFlag(t *testing.T) {
	srv := catalogServer(t)
	cfgPath, _ := writeProject(t, srv.URL)

	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"run", "--config", cfgPath, "--min-amount", "abc"})
	assert.Error(t, cmd.Execute())
}
