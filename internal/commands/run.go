package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/asifiqbal2018/sales-analytics-system/internal/analytics"
	"github.com/asifiqbal2018/sales-analytics-system/internal/catalog"
	"github.com/asifiqbal2018/sales-analytics-system/internal/config"
	"github.com/asifiqbal2018/sales-analytics-system/internal/enrich"
	"github.com/asifiqbal2018/sales-analytics-system/internal/ingest"
	"github.com/asifiqbal2018/sales-analytics-system/internal/logging"
	"github.com/asifiqbal2018/sales-analytics-system/internal/report"
	"github.com/asifiqbal2018/sales-analytics-system/internal/runlog"
	"github.com/asifiqbal2018/sales-analytics-system/internal/validate"
)

type runFlags struct {
	configPath  string
	input       string
	region      string
	minAmount   string
	maxAmount   string
	interactive bool
	noEnrich    bool
}

func newRunCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full sales analytics pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "sales.yaml", "configuration file")
	cmd.Flags().StringVar(&flags.input, "input", "", "sales data file (overrides config)")
	cmd.Flags().StringVar(&flags.region, "region", "", "filter by region (case-insensitive)")
	cmd.Flags().StringVar(&flags.minAmount, "min-amount", "", "minimum transaction amount (inclusive)")
	cmd.Flags().StringVar(&flags.maxAmount, "max-amount", "", "maximum transaction amount (inclusive)")
	cmd.Flags().BoolVar(&flags.interactive, "interactive", false, "prompt for filters")
	cmd.Flags().BoolVar(&flags.noEnrich, "no-enrich", false, "skip the catalog fetch")

	return cmd
}

func runPipeline(cmd *cobra.Command, flags runFlags) error {
	out := cmd.OutOrStdout()
	log := logging.New()

	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	if flags.input != "" {
		cfg.Input.Path = flags.input
	}

	opts, err := filterOptions(flags)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, strings.Repeat("=", 40))
	fmt.Fprintln(out, "SALES ANALYTICS SYSTEM")
	fmt.Fprintln(out, strings.Repeat("=", 40))

	// Read.
	fmt.Fprintln(out, "\n[1/10] Reading sales data...")
	lines, err := ingest.ReadLines(cfg.Input.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", cfg.Input.Path, err)
	}
	if len(lines) == 0 {
		fmt.Fprintf(out, "✗ No data read. Please check file path: %s\n", cfg.Input.Path)
		return nil
	}
	fmt.Fprintf(out, "✓ Successfully read %d transactions\n", len(lines))

	// Parse.
	fmt.Fprintln(out, "\n[2/10] Parsing and cleaning data...")
	parser := ingest.DefaultRegistry().Get(cfg.Input.Format)
	if parser == nil {
		return fmt.Errorf("unknown input format %q", cfg.Input.Format)
	}
	parsed := parser.Parse(lines)
	log.Debug().Int("raw", len(lines)).Int("parsed", len(parsed)).Msg("parsed input")
	fmt.Fprintf(out, "✓ Parsed %d records\n", len(parsed))

	// Filter options preview.
	fmt.Fprintln(out, "\n[3/10] Filter Options Available:")
	preview, _, _ := validate.Apply(parsed, validate.Options{})
	printOverview(out, validate.Summarize(preview))

	if flags.interactive {
		opts = promptFilters(cmd.InOrStdin(), out)
	}

	// Validate and filter.
	fmt.Fprintln(out, "\n[4/10] Validating transactions...")
	valid, invalid, summary := validate.Apply(parsed, opts)
	if opts.Region != "" {
		fmt.Fprintf(out, "After region filter (%s): %d records\n", strings.TrimSpace(opts.Region), summary.TotalInput-summary.Invalid-summary.FilteredByRegion)
	}
	if opts.MinAmount != nil || opts.MaxAmount != nil {
		fmt.Fprintf(out, "After amount filter: %d records\n", summary.FinalCount)
	}
	fmt.Fprintf(out, "✓ Valid: %d | Invalid: %d\n", len(valid), invalid)
	if len(valid) == 0 {
		fmt.Fprintln(out, "✗ No valid transactions left after validation/filtering. Exiting.")
		return nil
	}

	// Analyze.
	fmt.Fprintln(out, "\n[5/10] Analyzing sales data...")
	totalRevenue := analytics.TotalRevenue(valid)
	peakDate, peakRevenue, peakCount := analytics.PeakDay(valid)
	fmt.Fprintln(out, "✓ Analysis complete")

	renderer := report.NewRenderer(cfg.Report.CurrencySymbol)
	fmt.Fprintln(out, "\n--- Quick Summary ---")
	fmt.Fprintf(out, "Total Revenue: %s\n", renderer.Money(totalRevenue))
	fmt.Fprintf(out, "Total Transactions: %d\n", len(valid))
	avgOrder := totalRevenue.Div(decimal.NewFromInt(int64(len(valid))))
	fmt.Fprintf(out, "Average Order Value: %s\n", renderer.Money(avgOrder))
	if peakDate != "" {
		fmt.Fprintf(out, "Peak Day: %s | Revenue: %s | Tx: %d\n", peakDate, renderer.Money(peakRevenue), peakCount)
	}
	fmt.Fprintln(out, "---------------------")

	// Fetch catalog.
	fmt.Fprintln(out, "\n[6/10] Fetching product data from API...")
	var products []catalog.Product
	if flags.noEnrich {
		fmt.Fprintln(out, "✗ Catalog fetch skipped (--no-enrich).")
	} else {
		client := catalog.NewClient(cfg.Catalog.BaseURL, time.Duration(cfg.Catalog.TimeoutSeconds)*time.Second, log)
		products = client.FetchAll(cmd.Context())
		if len(products) > 0 {
			fmt.Fprintf(out, "✓ Fetched %d products\n", len(products))
		} else {
			fmt.Fprintln(out, "✗ API fetch failed (continuing with no enrichment matches).")
		}
	}

	// Enrich.
	fmt.Fprintln(out, "\n[7/10] Enriching sales data...")
	svc := catalog.NewService(products)
	enriched := enrich.Enrich(valid, svc)
	matched := enrich.MatchCount(enriched)
	pct := 0.0
	if len(enriched) > 0 {
		pct = float64(matched) / float64(len(enriched)) * 100.0
	}
	fmt.Fprintf(out, "✓ Enriched %d/%d transactions (%.1f%%)\n", matched, len(enriched), pct)

	// Save enriched. A write failure is reported but the in-memory results
	// are kept and the report still runs.
	fmt.Fprintln(out, "\n[8/10] Saving enriched data...")
	if err := enrich.WriteFile(cfg.Output.EnrichedPath, enriched); err != nil {
		log.Error().Err(err).Str("path", cfg.Output.EnrichedPath).Msg("failed to save enriched data")
		fmt.Fprintf(out, "✗ Failed to save enriched data: %v\n", err)
	} else {
		fmt.Fprintf(out, "✓ Saved to: %s\n", cfg.Output.EnrichedPath)
	}

	// Report.
	fmt.Fprintln(out, "\n[9/10] Generating report...")
	body := renderer.Render(valid, enriched, time.Now())
	if err := report.WriteFile(cfg.Output.ReportPath, body); err != nil {
		log.Error().Err(err).Str("path", cfg.Output.ReportPath).Msg("failed to write report")
		fmt.Fprintf(out, "✗ Failed to write report: %v\n", err)
	} else {
		fmt.Fprintf(out, "✓ Report saved to: %s\n", cfg.Output.ReportPath)
	}

	fmt.Fprintln(out, "\n[10/10] Process Complete!")
	fmt.Fprintln(out, strings.Repeat("=", 40))
	fmt.Fprintln(out, "Files generated:")
	fmt.Fprintf(out, " - %s\n", cfg.Output.EnrichedPath)
	fmt.Fprintf(out, " - %s\n", cfg.Output.ReportPath)
	fmt.Fprintln(out, strings.Repeat("=", 40))

	entry := runlog.Entry{
		Timestamp:    time.Now(),
		Input:        cfg.Input.Path,
		RawLines:     len(lines),
		Parsed:       len(parsed),
		Valid:        len(valid),
		Invalid:      invalid,
		TotalRevenue: totalRevenue.String(),
		Matched:      matched,
		Enriched:     len(enriched),
		ReportPath:   cfg.Output.ReportPath,
	}
	if err := runlog.Append(cfg.Output.RunLogDir, entry); err != nil {
		log.Warn().Err(err).Msg("failed to write run log")
	}

	return nil
}

// loadConfig loads the config file, falling back to defaults when the file
// does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(path)
}

// filterOptions builds validator options from command-line flags.
func filterOptions(flags runFlags) (validate.Options, error) {
	opts := validate.Options{Region: flags.region}

	if flags.minAmount != "" {
		d, err := decimal.NewFromString(flags.minAmount)
		if err != nil {
			return opts, fmt.Errorf("invalid --min-amount %q", flags.minAmount)
		}
		opts.MinAmount = &d
	}
	if flags.maxAmount != "" {
		d, err := decimal.NewFromString(flags.maxAmount)
		if err != nil {
			return opts, fmt.Errorf("invalid --max-amount %q", flags.maxAmount)
		}
		opts.MaxAmount = &d
	}
	return opts, nil
}

func printOverview(out io.Writer, ov validate.Overview) {
	fmt.Fprintf(out, "Available regions: %s\n", strings.Join(ov.Regions, ", "))
	if ov.HasRange {
		fmt.Fprintf(out, "Transaction amount range (valid only): min=%s, max=%s\n",
			ov.MinAmount.StringFixed(2), ov.MaxAmount.StringFixed(2))
	} else {
		fmt.Fprintln(out, "Transaction amount range: N/A (no valid transactions)")
	}
}

// promptFilters asks for the optional filters on stdin. Blank answers skip
// a filter; an unparseable amount is treated as blank.
func promptFilters(in io.Reader, out io.Writer) validate.Options {
	reader := bufio.NewReader(in)
	ask := func(prompt string) string {
		fmt.Fprint(out, prompt)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	answer := strings.ToLower(ask("\nDo you want to filter data? (y/n): "))
	if answer != "y" && answer != "yes" {
		return validate.Options{}
	}

	opts := validate.Options{
		Region: ask("Enter region (or press Enter to skip): "),
	}
	if s := ask("Enter minimum amount (or press Enter to skip): "); s != "" {
		if d, err := decimal.NewFromString(s); err == nil {
			opts.MinAmount = &d
		}
	}
	if s := ask("Enter maximum amount (or press Enter to skip): "); s != "" {
		if d, err := decimal.NewFromString(s); err == nil {
			opts.MaxAmount = &d
		}
	}
	return opts
}
