package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level sales.yaml configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Catalog CatalogConfig `yaml:"catalog"`
	Report  ReportConfig  `yaml:"report"`
}

// InputConfig locates the sales data file and names its format.
type InputConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

// OutputConfig names the files the pipeline writes.
type OutputConfig struct {
	EnrichedPath string `yaml:"enriched_path"`
	ReportPath   string `yaml:"report_path"`
	RunLogDir    string `yaml:"run_log_dir"`
}

// CatalogConfig controls the external product catalog fetch.
type CatalogConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ReportConfig controls report formatting.
type ReportConfig struct {
	CurrencySymbol string `yaml:"currency_symbol"`
}

// Load reads a sales.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the standard project layout.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path:   "data/sales_data.txt",
			Format: "pipe",
		},
		Output: OutputConfig{
			EnrichedPath: "data/enriched_sales_data.txt",
			ReportPath:   "output/sales_report.txt",
			RunLogDir:    "logs",
		},
		Catalog: CatalogConfig{
			BaseURL:        "https://dummyjson.com/products",
			TimeoutSeconds: 15,
		},
		Report: ReportConfig{
			CurrencySymbol: "₹",
		},
	}
}
