// internal/config/types.go
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "2s" parse directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the top-level scraper configuration
type Config struct {
	Name       string           `yaml:"name"`
	ListingURL string           `yaml:"listing_url"`
	Browser    BrowserConfig    `yaml:"browser"`
	Crawl      CrawlConfig      `yaml:"crawl"`
	Retry      RetryConfig      `yaml:"retry"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Output     OutputConfig     `yaml:"output"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// BrowserConfig controls the rendering boundary
type BrowserConfig struct {
	Headless          bool     `yaml:"headless"`
	UserAgent         string   `yaml:"user_agent,omitempty"`
	NavigationTimeout Duration `yaml:"navigation_timeout"`
	SettleDelay       Duration `yaml:"settle_delay"`
}

// CrawlConfig controls pagination discovery and pacing
type CrawlConfig struct {
	MaxPages   int      `yaml:"max_pages"`
	VisitDelay Duration `yaml:"visit_delay"`
}

// RetryConfig controls the per-URL retry budget
type RetryConfig struct {
	MaxAttempts int      `yaml:"max_attempts"`
	BaseDelay   Duration `yaml:"base_delay"`
}

// ExtractionConfig exposes the vocabulary sets the extractors match against.
// The defaults reproduce the vocabulary tuned for vestbee.com fund pages.
type ExtractionConfig struct {
	GeographyAllowlist []string `yaml:"geography_allowlist,omitempty"`
	PortfolioKeywords  []string `yaml:"portfolio_keywords,omitempty"`
	PortfolioNoise     []string `yaml:"portfolio_noise,omitempty"`
}

// OutputConfig names the export destinations
type OutputConfig struct {
	CSVPath   string          `yaml:"csv_path"`
	ExcelPath string          `yaml:"excel_path"`
	Database  *DatabaseConfig `yaml:"database,omitempty"`
	MongoDB   *MongoConfig    `yaml:"mongodb,omitempty"`
}

// DatabaseConfig configures the optional SQL archive sink
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite3, mysql or postgres
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`
}

// MongoConfig configures the optional MongoDB archive sink
type MongoConfig struct {
	URI        string   `yaml:"uri"`
	Database   string   `yaml:"database"`
	Collection string   `yaml:"collection"`
	Timeout    Duration `yaml:"timeout,omitempty"`
}

// MetricsConfig configures the optional metrics/health HTTP server
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address,omitempty"`
}

// DefaultGeographyAllowlist is the region vocabulary accepted by the
// geography extractor: continents, countries and economic-region codes.
var DefaultGeographyAllowlist = []string{
	"Global", "Europe", "Asia", "Africa", "America", "Americas",
	"North America", "South America", "Latin America",
	"USA", "US", "United States", "UK", "United Kingdom",
	"Germany", "France", "Spain", "Italy", "Poland",
	"Ireland", "Netherlands", "Belgium", "Switzerland",
	"Austria", "Sweden", "Norway", "Denmark", "Finland",
	"Portugal", "Greece", "Czech Republic", "Hungary",
	"Romania", "Bulgaria", "Croatia", "Serbia", "Slovenia",
	"Estonia", "Latvia", "Lithuania", "Luxembourg",
	"Canada", "Mexico", "Brazil", "Argentina", "Chile",
	"China", "Japan", "India", "Singapore", "Australia",
	"Israel", "Turkey", "Russia", "Ukraine",
	"EMEA", "APAC", "LATAM", "NAMER", "MENA",
	"CEE", "DACH", "Nordics", "Benelux",
	"Central Europe", "Eastern Europe", "Western Europe",
	"Northern Europe", "Southern Europe",
}

// DefaultPortfolioKeywords gate portfolio segments: a candidate company name
// must contain at least one of these.
var DefaultPortfolioKeywords = []string{
	"Ventures", "Capital", "Partners", "Fund", "Labs", "Accelerator",
}

// DefaultPortfolioNoise rejects boilerplate fragments that leak into
// portfolio text blocks.
var DefaultPortfolioNoise = []string{
	"cookies", "material presented", "website", "aum", "investing in startup",
}

func applyDefaults(cfg *Config) {
	if cfg.Name == "" {
		cfg.Name = "lp-fund-list"
	}
	if cfg.ListingURL == "" {
		cfg.ListingURL = "https://www.vestbee.com/lp-list"
	}
	if cfg.Browser.NavigationTimeout == 0 {
		cfg.Browser.NavigationTimeout = Duration(45 * time.Second)
	}
	if cfg.Browser.SettleDelay == 0 {
		cfg.Browser.SettleDelay = Duration(3 * time.Second)
	}
	if cfg.Crawl.MaxPages == 0 {
		cfg.Crawl.MaxPages = 100
	}
	if cfg.Crawl.VisitDelay == 0 {
		cfg.Crawl.VisitDelay = Duration(2 * time.Second)
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.BaseDelay == 0 {
		cfg.Retry.BaseDelay = Duration(2 * time.Second)
	}
	if len(cfg.Extraction.GeographyAllowlist) == 0 {
		cfg.Extraction.GeographyAllowlist = DefaultGeographyAllowlist
	}
	if len(cfg.Extraction.PortfolioKeywords) == 0 {
		cfg.Extraction.PortfolioKeywords = DefaultPortfolioKeywords
	}
	if len(cfg.Extraction.PortfolioNoise) == 0 {
		cfg.Extraction.PortfolioNoise = DefaultPortfolioNoise
	}
	if cfg.Output.CSVPath == "" {
		cfg.Output.CSVPath = "data/vestbee_funds.csv"
	}
	if cfg.Output.ExcelPath == "" {
		cfg.Output.ExcelPath = "data/vestbee_funds.xlsx"
	}
	if cfg.Output.MongoDB != nil && cfg.Output.MongoDB.Timeout == 0 {
		cfg.Output.MongoDB.Timeout = Duration(10 * time.Second)
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	if c.ListingURL == "" {
		return fmt.Errorf("listing_url is required")
	}
	if c.Crawl.MaxPages < 1 {
		return fmt.Errorf("crawl.max_pages must be at least 1")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Retry.BaseDelay < 0 {
		return fmt.Errorf("retry.base_delay cannot be negative")
	}
	if c.Output.CSVPath == "" || c.Output.ExcelPath == "" {
		return fmt.Errorf("output.csv_path and output.excel_path are required")
	}
	if db := c.Output.Database; db != nil {
		switch db.Driver {
		case "sqlite3", "mysql", "postgres":
		default:
			return fmt.Errorf("unsupported database driver: %q", db.Driver)
		}
		if db.DSN == "" {
			return fmt.Errorf("output.database.dsn is required")
		}
		if db.Table == "" {
			return fmt.Errorf("output.database.table is required")
		}
	}
	if m := c.Output.MongoDB; m != nil {
		if m.URI == "" || m.Database == "" || m.Collection == "" {
			return fmt.Errorf("output.mongodb requires uri, database and collection")
		}
	}
	return nil
}
