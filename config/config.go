package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// CONFIG — YAML file plus environment overrides
// ============================================================================
// Precedence per field: MOTIVO_* environment variable, then the YAML file,
// then the built-in default. CLI flags sit above all three and are merged by
// the caller.
// ============================================================================

// DefaultPath is tried when no config path is given.
const DefaultPath = "config.yaml"

type Config struct {
	// ResultsDir is scanned with Pattern when Files is empty.
	ResultsDir string   `yaml:"results_dir"`
	Pattern    string   `yaml:"pattern"`
	Files      []string `yaml:"files"`

	// Date-range bounds in YYYY-MM-DD; empty means unbounded.
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`

	Output     string `yaml:"output"`      // workbook path
	TextReport string `yaml:"text_report"` // optional text report path

	Concurrency int  `yaml:"concurrency"` // 0 = loader default
	Verbose     bool `yaml:"verbose"`
}

// Load reads the YAML file at path, applies environment overrides, defaults,
// and validation. An empty path falls back to DefaultPath when that file
// exists; a missing default file is not an error.
func Load(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case explicit:
		return Config{}, err
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	envOverride(&c.ResultsDir, "MOTIVO_RESULTS_DIR")
	envOverride(&c.Pattern, "MOTIVO_PATTERN")
	envOverride(&c.StartDate, "MOTIVO_START_DATE")
	envOverride(&c.EndDate, "MOTIVO_END_DATE")
	envOverride(&c.Output, "MOTIVO_OUTPUT")
	envOverride(&c.TextReport, "MOTIVO_TEXT_REPORT")

	if v := os.Getenv("MOTIVO_FILES"); v != "" {
		c.Files = nil
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				c.Files = append(c.Files, f)
			}
		}
	}
	if v := os.Getenv("MOTIVO_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MOTIVO_CONCURRENCY %q: %w", v, err)
		}
		c.Concurrency = n
	}
	if v := os.Getenv("MOTIVO_VERBOSE"); v != "" {
		c.Verbose = strings.EqualFold(v, "true") || v == "1"
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.ResultsDir == "" {
		c.ResultsDir = "results"
	}
	if c.Pattern == "" {
		c.Pattern = "*.xlsx"
	}
	// Output has no default on purpose: an empty output path means "print
	// the results" rather than "write a workbook somewhere implicit".
}

// Validate checks field shapes; existence of files and directories is the
// loader's concern at run time.
func (c Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0, got %d", c.Concurrency)
	}
	for name, v := range map[string]string{"start_date": c.StartDate, "end_date": c.EndDate} {
		if v == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return fmt.Errorf("invalid %s %q: want YYYY-MM-DD", name, v)
		}
	}
	if c.StartDate != "" && c.EndDate != "" && c.StartDate > c.EndDate {
		return fmt.Errorf("start_date %s is after end_date %s", c.StartDate, c.EndDate)
	}
	return nil
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
