package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/motivo-org/motivo/audit"
	"github.com/motivo-org/motivo/config"
	"github.com/motivo-org/motivo/engine"
	"github.com/motivo-org/motivo/loader"
	"github.com/motivo-org/motivo/report"
)

// ============================================================================
// MOTIVO CLI — Category analysis for call-record exports
// ============================================================================

const version = "1.0.0"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "Path to YAML config (default: config.yaml when present)")
	files := flag.String("files", "", "Comma-separated list of input files (overrides --dir/--pattern)")
	dir := flag.String("dir", "", "Directory to scan for input files")
	pattern := flag.String("pattern", "", "Glob pattern for --dir (e.g. '*AGENTES*.xlsx')")
	startDate := flag.String("start-date", "", "Keep only records on or after this date (YYYY-MM-DD)")
	endDate := flag.String("end-date", "", "Keep only records on or before this date (YYYY-MM-DD)")
	output := flag.String("output", "", "Path for the Excel report")
	textOut := flag.String("text", "", "Also write the plain-text report to this path")
	printText := flag.Bool("print", false, "Print the plain-text report to stdout")
	concurrency := flag.Int("concurrency", 0, "Max concurrent file reads (0 = default)")
	verbose := flag.Bool("verbose", false, "Debug-level logging")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Motivo — Category analysis for call-record exports

Usage:
  motivo --dir exportaciones --pattern "*.xlsx" --output reporte.xlsx
  motivo --files junio.xlsx,julio.xlsx,agosto.csv --output verano.xlsx
  motivo --dir results --start-date 2025-03-01 --end-date 2025-03-31 --output marzo.xlsx
  motivo --files llamadas.xlsx --print

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Config:
  Flags override MOTIVO_* environment variables, which override the YAML
  file (--config, or ./config.yaml when present).

Inputs:
  .xlsx, .xlsm, .xls and .csv files. Each file's column headers are resolved
  independently; files whose categories cannot be identified are skipped
  with a warning when other files remain.

Output:
  An Excel workbook with an executive dashboard sheet and a per-agent
  breakdown sheet, plus an optional plain-text report.
`)
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("motivo %s\n", version)
		return
	}

	// ── Config merge ──────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("Config: %v", err)
	}
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["files"] {
		cfg.Files = splitList(*files)
	}
	if set["dir"] {
		cfg.ResultsDir = *dir
	}
	if set["pattern"] {
		cfg.Pattern = *pattern
	}
	if set["start-date"] {
		cfg.StartDate = *startDate
	}
	if set["end-date"] {
		cfg.EndDate = *endDate
	}
	if set["output"] {
		cfg.Output = *output
	}
	if set["text"] {
		cfg.TextReport = *textOut
	}
	if set["concurrency"] {
		cfg.Concurrency = *concurrency
	}
	if set["verbose"] {
		cfg.Verbose = *verbose
	}

	logger := newLogger(cfg.Verbose)
	defer logger.Sync()
	log := audit.New(logger)

	// ── Date window — validated before any file is touched ────────────────
	var window engine.DateRange
	if cfg.StartDate != "" {
		if window.Start, err = loader.ParseDateBound("start", cfg.StartDate); err != nil {
			fatalf("%v", err)
		}
	}
	if cfg.EndDate != "" {
		end, err := loader.ParseDateBound("end", cfg.EndDate)
		if err != nil {
			fatalf("%v", err)
		}
		window.End = loader.EndOfDay(end)
	}

	// ── Input discovery ───────────────────────────────────────────────────
	paths := cfg.Files
	if len(paths) == 0 {
		paths, err = loader.FindFiles(cfg.ResultsDir, cfg.Pattern)
		if err != nil {
			fatalf("Scanning %s: %v", cfg.ResultsDir, err)
		}
		if len(paths) == 0 {
			fatalf("No files matching %q in %s", cfg.Pattern, cfg.ResultsDir)
		}
	}
	logger.Info("inputs discovered", zap.Int("files", len(paths)))

	// ── Load and aggregate ────────────────────────────────────────────────
	records, stats, err := loader.Load(context.Background(), paths, loader.Options{
		Range:       window,
		Concurrency: cfg.Concurrency,
		Log:         log,
	})
	if err != nil {
		fatalf("Loading: %v", err)
	}

	result := engine.Aggregate(records)
	result.Agents = engine.BreakdownByAgent(records)
	result.SourcesProcessed = stats.SourcesProcessed
	result.DroppedRecords = stats.RecordsDropped
	result.Period = window

	logger.Info("analysis complete",
		zap.Int("records", result.TotalRecords),
		zap.Int("categories", result.UniqueCategories()),
		zap.Int("routes", len(result.Routes)),
		zap.Int("dropped", stats.RecordsDropped),
		zap.Int("filtered", stats.RecordsFiltered),
		zap.Int("sources_skipped", stats.SourcesSkipped),
	)

	// ── Output ────────────────────────────────────────────────────────────
	// No output path means "show the results", not "pick a file name".
	if cfg.Output != "" {
		if err := report.WriteFile(cfg.Output, result); err != nil {
			fatalf("Writing %s: %v", cfg.Output, err)
		}
		fmt.Printf("Reporte generado: %s\n", cfg.Output)
	}
	if cfg.TextReport != "" {
		if err := os.WriteFile(cfg.TextReport, []byte(report.RenderText(result)), 0o644); err != nil {
			fatalf("Writing %s: %v", cfg.TextReport, err)
		}
		fmt.Printf("Reporte de texto: %s\n", cfg.TextReport)
	}
	if *printText || cfg.Output == "" && cfg.TextReport == "" {
		fmt.Println(report.RenderText(result))
	}
}

func newLogger(verbose bool) *zap.Logger {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		fatalf("Logger: %v", err)
	}
	return logger
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
