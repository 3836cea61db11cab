package loader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/motivo-org/motivo/audit"
	"github.com/motivo-org/motivo/engine"
	"github.com/motivo-org/motivo/schema"
)

// ============================================================================
// LOADER — Multi-source load with per-source schema resolution
// ============================================================================
// Sources load concurrently but merge strictly in input order, so the merged
// record stream is independent of goroutine scheduling. Failure policy
// depends on cardinality: a single source failing fails the run (there is
// nothing left to analyze), while one of several failing is logged and
// skipped. Only when every source fails does a multi-source run error out.
// ============================================================================

// DefaultConcurrency bounds simultaneous file reads when Options doesn't.
const DefaultConcurrency = 4

// Options configures one Load call.
type Options struct {
	// Range filters records by their resolved date, inclusive on both
	// bounds. Zero means no filtering.
	Range engine.DateRange

	// Concurrency bounds simultaneous source reads; <= 0 means
	// DefaultConcurrency.
	Concurrency int

	// Log receives the processing trail. Nil is fine.
	Log *audit.Log
}

// Stats summarizes what one Load call did with its inputs.
type Stats struct {
	SourcesProcessed int
	SourcesSkipped   int
	RecordsLoaded    int
	RecordsDropped   int // rows with a null/empty primary category
	RecordsFiltered  int // rows excluded by the date range
}

type sourceResult struct {
	records  []engine.Record
	dropped  int
	filtered int
	err      error
}

// Load reads every source, resolves each one's schema independently, and
// merges the surviving records in input order.
func Load(ctx context.Context, paths []string, opts Options) ([]engine.Record, Stats, error) {
	var stats Stats
	if len(paths) == 0 {
		return nil, stats, ErrNoSources
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]sourceResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = loadOne(path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	// Single-source runs fail hard: skipping the only input would silently
	// produce an empty analysis.
	if len(paths) == 1 && results[0].err != nil {
		return nil, stats, results[0].err
	}

	var records []engine.Record
	for i, r := range results {
		if r.err != nil {
			stats.SourcesSkipped++
			opts.Log.SourceSkipped(paths[i], r.err.Error())
			continue
		}
		stats.SourcesProcessed++
		stats.RecordsDropped += r.dropped
		stats.RecordsFiltered += r.filtered
		records = append(records, r.records...)
		opts.Log.SourceProcessed(paths[i], len(r.records))
	}

	if stats.SourcesProcessed == 0 {
		return nil, stats, ErrAllSourcesRejected
	}

	stats.RecordsLoaded = len(records)
	return records, stats, nil
}

func loadOne(path string, opts Options) sourceResult {
	ds, err := ReadFile(path)
	if err != nil {
		return sourceResult{err: &SourceReadError{Source: path, Err: err}}
	}

	rm, err := schema.Resolve(ds.Name, ds.Headers, ds.DateTyped)
	if err != nil {
		return sourceResult{err: &SourceReadError{Source: path, Err: err}}
	}

	filtering := !opts.Range.IsZero()
	if filtering && !rm.Resolved(schema.RoleDate) {
		// No date column: the range cannot apply to this source. Keeping
		// everything with a warning beats silently losing the whole file.
		opts.Log.Warn(ds.Name, "date filter requested but no date column resolved; keeping all rows")
		filtering = false
	}

	var res sourceResult
	primary, _ := rm.Column(schema.RolePrimaryCategory)
	agentCol, hasAgent := rm.Column(schema.RoleAgent)
	dateCol, hasDate := rm.Column(schema.RoleDate)

	for _, row := range ds.Rows {
		rec := engine.Record{Primary: ds.Cell(row, primary.Index)}
		if rec.Primary == "" {
			res.dropped++
			continue
		}

		for _, c := range rm.SpecificCategories() {
			if v := ds.Cell(row, c.Index); v != "" {
				rec.Specifics = append(rec.Specifics, v)
			}
		}
		for _, c := range rm.Subtypes() {
			if v := ds.Cell(row, c.Index); v != "" {
				rec.Subtypes = append(rec.Subtypes, v)
			}
		}
		if hasAgent {
			rec.Agent = ds.Cell(row, agentCol.Index)
		}
		if hasDate {
			rec.Date, _ = ParseCellDate(ds.Cell(row, dateCol.Index))
		}

		if filtering {
			// A row whose date cell did not parse cannot be proven inside
			// the window, so it is excluded along with out-of-range rows.
			if rec.Date.IsZero() || !opts.Range.Contains(rec.Date) {
				res.filtered++
				continue
			}
		}

		res.records = append(res.records, rec)
	}

	if len(ds.Rows) > 0 && len(res.records) == 0 && res.dropped == len(ds.Rows) {
		opts.Log.Warn(ds.Name, fmt.Sprintf("all %d rows dropped for empty primary category", res.dropped))
	}
	return res
}
