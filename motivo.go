// Package motivo analyzes call-center category exports.
//
// Usage:
//
//	import (
//	    "github.com/motivo-org/motivo/engine"
//	    "github.com/motivo-org/motivo/loader"
//	)
//
//	records, stats, err := loader.Load(ctx, paths, loader.Options{})
//	result := engine.Aggregate(records)
//	result.Agents = engine.BreakdownByAgent(records)
//
// The loader resolves each file's column schema independently (exports never
// agree on header names), the engine computes category, route, subcategory
// and per-agent distributions, and the report package renders the result as
// an executive Excel workbook or a plain-text report.
//
// All computation is local — no file ever leaves the machine.
package motivo
