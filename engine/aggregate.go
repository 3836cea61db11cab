package engine

import (
	"sort"
	"time"
)

// ============================================================================
// AGGREGATION — Category counts, motive routes, subcategory tiers
// ============================================================================
// Pure function of the record slice: identical input always yields identical
// output. The only wall-clock dependence is the GeneratedAt metadata stamp.
//
// Ranking ties break by ascending lexical label order — stable and
// language-independent for the string data in scope.
// ============================================================================

// Aggregate computes the statistical summary of a record set. Agent-scoped
// breakdowns are a separate pass (BreakdownByAgent); callers attach them to
// the result themselves.
func Aggregate(records []Record) *AnalysisResult {
	result := &AnalysisResult{
		TotalRecords: len(records),
		GeneratedAt:  time.Now(),
	}
	if len(records) == 0 {
		return result
	}

	result.Categories = countCategories(records)
	result.Routes = countRoutes(records, len(records))
	result.Subcategories = countSubcategories(records, len(records))
	result.Segments = segmentByVolume(result.Categories)

	return result
}

// ============================================================================
// CATEGORY COUNTS
// ============================================================================

func countCategories(records []Record) []CategoryCount {
	total := len(records)
	freq := make(map[string]int)
	for _, r := range records {
		freq[r.Primary]++
	}

	counts := make([]CategoryCount, 0, len(freq))
	for category, n := range freq {
		counts = append(counts, CategoryCount{
			Category:   category,
			Frequency:  n,
			Percentage: percentage(n, total),
		})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Frequency != counts[j].Frequency {
			return counts[i].Frequency > counts[j].Frequency
		}
		return counts[i].Category < counts[j].Category
	})
	for i := range counts {
		counts[i].Rank = i + 1
	}
	return counts
}

// ============================================================================
// ROUTE COUNTS
// ============================================================================

// countRoutes groups identical route strings. Calls carrying only a primary
// category compose no route and contribute nothing here; they still count
// in the category totals, which is why route frequency never exceeds its
// primary category's frequency.
func countRoutes(records []Record, total int) []RouteCount {
	byRoute := make(map[string]*RouteCount)
	for _, r := range records {
		route := r.Route()
		if route == "" {
			continue
		}
		rc, ok := byRoute[route]
		if !ok {
			rc = &RouteCount{
				Primary:  r.Primary,
				Specific: r.Specific(),
				Subtype:  r.Subtype(),
				Route:    route,
			}
			byRoute[route] = rc
		}
		rc.Frequency++
	}

	counts := make([]RouteCount, 0, len(byRoute))
	for _, rc := range byRoute {
		rc.Percentage = percentage(rc.Frequency, total)
		counts = append(counts, *rc)
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Frequency != counts[j].Frequency {
			return counts[i].Frequency > counts[j].Frequency
		}
		return counts[i].Route < counts[j].Route
	})
	return counts
}

// ============================================================================
// SUBCATEGORY ANALYSIS
// ============================================================================

// countSubcategories counts every distinct (kind, value) pair across all
// sibling specific-category and subtype columns. A record with two resolved
// specific columns contributes both values — siblings aggregate side by
// side, never merged into one.
func countSubcategories(records []Record, total int) []SubcategoryCount {
	type key struct {
		kind  SubcategoryKind
		value string
	}
	freq := make(map[key]int)
	for _, r := range records {
		for _, v := range r.Specifics {
			freq[key{KindSpecificCategory, v}]++
		}
		for _, v := range r.Subtypes {
			freq[key{KindSubtype, v}]++
		}
	}

	counts := make([]SubcategoryCount, 0, len(freq))
	for k, n := range freq {
		pct := percentage(n, total)
		counts = append(counts, SubcategoryCount{
			Kind:       k.kind,
			Value:      k.value,
			Frequency:  n,
			Percentage: pct,
			Priority:   PriorityFor(pct),
		})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Kind != counts[j].Kind {
			return counts[i].Kind < counts[j].Kind
		}
		if counts[i].Frequency != counts[j].Frequency {
			return counts[i].Frequency > counts[j].Frequency
		}
		return counts[i].Value < counts[j].Value
	})
	return counts
}

// ============================================================================
// VOLUME SEGMENTATION
// ============================================================================

// Volume band cut points (share of total records, percent).
const (
	highVolumeShare   = 10.0
	mediumVolumeShare = 1.0
)

func segmentByVolume(categories []CategoryCount) []VolumeSegment {
	segments := []VolumeSegment{
		{Label: "Alto Volumen (>10%)"},
		{Label: "Medio Volumen (1-10%)"},
		{Label: "Bajo Volumen (<1%)"},
	}
	for _, c := range categories {
		var s *VolumeSegment
		switch {
		case c.Percentage >= highVolumeShare:
			s = &segments[0]
		case c.Percentage >= mediumVolumeShare:
			s = &segments[1]
		default:
			s = &segments[2]
		}
		s.Categories++
		s.Calls += c.Frequency
		s.Share += c.Percentage
	}
	return segments
}

// ============================================================================
// HELPERS
// ============================================================================

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// ImpactLabel classifies a category's operational impact by its share of
// total calls. Used in the KPI table.
func ImpactLabel(percentage float64) string {
	switch {
	case percentage >= 30:
		return "Crítico - Alto volumen"
	case percentage >= 15:
		return "Importante - Optimización"
	case percentage >= 5:
		return "Moderado - Monitoreo"
	}
	return "Bajo - Especializado"
}
