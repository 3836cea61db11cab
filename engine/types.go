package engine

// ============================================================================
// ENGINE TYPES — Call-record aggregation model
// ============================================================================
// One Record = one call. Records enter the engine already reduced to their
// resolved fields; a record with an empty primary category never gets here.
// Multi-valued cells ("Facturación, Contratación") stay one atomic value —
// that invariant is what keeps sum(frequencies) == total records.
//
// Nothing in this package mutates its input: every aggregation builds a
// fresh result from an immutable record slice.
// ============================================================================

import (
	"fmt"
	"time"
)

// RouteSeparator joins the non-empty classification levels of one call.
const RouteSeparator = " | "

// Unassigned is the sentinel agent value meaning no agent was recorded.
// Compared case-insensitively after trimming.
const Unassigned = "Sin asignar"

// Record is one call reduced to its resolved fields.
type Record struct {
	Primary   string    // required, never empty
	Specifics []string  // non-empty specific-category values, sibling order
	Subtypes  []string  // non-empty subtype values, sibling order
	Agent     string    // empty when the source had no agent column
	Date      time.Time // zero when the source had no date column
}

// Specific returns the first specific-category level, or "".
func (r Record) Specific() string {
	if len(r.Specifics) > 0 {
		return r.Specifics[0]
	}
	return ""
}

// Subtype returns the first subtype level, or "".
func (r Record) Subtype() string {
	if len(r.Subtypes) > 0 {
		return r.Subtypes[0]
	}
	return ""
}

// Route composes the motive route for this call: primary plus the first
// specific and subtype levels, absent levels omitted. A call with only a
// primary category has no route ("").
func (r Record) Route() string {
	parts := []string{r.Primary}
	if s := r.Specific(); s != "" {
		parts = append(parts, s)
	}
	if s := r.Subtype(); s != "" {
		parts = append(parts, s)
	}
	if len(parts) == 1 {
		return ""
	}
	return join(parts)
}

func join(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += RouteSeparator + p
	}
	return out
}

// ============================================================================
// COUNTS
// ============================================================================

// CategoryCount is one primary category's share of all analyzed calls.
type CategoryCount struct {
	Category   string
	Frequency  int
	Percentage float64 // of total analyzed records
	Rank       int     // 1-based, frequency desc, label asc on ties
}

// RouteCount is one distinct motive route's share of all analyzed calls.
type RouteCount struct {
	Primary    string
	Specific   string // "" when the level is absent
	Subtype    string // "" when the level is absent
	Route      string
	Frequency  int
	Percentage float64 // of total analyzed records
}

// SubcategoryKind distinguishes which sibling column family a value came from.
type SubcategoryKind string

const (
	KindSpecificCategory SubcategoryKind = "categoria_especifica"
	KindSubtype          SubcategoryKind = "subtipo_categoria"
)

// Display returns the human-readable kind label used in reports.
func (k SubcategoryKind) Display() string {
	switch k {
	case KindSpecificCategory:
		return "Categoría Específica"
	case KindSubtype:
		return "Subtipo Categoría"
	}
	return string(k)
}

// Priority is the coarse relevance tier of a subcategory.
type Priority string

const (
	PriorityHigh   Priority = "Alta"
	PriorityMedium Priority = "Media"
	PriorityLow    Priority = "Baja"
)

// Fixed tier thresholds (share of total records, percent). Fixed by design:
// inferring cut points from the dataset at hand would make tier assignment
// non-reproducible across inputs of the same shape.
const (
	priorityHighShare   = 5.0
	priorityMediumShare = 2.0
)

// PriorityFor classifies a share of total records into a tier.
func PriorityFor(percentage float64) Priority {
	switch {
	case percentage >= priorityHighShare:
		return PriorityHigh
	case percentage >= priorityMediumShare:
		return PriorityMedium
	}
	return PriorityLow
}

// SubcategoryCount is one distinct (kind, value) pair across all sibling
// specific-category and subtype columns.
type SubcategoryCount struct {
	Kind       SubcategoryKind
	Value      string
	Frequency  int
	Percentage float64 // of total analyzed records
	Priority   Priority
}

// AgentCategoryCount is one (agent, route) cell of the per-agent breakdown.
// Percentage is relative to the agent's own subtotal, so each agent's
// profile sums to 100% independently.
type AgentCategoryCount struct {
	Agent      string
	Primary    string
	Specific   string
	Subtype    string
	Route      string
	Frequency  int
	Percentage float64 // of this agent's total
}

// VolumeSegment groups categories by volume band (alto/medio/bajo).
type VolumeSegment struct {
	Label      string
	Categories int
	Calls      int
	Share      float64 // combined percent of total records
}

// ============================================================================
// DATE RANGE
// ============================================================================

// DateRange is an inclusive [Start, End] filter window. A zero bound means
// unbounded on that side.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether no bound is set.
func (d DateRange) IsZero() bool { return d.Start.IsZero() && d.End.IsZero() }

// Contains reports whether t falls inside the inclusive window.
func (d DateRange) Contains(t time.Time) bool {
	if !d.Start.IsZero() && t.Before(d.Start) {
		return false
	}
	if !d.End.IsZero() && t.After(d.End) {
		return false
	}
	return true
}

// String renders the window for report headers; "Sin límite" when unbounded.
func (d DateRange) String() string {
	if d.IsZero() {
		return "Sin límite"
	}
	format := func(t time.Time, fallback string) string {
		if t.IsZero() {
			return fallback
		}
		return t.Format("2006-01-02")
	}
	return fmt.Sprintf("%s a %s", format(d.Start, "inicio"), format(d.End, "fin"))
}

// ============================================================================
// RESULT — the aggregate root
// ============================================================================

// AnalysisResult is the immutable output of one analysis run.
type AnalysisResult struct {
	TotalRecords     int
	SourcesProcessed int
	DroppedRecords   int // rows skipped for a null/empty primary category

	Categories    []CategoryCount
	Routes        []RouteCount
	Subcategories []SubcategoryCount
	Agents        []AgentCategoryCount
	Segments      []VolumeSegment

	Period      DateRange
	GeneratedAt time.Time
}

// UniqueCategories returns the number of distinct primary categories.
func (r *AnalysisResult) UniqueCategories() int { return len(r.Categories) }

// TopConcentration returns the combined share of the top n categories.
func (r *AnalysisResult) TopConcentration(n int) float64 {
	if n > len(r.Categories) {
		n = len(r.Categories)
	}
	var share float64
	for _, c := range r.Categories[:n] {
		share += c.Percentage
	}
	return share
}

// AverageCallsPerCategory returns total records over distinct categories.
func (r *AnalysisResult) AverageCallsPerCategory() float64 {
	if len(r.Categories) == 0 {
		return 0
	}
	return float64(r.TotalRecords) / float64(len(r.Categories))
}
