package schema

// ============================================================================
// SCHEMA — Column-role resolution for heterogeneous call-record exports
// ============================================================================
// Input files come from different export pipelines and never agree on header
// names ("Categoría General", "categoria_general", "CategoriaGeneral", ...).
// The resolver maps each recognized header to a semantic role once per
// source; the rest of the pipeline only ever sees the resolved RoleMap.
// ============================================================================

import "fmt"

// Role identifies the semantic meaning of a resolved column.
type Role string

const (
	RolePrimaryCategory Role = "primary_category"
	RoleAgent           Role = "agent"
	RoleDate            Role = "date"
)

// MaxSiblingColumns caps how many specific-category and subtype columns a
// source may carry concurrently (suffixes _1 through _3).
const MaxSiblingColumns = 3

// RoleSpecificCategory returns the role for the n-th specific-category
// column (1-based).
func RoleSpecificCategory(n int) Role {
	return Role(fmt.Sprintf("specific_category_%d", n))
}

// RoleSubtype returns the role for the n-th subtype column (1-based).
func RoleSubtype(n int) Role {
	return Role(fmt.Sprintf("subtype_%d", n))
}

// Column is a resolved source column: the original header plus its position.
type Column struct {
	Header string
	Index  int
}

// RoleMap is the resolved schema of one source. Built once by Resolve and
// immutable thereafter.
type RoleMap struct {
	source  string
	columns map[Role]Column
}

// Source returns the identifier of the dataset this map was resolved for.
func (m *RoleMap) Source() string { return m.source }

// Column returns the resolved column for a role, if any.
func (m *RoleMap) Column(role Role) (Column, bool) {
	c, ok := m.columns[role]
	return c, ok
}

// Resolved reports whether a role was resolved to a column.
func (m *RoleMap) Resolved(role Role) bool {
	_, ok := m.columns[role]
	return ok
}

// SpecificCategories returns the resolved specific-category columns in
// suffix order (_1, _2, _3). Unresolved slots are omitted.
func (m *RoleMap) SpecificCategories() []Column {
	return m.siblings(RoleSpecificCategory)
}

// Subtypes returns the resolved subtype columns in suffix order.
func (m *RoleMap) Subtypes() []Column {
	return m.siblings(RoleSubtype)
}

func (m *RoleMap) siblings(role func(int) Role) []Column {
	var cols []Column
	for n := 1; n <= MaxSiblingColumns; n++ {
		if c, ok := m.columns[role(n)]; ok {
			cols = append(cols, c)
		}
	}
	return cols
}

// ============================================================================
// ERRORS
// ============================================================================

// ResolutionError reports that a required role could not be resolved for a
// source, or that resolution was ambiguous. Callers decide whether to abort
// the whole run or skip the one source.
type ResolutionError struct {
	Source string
	Role   Role
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("schema resolution failed for %s: role %q: %s", e.Source, e.Role, e.Reason)
}
