package schema

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ============================================================================
// RESOLVER — Ordered alias matching over normalized headers
// ============================================================================
// Per role an ordered alias list; the first alias that matches any header
// wins, and among multiple matching headers the leftmost column wins. Alias
// order is part of the contract: a file may carry several plausible headers
// and callers depend on a deterministic choice.
//
// Headers are compared after accent folding and non-alphanumeric stripping,
// so "Categoría General", "categoria_general" and "CategoriaGeneral" all
// resolve the same way.
// ============================================================================

// Primary-category aliases in priority order. categoria_general always wins
// when present; the looser names exist for older exports.
var primaryCategoryAliases = []string{
	"categoria_general",
	"categoria",
	"category",
	"tipo",
	"type",
	"motivo",
	"reason",
	"clasificacion",
	"resultado",
	"result",
	"estado",
	"status",
	"categoria_principal",
	"categoria_final",
	"categoria_detectada",
}

// Agent aliases plus the keyword fallback below.
var agentAliases = []string{
	"agente_instalador",
	"instalador",
	"tecnico_instalador",
	"tecnico",
	"instalador_agente",
}

var agentKeywords = []string{"instalador", "tecnico", "agente"}

// Date aliases are matched exactly, then by keyword; loose containment is
// too eager here (an "inicio" header must not match "fecha_inicio"). When
// nothing matches, the datetime-typed-column fallback applies.
var dateAliases = []string{
	"fecha",
	"date",
	"fecha_llamada",
	"fecha_hora",
	"timestamp",
	"fecha_inicio",
	"fecha_fin",
	"fecha_creacion",
	"created_date",
	"dia",
	"day",
	"fecha_registro",
	"fecha_contacto",
	"archivo_procesado",
}

var dateKeywords = []string{"fecha", "date", "dia", "time", "archivo"}

// Suffixed sibling roles are matched exactly; substring matching would let
// "categoria_especifica" swallow "categoria_especifica_2".
var specificCategoryAliases = map[int][]string{
	1: {"categoria_especifica_1", "categoria_especifica", "subcategoria"},
	2: {"categoria_especifica_2"},
	3: {"categoria_especifica_3"},
}

var subtypeAliases = map[int][]string{
	1: {"subtipo_categoria_1", "subtipo_categoria", "subtipo"},
	2: {"subtipo_categoria_2"},
	3: {"subtipo_categoria_3"},
}

// Resolve builds a RoleMap for one source from its ordered header list.
// dateTyped marks columns whose values are date/time typed; it may be nil
// when the caller has no type information. Resolution fails only when no
// primary-category column can be found, or when the datetime fallback for
// the date role is ambiguous.
func Resolve(source string, headers []string, dateTyped []bool) (*RoleMap, error) {
	normed := make([]string, len(headers))
	for i, h := range headers {
		normed[i] = normalizeHeader(h)
	}

	columns := make(map[Role]Column)

	// 1. Primary category — required.
	if col, ok := matchLoose(headers, normed, primaryCategoryAliases); ok {
		columns[RolePrimaryCategory] = col
	} else {
		return nil, &ResolutionError{
			Source: source,
			Role:   RolePrimaryCategory,
			Reason: "no header matches any primary-category alias",
		}
	}

	// 2. Sibling specific-category and subtype columns — exact matches only.
	for n := 1; n <= MaxSiblingColumns; n++ {
		if col, ok := matchExact(headers, normed, specificCategoryAliases[n]); ok {
			columns[RoleSpecificCategory(n)] = col
		}
		if col, ok := matchExact(headers, normed, subtypeAliases[n]); ok {
			columns[RoleSubtype(n)] = col
		}
	}

	// 3. Agent — alias list first, then keyword scan.
	if col, ok := matchLoose(headers, normed, agentAliases); ok {
		columns[RoleAgent] = col
	} else if col, ok := matchKeyword(headers, normed, agentKeywords); ok {
		columns[RoleAgent] = col
	}

	// 4. Date — exact alias, then keyword scan, then the typed-column
	// fallback. Exactly one datetime-typed column may stand in; more than
	// one is ambiguous and must fail rather than silently pick one.
	if col, ok := matchExact(headers, normed, dateAliases); ok {
		columns[RoleDate] = col
	} else if col, ok := matchKeyword(headers, normed, dateKeywords); ok {
		columns[RoleDate] = col
	} else if len(dateTyped) > 0 {
		var candidates []Column
		for i, typed := range dateTyped {
			if typed && i < len(headers) {
				candidates = append(candidates, Column{Header: headers[i], Index: i})
			}
		}
		switch len(candidates) {
		case 0:
			// date stays unresolved; records simply carry no date
		case 1:
			columns[RoleDate] = candidates[0]
		default:
			return nil, &ResolutionError{
				Source: source,
				Role:   RoleDate,
				Reason: fmt.Sprintf("%d datetime-typed columns and no date alias match", len(candidates)),
			}
		}
	}

	return &RoleMap{source: source, columns: columns}, nil
}

// ============================================================================
// MATCHING
// ============================================================================

// matchExact resolves the first alias whose normalized form equals a header.
func matchExact(headers, normed, aliases []string) (Column, bool) {
	for _, alias := range aliases {
		na := normalizeHeader(alias)
		for i, nh := range normed {
			if nh != "" && nh == na {
				return Column{Header: headers[i], Index: i}, true
			}
		}
	}
	return Column{}, false
}

// matchLoose resolves the first alias that matches any header exactly or by
// containment (either direction). Leftmost matching column wins per alias.
func matchLoose(headers, normed, aliases []string) (Column, bool) {
	for _, alias := range aliases {
		na := normalizeHeader(alias)
		for i, nh := range normed {
			if nh == "" {
				continue
			}
			if nh == na || strings.Contains(nh, na) || strings.Contains(na, nh) {
				return Column{Header: headers[i], Index: i}, true
			}
		}
	}
	return Column{}, false
}

// matchKeyword resolves the leftmost header containing any keyword.
func matchKeyword(headers, normed, keywords []string) (Column, bool) {
	for i, nh := range normed {
		for _, kw := range keywords {
			if nh != "" && strings.Contains(nh, kw) {
				return Column{Header: headers[i], Index: i}, true
			}
		}
	}
	return Column{}, false
}

// normalizeHeader folds accents and strips everything but letters and
// digits: "Categoría General" → "categoriageneral".
func normalizeHeader(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue // combining mark from the decomposition
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
