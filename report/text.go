package report

import (
	"fmt"
	"strings"

	"github.com/motivo-org/motivo/engine"
)

// ============================================================================
// TEXT REPORT — Terminal-friendly rendition of the analysis
// ============================================================================

const (
	bannerWidth  = 100
	dividerWidth = 60
	// Coverage is reported over the top coverageTop categories, matching the
	// workbook's ranking depth.
	coverageTop = 50
	// Long subcategory values are truncated to keep the columns aligned.
	maxValueWidth = 45
	topDetailed   = 20
)

// RenderText renders the full analysis as a plain-text report.
func RenderText(result *engine.AnalysisResult) string {
	var b strings.Builder
	banner := strings.Repeat("=", bannerWidth)

	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line(banner)
	line("ANÁLISIS ESPECIALIZADO DE CATEGORÍAS Y SUBTIPOS")
	line(banner)
	line("Período analizado: %s", result.Period.String())
	line("Archivos procesados: %d", result.SourcesProcessed)
	line("Filas totales analizadas: %d", result.TotalRecords)
	line("Categorías generales únicas encontradas: %d", result.UniqueCategories())

	if len(result.Categories) == 0 {
		line("No se encontraron categorías generales para mostrar.")
		line(banner)
		return b.String()
	}

	line("Cobertura de top %d categorías generales: %.1f%%", coverageTop, result.TopConcentration(coverageTop))
	line("")
	line("TODAS LAS CATEGORÍAS GENERALES ENCONTRADAS:")
	line(strings.Repeat("-", bannerWidth))
	for _, c := range result.Categories {
		line("%2d. %-50s %4d (%4.1f%%)", c.Rank, c.Category, c.Frequency, c.Percentage)
	}
	line(strings.Repeat("-", bannerWidth))

	if len(result.Segments) > 0 {
		line("")
		line("DISTRIBUCIÓN POR VOLUMEN:")
		for _, s := range result.Segments {
			line("  %-22s %3d categorías, %5d llamadas (%5.1f%%)", s.Label, s.Categories, s.Calls, s.Share)
		}
	}

	writeSubcategoryDetail(&b, result)
	writeAgentSummary(&b, result)

	line(banner)
	return b.String()
}

func writeSubcategoryDetail(b *strings.Builder, result *engine.AnalysisResult) {
	if len(result.Subcategories) == 0 {
		return
	}

	banner := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(b, "\n%s\n", banner)
	fmt.Fprintln(b, "ANÁLISIS DETALLADO DE CATEGORÍAS Y SUBTIPOS")
	fmt.Fprintln(b, banner)

	for _, kind := range []engine.SubcategoryKind{engine.KindSpecificCategory, engine.KindSubtype} {
		var counts []engine.SubcategoryCount
		for _, sc := range result.Subcategories {
			if sc.Kind == kind {
				counts = append(counts, sc)
			}
		}
		if len(counts) == 0 {
			continue
		}

		fmt.Fprintf(b, "\nANÁLISIS DE '%s':\n", strings.ToUpper(kind.Display()))
		fmt.Fprintf(b, "Valores únicos encontrados: %d\n", len(counts))
		fmt.Fprintln(b, strings.Repeat("-", dividerWidth))

		if len(counts) > topDetailed {
			counts = counts[:topDetailed]
		}
		for i, sc := range counts {
			fmt.Fprintf(b, "%3d. %-45s %4d (%5.1f%%)  [%s]\n",
				i+1, truncate(sc.Value, maxValueWidth), sc.Frequency, sc.Percentage, sc.Priority)
		}
		fmt.Fprintln(b, strings.Repeat("-", dividerWidth))
	}
}

func writeAgentSummary(b *strings.Builder, result *engine.AnalysisResult) {
	if len(result.Agents) == 0 {
		return
	}

	fmt.Fprintf(b, "\n%s\n", strings.Repeat("=", bannerWidth))
	fmt.Fprintln(b, "DESGLOSE POR AGENTE INSTALADOR")
	fmt.Fprintln(b, strings.Repeat("=", bannerWidth))

	for _, total := range engine.AgentTotals(result.Agents) {
		fmt.Fprintf(b, "\n%s — %d llamadas (%.1f%% del total)\n", total.Category, total.Frequency, total.Percentage)
		for _, a := range result.Agents {
			if a.Agent != total.Category {
				continue
			}
			fmt.Fprintf(b, "  %-60s %4d (%5.1f%%)\n", truncate(a.Route, 60), a.Frequency, a.Percentage)
		}
	}
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
