package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/motivo-org/motivo/engine"
)

// ============================================================================
// WORKBOOK ASSEMBLY — Two-sheet executive report
// ============================================================================
// Sheet 1 "Dashboard_Ejecutivo" stacks four titled sections vertically:
// executive summary, per-category KPIs, the full motive-route table, and the
// subcategory analysis. Sheet 2 "Agentes_Instaladores" is the flat per-agent
// breakdown. Counts and percentages are written as numbers, not preformatted
// strings, so the workbook stays sortable and chartable.
// ============================================================================

const (
	SheetDashboard = "Dashboard_Ejecutivo"
	SheetAgents    = "Agentes_Instaladores"
)

// Rows of the subcategory section, per kind.
const topSubcategories = 5

// Blank rows between a section's last data row and the next title.
const sectionGap = 2

// styles groups the style IDs registered once per workbook.
type styles struct {
	title   int
	header  int
	percent int
}

// Assemble builds the workbook for one analysis result. An empty result
// still yields a valid workbook with zeroed metrics and empty tables.
func Assemble(result *engine.AnalysisResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetDashboard); err != nil {
		return nil, err
	}

	st, err := registerStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeDashboard(f, st, result); err != nil {
		return nil, fmt.Errorf("writing %s: %w", SheetDashboard, err)
	}
	if err := writeAgents(f, st, result.Agents); err != nil {
		return nil, fmt.Errorf("writing %s: %w", SheetAgents, err)
	}
	return f, nil
}

// WriteFile assembles the workbook and saves it to path.
func WriteFile(path string, result *engine.AnalysisResult) error {
	f, err := Assemble(result)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func registerStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	if st.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	}); err != nil {
		return st, err
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		return st, err
	}
	pctFmt := `0.00"%"`
	if st.percent, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &pctFmt,
	}); err != nil {
		return st, err
	}
	return st, nil
}

// ============================================================================
// DASHBOARD SHEET
// ============================================================================

// section is one titled block of the dashboard. percentCols marks which
// 0-based columns carry percentage values.
type section struct {
	title       string
	headers     []string
	rows        [][]any
	percentCols []int
}

func writeDashboard(f *excelize.File, st styles, result *engine.AnalysisResult) error {
	sections := []section{
		summarySection(result),
		kpiSection(result),
		routesSection(result),
		subcategorySection(result),
	}

	row := 1
	for _, s := range sections {
		next, err := writeSection(f, st, SheetDashboard, row, s)
		if err != nil {
			return fmt.Errorf("section %q: %w", s.title, err)
		}
		row = next + sectionGap
	}
	return nil
}

func summarySection(result *engine.AnalysisResult) section {
	return section{
		title:   "RESUMEN EJECUTIVO",
		headers: []string{"Métrica", "Valor", "Insight"},
		rows: [][]any{
			{"Período Analizado", result.Period.String(), "Ventana temporal del análisis"},
			{"Volumen Total de Llamadas", result.TotalRecords, "Indicador clave de volumen de atención"},
			{"Número de Categorías Principales", result.UniqueCategories(), "Diversidad de motivos de contacto"},
			{"Concentración en Top 3 Categorías", result.TopConcentration(3), "Peso de los motivos dominantes"},
			{"Promedio de Llamadas por Categoría", result.AverageCallsPerCategory(), "Eficiencia operativa promedio"},
			{"Archivos Procesados", result.SourcesProcessed, "Cobertura de datos disponible"},
		},
	}
}

func kpiSection(result *engine.AnalysisResult) section {
	s := section{
		title:       "KPIs PRINCIPALES",
		headers:     []string{"Ranking", "Categoría Principal", "Volumen", "% del Total", "Impacto Operativo"},
		percentCols: []int{3},
	}
	for _, c := range result.Categories {
		s.rows = append(s.rows, []any{
			c.Rank, c.Category, c.Frequency, c.Percentage, engine.ImpactLabel(c.Percentage),
		})
	}
	return s
}

func routesSection(result *engine.AnalysisResult) section {
	s := section{
		title:       "RUTAS COMPLETAS DE MOTIVOS",
		headers:     []string{"Categoría General", "Categoría Específica", "Subtipo", "Ruta Completa", "Frecuencia", "% del Total"},
		percentCols: []int{5},
	}
	for _, r := range result.Routes {
		s.rows = append(s.rows, []any{
			r.Primary, r.Specific, r.Subtype, r.Route, r.Frequency, r.Percentage,
		})
	}
	return s
}

func subcategorySection(result *engine.AnalysisResult) section {
	s := section{
		title:       "ANÁLISIS DE SUBCATEGORÍAS",
		headers:     []string{"Tipo", "Subcategoría", "Frecuencia", "% Total", "Prioridad"},
		percentCols: []int{3},
	}
	perKind := make(map[engine.SubcategoryKind]int)
	for _, sc := range result.Subcategories {
		if perKind[sc.Kind] >= topSubcategories {
			continue
		}
		perKind[sc.Kind]++
		s.rows = append(s.rows, []any{
			sc.Kind.Display(), sc.Value, sc.Frequency, sc.Percentage, string(sc.Priority),
		})
	}
	return s
}

// writeSection writes one titled block starting at row (1-based) and returns
// the first row after its data.
func writeSection(f *excelize.File, st styles, sheet string, row int, s section) (int, error) {
	titleCell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return 0, err
	}
	if err := f.SetCellValue(sheet, titleCell, s.title); err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sheet, titleCell, titleCell, st.title); err != nil {
		return 0, err
	}

	headerRow := row + 2
	if err := setStyledRow(f, sheet, headerRow, toAnys(s.headers), st.header, nil, 0); err != nil {
		return 0, err
	}

	for i, values := range s.rows {
		if err := setStyledRow(f, sheet, headerRow+1+i, values, 0, s.percentCols, st.percent); err != nil {
			return 0, err
		}
	}
	return headerRow + 1 + len(s.rows), nil
}

// ============================================================================
// AGENTS SHEET
// ============================================================================

func writeAgents(f *excelize.File, st styles, agents []engine.AgentCategoryCount) error {
	if _, err := f.NewSheet(SheetAgents); err != nil {
		return err
	}

	headers := []string{"Agente Instalador", "Categoría General", "Categoría Específica", "Subtipo", "Ruta Completa", "Frecuencia", "% del Agente"}
	if err := setStyledRow(f, SheetAgents, 1, toAnys(headers), st.header, nil, 0); err != nil {
		return err
	}

	for i, a := range agents {
		values := []any{a.Agent, a.Primary, a.Specific, a.Subtype, a.Route, a.Frequency, a.Percentage}
		if err := setStyledRow(f, SheetAgents, i+2, values, 0, []int{6}, st.percent); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// CELL HELPERS
// ============================================================================

func setStyledRow(f *excelize.File, sheet string, row int, values []any, rowStyle int, percentCols []int, percentStyle int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return err
	}

	if rowStyle != 0 {
		end, err := excelize.CoordinatesToCellName(len(values), row)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, start, end, rowStyle); err != nil {
			return err
		}
	}

	for _, col := range percentCols {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, percentStyle); err != nil {
			return err
		}
	}
	return nil
}

func toAnys(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
