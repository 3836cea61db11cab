package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/motivo-org/motivo/audit"
	"github.com/motivo-org/motivo/engine"
	"github.com/motivo-org/motivo/schema"
)

func writeCSVFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeExcelFixture(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

const basicCSV = `categoria_general,categoria_especifica_1,subtipo_categoria_1,agente_instalador,fecha
Información,Contratación,Estado Y Plazos,Juan Pérez,2025-03-15 10:00:00
Gestión,Fallo Del Sistema,Incidencia,María García,2025-03-16 11:30:00
Información,Formación,,Sin asignar,2025-03-17 09:15:00
`

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeCSVFixture(t, dir, "calls.csv", basicCSV)

	records, stats, err := Load(context.Background(), []string{path}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SourcesProcessed)
	assert.Equal(t, 3, stats.RecordsLoaded)
	assert.Equal(t, 0, stats.RecordsDropped)

	require.Len(t, records, 3)
	assert.Equal(t, "Información", records[0].Primary)
	assert.Equal(t, []string{"Contratación"}, records[0].Specifics)
	assert.Equal(t, []string{"Estado Y Plazos"}, records[0].Subtypes)
	assert.Equal(t, "Juan Pérez", records[0].Agent)
	assert.Equal(t, time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC), records[0].Date)

	// Sentinel agents load as-is; exclusion is the breakdown's concern.
	assert.Equal(t, "Sin asignar", records[2].Agent)
	assert.Equal(t, []string{"Formación"}, records[2].Specifics)
	assert.Empty(t, records[2].Subtypes, "empty sibling cells are not kept")
}

func TestLoadExcel(t *testing.T) {
	dir := t.TempDir()
	path := writeExcelFixture(t, dir, "calls.xlsx", [][]string{
		{"Categoría General", "Agente Instalador"},
		{"Información", "Juan Pérez"},
		{"Gestión", "María García"},
	})

	records, stats, err := Load(context.Background(), []string{path}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SourcesProcessed)
	require.Len(t, records, 2)
	assert.Equal(t, "Información", records[0].Primary)
	assert.Equal(t, "María García", records[1].Agent)
}

func TestLoadMergesInInputOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeCSVFixture(t, dir, "b-second-alphabetically.csv",
		"categoria\nAlfa\nBravo\n")
	second := writeCSVFixture(t, dir, "a-first-alphabetically.csv",
		"categoria\nCharlie\n")

	records, _, err := Load(context.Background(), []string{first, second}, Options{Concurrency: 2})
	require.NoError(t, err)

	got := make([]string, len(records))
	for i, r := range records {
		got[i] = r.Primary
	}
	assert.Equal(t, []string{"Alfa", "Bravo", "Charlie"}, got,
		"merge order must follow the input path order, not completion order")
}

func TestLoadSkipsBadSourceAmongGood(t *testing.T) {
	dir := t.TempDir()
	good := writeCSVFixture(t, dir, "good.csv", "categoria\nInformación\n")
	bad := writeCSVFixture(t, dir, "bad.csv", "columna_a,columna_b\nx,y\n")

	log := audit.New(nil)
	records, stats, err := Load(context.Background(), []string{good, bad}, Options{Log: log})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SourcesProcessed)
	assert.Equal(t, 1, stats.SourcesSkipped)
	assert.Len(t, records, 1)

	skipped := log.Skipped()
	require.Len(t, skipped, 1)
	assert.Equal(t, bad, skipped[0].Source)
	assert.Contains(t, skipped[0].Message, "primary")
}

func TestLoadSingleSourceFailsHard(t *testing.T) {
	tests := map[string]func(t *testing.T, dir string) string{
		"missing file": func(t *testing.T, dir string) string {
			return filepath.Join(dir, "nope.csv")
		},
		"unresolvable schema": func(t *testing.T, dir string) string {
			return writeCSVFixture(t, dir, "bad.csv", "columna_a,columna_b\nx,y\n")
		},
		"unsupported extension": func(t *testing.T, dir string) string {
			return writeCSVFixture(t, dir, "notes.txt", "whatever")
		},
	}
	for name, fixture := range tests {
		t.Run(name, func(t *testing.T) {
			path := fixture(t, t.TempDir())
			_, _, err := Load(context.Background(), []string{path}, Options{})
			require.Error(t, err)

			var srcErr *SourceReadError
			assert.ErrorAs(t, err, &srcErr)
		})
	}
}

func TestLoadAllSourcesRejected(t *testing.T) {
	dir := t.TempDir()
	a := writeCSVFixture(t, dir, "a.csv", "columna_a\nx\n")
	b := writeCSVFixture(t, dir, "b.csv", "columna_b\ny\n")

	_, stats, err := Load(context.Background(), []string{a, b}, Options{})
	assert.ErrorIs(t, err, ErrAllSourcesRejected)
	assert.Equal(t, 2, stats.SourcesSkipped)
}

func TestLoadNoSources(t *testing.T) {
	_, _, err := Load(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestLoadDropsEmptyPrimary(t *testing.T) {
	dir := t.TempDir()
	path := writeCSVFixture(t, dir, "calls.csv",
		"categoria_general,agente_instalador\nInformación,Ana\n,Luis\n   ,Eva\nGestión,Ana\n")

	records, stats, err := Load(context.Background(), []string{path}, Options{})
	require.NoError(t, err)

	assert.Len(t, records, 2)
	assert.Equal(t, 2, stats.RecordsDropped)
}

func TestLoadDateFilter(t *testing.T) {
	dir := t.TempDir()
	path := writeCSVFixture(t, dir, "calls.csv",
		`categoria_general,fecha
Antes,2025-03-09 23:59:59
EnInicio,2025-03-10 00:00:00
Dentro,2025-03-15 12:00:00
EnFin,2025-03-20 18:00:00
Después,2025-03-21 00:00:00
SinFecha,no es una fecha
`)

	start, err := ParseDateBound("start", "2025-03-10")
	require.NoError(t, err)
	end, err := ParseDateBound("end", "2025-03-20")
	require.NoError(t, err)

	records, stats, err := Load(context.Background(), []string{path}, Options{
		Range: engine.DateRange{Start: start, End: EndOfDay(end)},
	})
	require.NoError(t, err)

	got := make([]string, len(records))
	for i, r := range records {
		got[i] = r.Primary
	}
	assert.Equal(t, []string{"EnInicio", "Dentro", "EnFin"}, got,
		"bounds are inclusive; unparseable dates are excluded while filtering")
	assert.Equal(t, 3, stats.RecordsFiltered)
}

func TestLoadNarrowerRangeNeverKeepsMore(t *testing.T) {
	dir := t.TempDir()
	path := writeCSVFixture(t, dir, "calls.csv",
		`categoria_general,fecha
Uno,2025-03-05 10:00:00
Dos,2025-03-15 10:00:00
Tres,2025-03-25 10:00:00
`)

	load := func(window engine.DateRange) int {
		records, _, err := Load(context.Background(), []string{path}, Options{Range: window})
		require.NoError(t, err)
		return len(records)
	}

	wide := load(engine.DateRange{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   EndOfDay(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)),
	})
	narrow := load(engine.DateRange{
		Start: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		End:   EndOfDay(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)),
	})

	assert.Equal(t, 3, wide)
	assert.Equal(t, 1, narrow)
	assert.LessOrEqual(t, narrow, wide)
}

func TestLoadDateFilterWithoutDateColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeCSVFixture(t, dir, "calls.csv", "categoria\nInformación\nGestión\n")

	log := audit.New(nil)
	records, _, err := Load(context.Background(), []string{path}, Options{
		Range: engine.DateRange{Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		Log:   log,
	})
	require.NoError(t, err)

	assert.Len(t, records, 2, "no date column means the filter cannot apply; rows stay")

	var warned bool
	for _, e := range log.Events() {
		if e.Kind == audit.EventWarning {
			warned = true
		}
	}
	assert.True(t, warned, "the inapplicable filter must leave a warning in the trail")
}

func TestLoadSiblingColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeCSVFixture(t, dir, "calls.csv",
		"categoria_general,categoria_especifica_1,categoria_especifica_2,subtipo_categoria_1\nGestión,Avería,Facturación,Incidencia\n")

	records, _, err := Load(context.Background(), []string{path}, Options{})
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, []string{"Avería", "Facturación"}, records[0].Specifics)
	assert.Equal(t, []string{"Incidencia"}, records[0].Subtypes)
	assert.Equal(t, "Gestión | Avería | Incidencia", records[0].Route(),
		"routes use the first sibling of each family")
}

func TestLoadResolvesDateByTypedColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeCSVFixture(t, dir, "calls.csv",
		"categoria_general,momento\nInformación,2025-03-15 10:00:00\nGestión,2025-03-16 11:00:00\n")

	records, _, err := Load(context.Background(), []string{path}, Options{})
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.False(t, records[0].Date.IsZero(),
		"a lone datetime-typed column stands in for an unmatched date header")
}

func TestLoadAmbiguousTypedDateColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeCSVFixture(t, dir, "calls.csv",
		"categoria_general,inicio,fin\nInformación,2025-03-15 10:00:00,2025-03-15 10:30:00\n")

	_, _, err := Load(context.Background(), []string{path}, Options{})
	require.Error(t, err)

	var resErr *schema.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, schema.RoleDate, resErr.Role)
}
