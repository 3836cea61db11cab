package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ============================================================================
// DATASET READERS — One tabular source, format-agnostic
// ============================================================================
// Excel and CSV sources reduce to the same shape: a header row, string rows,
// and a per-column date-typed flag inferred by value sampling. Everything
// downstream (schema resolution, record extraction) sees only a Dataset.
// ============================================================================

// Dataset is one loaded source before schema resolution.
type Dataset struct {
	Name      string     // base file name, used as the source identifier
	Headers   []string   // first row, verbatim
	Rows      [][]string // data rows; ragged rows allowed
	DateTyped []bool     // per header column, inferred from row values
}

// ReadFile loads one source, dispatching on the file extension.
func ReadFile(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx", ".xlsm", ".xls":
		return readExcel(path)
	}
	return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
}

func readCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // exports are frequently ragged

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading headers: %w", err)
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}

	return newDataset(filepath.Base(path), headers, rows), nil
}

func readExcel(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	return newDataset(filepath.Base(path), all[0], all[1:]), nil
}

func newDataset(name string, headers []string, rows [][]string) *Dataset {
	return &Dataset{
		Name:      name,
		Headers:   headers,
		Rows:      rows,
		DateTyped: detectDateColumns(len(headers), rows),
	}
}

// Cell returns the trimmed value at (row, col), "" past a ragged row's end.
func (d *Dataset) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// ============================================================================
// DATE-COLUMN DETECTION
// ============================================================================

// Value-sampling parameters: at most sampleRows rows are inspected, and a
// column counts as date-typed when at least dateThreshold of its non-empty
// sampled values parse as dates.
const (
	sampleRows    = 50
	dateThreshold = 0.8
)

func detectDateColumns(columns int, rows [][]string) []bool {
	typed := make([]bool, columns)
	limit := len(rows)
	if limit > sampleRows {
		limit = sampleRows
	}

	for col := 0; col < columns; col++ {
		var nonEmpty, parsed int
		for _, row := range rows[:limit] {
			if col >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[col])
			if v == "" {
				continue
			}
			nonEmpty++
			if _, ok := ParseCellDate(v); ok {
				parsed++
			}
		}
		typed[col] = nonEmpty > 0 && float64(parsed)/float64(nonEmpty) >= dateThreshold
	}
	return typed
}
