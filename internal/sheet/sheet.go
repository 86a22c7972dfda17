// Package sheet exchanges item specs with Excel workbooks.
//
// The "Items" sheet holds one item per row under a header of snake_case
// column names; the "Results" sheet, written on export only, lists the
// last stored costing of each item.
package sheet

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jain13abhi/dockfinity-costing-app/internal/costing"
)

const (
	ItemsSheet   = "Items"
	ResultsSheet = "Results"
)

var resultHeader = []any{"item_id", "name", "pieces_per_bag", "final_cost", "per_kg_rate", "per_pc_rate", "total_packed_g", "computed_at"}

// ImportResult holds the parsed rows and any per-row problems.
type ImportResult struct {
	Items    []costing.Item
	Errors   []string
	Warnings []string
}

// WriteItems writes items, and the stored results keyed by item ID, as an xlsx workbook.
func WriteItems(w io.Writer, items []costing.Item, results map[string]costing.CalcResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ItemsSheet); err != nil {
		return fmt.Errorf("rename items sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	header := make([]any, len(itemColumns))
	for i, c := range itemColumns {
		header[i] = c.header
	}
	if err := writeRow(f, ItemsSheet, 1, header); err != nil {
		return err
	}
	for r, it := range items {
		row := make([]any, len(itemColumns))
		for i, c := range itemColumns {
			row[i] = c.get(it)
		}
		if err := writeRow(f, ItemsSheet, r+2, row); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(ItemsSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style items header: %w", err)
	}

	if _, err := f.NewSheet(ResultsSheet); err != nil {
		return fmt.Errorf("create results sheet: %w", err)
	}
	if err := writeRow(f, ResultsSheet, 1, resultHeader); err != nil {
		return err
	}
	next := 2
	for _, it := range items {
		res, ok := results[it.ID]
		if !ok {
			continue
		}
		row := []any{it.ID, it.Name, res.PiecesPerBag, res.FinalCost, res.PerKgRate, res.PerPcRate,
			res.Weights.TotalPackedG, res.ComputedAt.UTC().Format(time.RFC3339)}
		if err := writeRow(f, ResultsSheet, next, row); err != nil {
			return err
		}
		next++
	}
	if err := f.SetRowStyle(ResultsSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style results header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell reference for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// ReadItems parses the items sheet of an xlsx workbook. The first sheet is
// used when no sheet is named "Items". Rows that fail to parse or validate
// are reported in Errors and left out of Items.
func ReadItems(r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("cannot open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, fmt.Errorf("excel file has no sheets")
	}
	sheet := sheets[0]
	for _, s := range sheets {
		if strings.EqualFold(s, ItemsSheet) {
			sheet = s
			break
		}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return ImportResult{}, fmt.Errorf("cannot read Excel data: %w", err)
	}
	if len(rows) == 0 {
		return ImportResult{}, fmt.Errorf("sheet %q is empty", sheet)
	}

	mapping, warnings, err := mapColumns(rows[0])
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Items: []costing.Item{}, Warnings: warnings}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blank(row) {
			continue
		}
		it, err := parseRow(row, mapping)
		if err == nil {
			err = costing.ValidateItem(it)
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Items = append(result.Items, it)
	}
	return result, nil
}

// mapColumns returns the sheet index of every known column, or -1 when absent.
func mapColumns(header []string) ([]int, []string, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var warnings, missing []string
	mapping := make([]int, len(itemColumns))
	known := make(map[string]bool, len(itemColumns))
	for i, c := range itemColumns {
		known[c.header] = true
		idx, ok := index[c.header]
		if !ok {
			mapping[i] = -1
			if !c.optional {
				missing = append(missing, c.header)
			}
			continue
		}
		mapping[i] = idx
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	for _, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if name != "" && !known[name] {
			warnings = append(warnings, fmt.Sprintf("Ignoring unknown column %q", h))
		}
	}
	return mapping, warnings, nil
}

func parseRow(row []string, mapping []int) (costing.Item, error) {
	var it costing.Item
	for i, c := range itemColumns {
		if mapping[i] < 0 {
			continue
		}
		if err := c.set(&it, strings.TrimSpace(cell(row, mapping[i]))); err != nil {
			return costing.Item{}, fmt.Errorf("column %s: %w", c.header, err)
		}
	}
	return it, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
