package sheet

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jain13abhi/dockfinity-costing-app/internal/costing"
)

// buildWorkbook writes rows to the first sheet of a fresh workbook.
func buildWorkbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func sampleItems() []costing.Item {
	plain := costing.DefaultItem()
	plain.ID = "a"

	custom := costing.DefaultItem()
	custom.ID = "b"
	custom.Name = "9in tin, induction lid"
	rate := 262.5
	custom.Box.CircleRate = &rate
	custom.Cover.Induction = &costing.InductionStage{Enabled: true, Rate: 6.25}
	custom.Kunda = costing.KundaSpec{}
	return []costing.Item{plain, custom}
}

func TestWriteReadRoundTrip(t *testing.T) {
	items := sampleItems()

	var buf bytes.Buffer
	require.NoError(t, WriteItems(&buf, items, nil))

	got, err := ReadItems(&buf)
	require.NoError(t, err)
	assert.Empty(t, got.Errors)
	assert.Empty(t, got.Warnings)
	require.Len(t, got.Items, 2)

	// Absent induction reads back as absent, not as a disabled stage.
	assert.Nil(t, got.Items[0].Box.Induction)
	assert.Equal(t, items[0].Cover.Induction, got.Items[0].Cover.Induction)
	assert.Nil(t, got.Items[0].Box.CircleRate)
	assert.Equal(t, items[0], got.Items[0])
	assert.Equal(t, items[1], got.Items[1])
}

func TestWriteItemsResultsSheet(t *testing.T) {
	items := sampleItems()
	res, err := costing.Calculate(items[0], costing.DefaultSettings(), costing.Policy{})
	require.NoError(t, err)
	res.ItemID = "a"
	res.ComputedAt = time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, WriteItems(&buf, items, map[string]costing.CalcResult{"a": res}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ItemsSheet, ResultsSheet}, f.GetSheetList())
	rows, err := f.GetRows(ResultsSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 2, "only items with a stored result get a row")
	assert.Equal(t, "a", rows[1][0])
	assert.Equal(t, "332.5", rows[1][4])
	assert.Equal(t, "2026-05-04T03:02:01Z", rows[1][7])
}

func TestReadItemsReportsRowErrors(t *testing.T) {
	var buf bytes.Buffer
	items := sampleItems()
	items[1].Bag.Pipe.PiecesPerPipe = 0
	require.NoError(t, WriteItems(&buf, items, nil))

	got, err := ReadItems(&buf)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Len(t, got.Errors, 1)
	assert.Contains(t, got.Errors[0], "Row 3:")
	assert.Contains(t, got.Errors[0], "bag.pipe.piecesPerPipe")
}

func TestReadItemsBadCell(t *testing.T) {
	header := make([]any, len(itemColumns))
	row := make([]any, len(itemColumns))
	for i, c := range itemColumns {
		header[i] = c.header
		row[i] = c.get(costing.DefaultItem())
		if c.header == "box_thickness_mm" {
			row[i] = "thin"
		}
	}
	buf := buildWorkbook(t, "Sheet1", [][]any{header, row, {" "}, row})

	got, err := ReadItems(buf)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	require.Len(t, got.Errors, 2, "blank rows are skipped")
	assert.Equal(t, `Row 2: column box_thickness_mm: invalid number "thin"`, got.Errors[0])
	assert.Contains(t, got.Errors[1], "Row 4:")
}

func TestReadItemsRejectsNonFiniteCells(t *testing.T) {
	for _, raw := range []string{"NaN", "Inf", "-inf", "1e999"} {
		t.Run(raw, func(t *testing.T) {
			header := make([]any, len(itemColumns))
			row := make([]any, len(itemColumns))
			for i, c := range itemColumns {
				header[i] = c.header
				row[i] = c.get(costing.DefaultItem())
				if c.header == "kunda_rate" {
					row[i] = raw
				}
			}
			buf := buildWorkbook(t, ItemsSheet, [][]any{header, row})

			got, err := ReadItems(buf)
			require.NoError(t, err)
			assert.Empty(t, got.Items)
			require.Len(t, got.Errors, 1)
			assert.Contains(t, got.Errors[0], "Row 2: column kunda_rate: invalid number")
		})
	}
}

func TestReadItemsMissingColumns(t *testing.T) {
	buf := buildWorkbook(t, ItemsSheet, [][]any{{"Name", "box_diameter_in"}, {"x", 7}})
	_, err := ReadItems(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Contains(t, err.Error(), "cover_thickness_mm")
	assert.NotContains(t, err.Error(), "box_circle_rate")
}

func TestReadItemsHeaderCaseAndUnknownColumns(t *testing.T) {
	header := []any{"Notes"}
	row := []any{"ignored"}
	for _, c := range itemColumns {
		if c.optional && c.header != "name" {
			continue
		}
		header = append(header, "  "+strings.ToUpper(c.header))
		row = append(row, c.get(costing.DefaultItem()))
	}
	buf := buildWorkbook(t, "Data", [][]any{header, row})

	got, err := ReadItems(buf)
	require.NoError(t, err)
	assert.Equal(t, []string{`Ignoring unknown column "Notes"`}, got.Warnings)
	require.Len(t, got.Items, 1)
	assert.Equal(t, costing.DefaultItem().Polish, got.Items[0].Polish)
	assert.Nil(t, got.Items[0].Cover.Induction)
}

func TestReadItemsNotAWorkbook(t *testing.T) {
	_, err := ReadItems(bytes.NewBufferString("not a zip"))
	assert.Error(t, err)
}

func TestParseFlag(t *testing.T) {
	for _, raw := range []string{"yes", "Y", "TRUE", "1", "on"} {
		v, err := parseFlag(raw)
		require.NoError(t, err)
		assert.True(t, v, raw)
	}
	for _, raw := range []string{"no", "", "false", "0"} {
		v, err := parseFlag(raw)
		require.NoError(t, err)
		assert.False(t, v, raw)
	}
	_, err := parseFlag("maybe")
	assert.Error(t, err)
}
