package exporter

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ymreport/pkg/contracts/domain"
)

func writeWorkbook(t *testing.T, table *domain.Table) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewWorkbookWriter(WorkbookOptions{}).Write(&buf, table))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWorkbookWriter_Write(t *testing.T) {
	f := writeWorkbook(t, sampleTable())
	sheet := "Processed Data"

	assert.Equal(t, []string{sheet}, f.GetSheetList())

	header, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, header, 3)
	assert.Equal(t, []string{"Location", "Description", "Malfunction Start", "Malfunction End", "System"}, header[0])

	t.Run("literal text stays text", func(t *testing.T) {
		v, err := f.GetCellValue(sheet, "A2")
		require.NoError(t, err)
		assert.Equal(t, "-12", v)

		typ, err := f.GetCellType(sheet, "A2")
		require.NoError(t, err)
		assert.Contains(t, []excelize.CellType{excelize.CellTypeSharedString, excelize.CellTypeInlineString}, typ)

		styleID, err := f.GetCellStyle(sheet, "A2")
		require.NoError(t, err)
		style, err := f.GetStyle(styleID)
		require.NoError(t, err)
		assert.Equal(t, textNumFmt, style.NumFmt)
	})

	t.Run("dates are numeric with a date format", func(t *testing.T) {
		raw, err := f.GetCellValue(sheet, "C2", excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		serial, err := strconv.ParseFloat(raw, 64)
		require.NoError(t, err)
		assert.InDelta(t, 45359.5, serial, 1e-6)

		styleID, err := f.GetCellStyle(sheet, "C2")
		require.NoError(t, err)
		style, err := f.GetStyle(styleID)
		require.NoError(t, err)
		require.NotNil(t, style.CustomNumFmt)
		assert.Equal(t, dateNumFmt, *style.CustomNumFmt)
	})

	t.Run("empty cells stay empty", func(t *testing.T) {
		v, err := f.GetCellValue(sheet, "D2")
		require.NoError(t, err)
		assert.Empty(t, v)
	})

	t.Run("columns sized to content", func(t *testing.T) {
		width, err := f.GetColWidth(sheet, "B")
		require.NoError(t, err)
		assert.Equal(t, float64(len("Guide tire worn, checklist done")+2), width)

		width, err = f.GetColWidth(sheet, "A")
		require.NoError(t, err)
		assert.Equal(t, float64(len("Location")+2), width)
	})

	t.Run("range is a striped table", func(t *testing.T) {
		tables, err := f.GetTables(sheet)
		require.NoError(t, err)
		require.Len(t, tables, 1)
		assert.Equal(t, "ProcessedTable", tables[0].Name)
		assert.Equal(t, "A1:E3", tables[0].Range)
		assert.Equal(t, "TableStyleMedium9", tables[0].StyleName)
		require.NotNil(t, tables[0].ShowRowStripes)
		assert.True(t, *tables[0].ShowRowStripes)
	})
}

func TestWorkbookWriter_NoRows(t *testing.T) {
	f := writeWorkbook(t, domain.NewTable("Location", "System"))

	tables, err := f.GetTables("Processed Data")
	require.NoError(t, err)
	assert.Empty(t, tables)

	rows, err := f.GetRows("Processed Data")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Location", "System"}}, rows)
}

func TestWorkbookWriter_DuplicateHeader(t *testing.T) {
	table := domain.NewTable("Problem", "Problem")
	table.AppendRow("a", "b")

	f := writeWorkbook(t, table)
	tables, err := f.GetTables("Processed Data")
	require.NoError(t, err)
	assert.Empty(t, tables)
}
