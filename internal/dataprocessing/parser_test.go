package dataprocessing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ymreport/pkg/contracts/domain"
)

func buildWorkbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadWorkbook(t *testing.T) {
	buf := buildWorkbook(t, "Export", [][]any{
		{" Location ", "Description", "Functional Location", "Malfunction Start", "Malfunction End"},
		{"YM12-03", "Guide tire worn", "YM-RST-TR12-MC1-902-01", 45359.5, nil},
		{nil, nil, nil, nil, nil},
		{"12", "Door fault", "YM-RST", "08/03/2024", 45360},
	})

	table, err := ReadWorkbook(buf, ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, RequiredColumns, table.Columns)
	require.Len(t, table.Rows, 2, "blank rows are skipped")

	first := table.Rows[0]
	assert.Equal(t, "YM12-03", first[0])
	assert.Equal(t, 45359.5, first[3])
	assert.Nil(t, first[4])

	second := table.Rows[1]
	assert.Equal(t, "12", second[0], "text cells stay text even when numeric")
	assert.Equal(t, "08/03/2024", second[3])
	assert.Equal(t, float64(45360), second[4])
}

func TestReadWorkbook_SheetSelection(t *testing.T) {
	buf := buildWorkbook(t, "Export", [][]any{{"Location"}, {"YM01"}})

	_, err := ReadWorkbook(bytes.NewReader(buf.Bytes()), ReadOptions{SheetName: "Missing"})
	assert.Error(t, err)

	table, err := ReadWorkbook(bytes.NewReader(buf.Bytes()), ReadOptions{SheetName: "Export"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Location"}, table.Columns)
}

func TestReadWorkbook_NotAWorkbook(t *testing.T) {
	_, err := ReadWorkbook(strings.NewReader("plain text"), ReadOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadCSV(t *testing.T) {
	input := "\xEF\xBB\xBFLocation,Description,Malfunction Start\n" +
		"YM12-03,\"Guide tire worn, checklist done\",08/03/2024\n" +
		",,\n" +
		"-12,,07/03/2024\n"

	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Location", "Description", "Malfunction Start"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, domain.Row{"YM12-03", "Guide tire worn, checklist done", "08/03/2024"}, table.Rows[0])
	assert.Equal(t, domain.Row{"-12", nil, "07/03/2024"}, table.Rows[1])
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestReadFile_Dispatch(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr error
	}{
		{name: "csv", file: "export.csv"},
		{name: "upper case extension", file: "EXPORT.CSV"},
		{name: "legacy xls", file: "export.xls", wantErr: ErrUnsupportedFormat},
		{name: "no extension", file: "export", wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFile(strings.NewReader("Location\nYM01\n"), tt.file, ReadOptions{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
