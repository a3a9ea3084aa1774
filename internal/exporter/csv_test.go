package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ymreport/pkg/contracts/domain"
)

func sampleTable() *domain.Table {
	table := domain.NewTable("Location", "Description", "Malfunction Start", "Malfunction End", "System")
	table.AppendRow(domain.LiteralText("-12"), "Guide tire worn, checklist done",
		time.Date(2024, time.March, 8, 12, 0, 0, 0, time.UTC), nil, "YM12")
	table.AppendRow("YM04", "Door \"A\" stuck", time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), "YM04")
	return table
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	writer := NewCSVWriter()
	require.NoError(t, writer.Write(&buf, sampleTable()))

	content := buf.Bytes()
	require.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}), "missing BOM")

	records, err := csv.NewReader(bytes.NewReader(content[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Location", "Description", "Malfunction Start", "Malfunction End", "System"}, records[0])
	assert.Equal(t, []string{`="-12"`, "Guide tire worn, checklist done", "08/03/2024", "", "YM12"}, records[1])
	assert.Equal(t, []string{"YM04", "Door \"A\" stuck", "09/03/2024", "10/03/2024", "YM04"}, records[2])
}

func TestCSVWriter_LiteralText(t *testing.T) {
	table := domain.NewTable("Location", "Note")
	table.AppendRow(domain.LiteralText("-12"), "-12")
	table.AppendRow(domain.LiteralText(`-3 "east"`), nil)

	var buf bytes.Buffer
	require.NoError(t, (&CSVWriter{}).Write(&buf, table))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{`="-12"`, "-12"}, records[1], "only flagged cells are protected")
	assert.Equal(t, []string{`="-3 ""east"""`, ""}, records[2])
}

func TestCSVWriter_NoBOM(t *testing.T) {
	var buf bytes.Buffer
	writer := &CSVWriter{}
	require.NoError(t, writer.Write(&buf, domain.NewTable("A", "B")))
	assert.Equal(t, "A,B\n", buf.String())
}

func TestCSVWriter_ShortRows(t *testing.T) {
	table := domain.NewTable("A", "B", "C")
	table.Rows = append(table.Rows, domain.Row{"x"})

	var buf bytes.Buffer
	require.NoError(t, (&CSVWriter{}).Write(&buf, table))
	assert.Equal(t, "A,B,C\nx,,\n", buf.String())
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "processed_export.csv")

	require.NoError(t, WriteFile(NewCSVWriter(), path, sampleTable()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Guide tire worn")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is cleaned up")
}

func TestNew(t *testing.T) {
	w, err := New(domain.ReportFormatCSV, WorkbookOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.ReportFormatCSV, w.Format())

	w, err = New(domain.ReportFormatExcel, WorkbookOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.ReportFormatExcel, w.Format())

	_, err = New("pdf", WorkbookOptions{})
	assert.Error(t, err)
}
