package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ymreport/internal/shared/testutil"
	"ymreport/pkg/contracts"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	yaml := "pipeline:\n  mode: basic\n  timezone: UTC\noutput:\n  format: xlsx\npaths:\n  base_dir: " + dir + "\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	in := testutil.WriteFile(t, dir, "export.csv", testutil.CSVBytes(t, testutil.MaintenanceHeader, testutil.MaintenanceRows()))
	out := filepath.Join(dir, "reports")

	stdout, _, err := execute(t, "run", "--config", cfgPath, "--in", in, "--out", out, "--format", "csv")

	require.NoError(t, err)
	expected := filepath.Join(out, "processed_export.csv")
	assert.FileExists(t, expected)
	assert.Contains(t, stdout, "Wrote "+expected+" (3 of 3 records)")

	data, err := os.ReadFile(expected)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Track switch")
}

func TestRunCommand_DefaultsToInputDirectory(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	in := testutil.WriteFile(t, dir, "week.xlsx", testutil.WorkbookBytes(t, "", testutil.MaintenanceHeader, testutil.MaintenanceRows()))

	_, _, err := execute(t, "run", "--config", cfgPath, "--in", in)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "processed_week.xlsx"))
}

func TestRunCommand_Failures(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	good := testutil.WriteFile(t, dir, "export.csv", testutil.CSVBytes(t, testutil.MaintenanceHeader, testutil.MaintenanceRows()))
	noEnd := testutil.WriteFile(t, dir, "short.csv", testutil.CSVBytes(t, testutil.MaintenanceHeader[:4], [][]string{{"YM01", "x", "YM-RST", "01/03/2024"}}))
	legacy := testutil.WriteFile(t, dir, "old.xls", []byte("x"))
	folder := filepath.Join(dir, "folder.csv")
	require.NoError(t, os.MkdirAll(folder, 0755))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing flag", args: []string{"run", "--config", cfgPath}, wantErr: `required flag(s) "in" not set`},
		{name: "bad mode", args: []string{"run", "--config", cfgPath, "--in", good, "--mode", "monthly"}, wantErr: "mode must be one of: basic, extended"},
		{name: "bad format", args: []string{"run", "--config", cfgPath, "--in", good, "--format", "pdf"}, wantErr: "format"},
		{name: "missing column", args: []string{"run", "--config", cfgPath, "--in", noEnd}, wantErr: "Malfunction End"},
		{name: "unsupported file", args: []string{"run", "--config", cfgPath, "--in", legacy}, wantErr: "old.xls"},
		{name: "missing file", args: []string{"run", "--config", cfgPath, "--in", filepath.Join(dir, "absent.csv")}, wantErr: "absent.csv"},
		{name: "directory", args: []string{"run", "--config", cfgPath, "--in", folder}, wantErr: "is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.NoFileExists(t, filepath.Join(dir, "processed_short.xlsx"))
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	inbox := filepath.Join(dir, "inbox")
	outbox := filepath.Join(dir, "outbox")
	require.NoError(t, os.MkdirAll(inbox, 0755))
	testutil.WriteFile(t, inbox, "a.csv", testutil.CSVBytes(t, testutil.MaintenanceHeader, testutil.MaintenanceRows()))
	testutil.WriteFile(t, inbox, "b.csv", testutil.CSVBytes(t, testutil.MaintenanceHeader[:2], [][]string{{"YM01", "x"}}))

	stdout, _, err := execute(t, "batch", "--config", cfgPath, "--in", inbox, "--out", outbox)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, stdout, "ok   a.csv")
	assert.Contains(t, stdout, "FAIL b.csv")
	assert.Contains(t, stdout, "1 succeeded, 1 failed")
	assert.FileExists(t, filepath.Join(outbox, "processed_a.xlsx"))
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, stdout, contracts.ProductName)
	assert.Contains(t, stdout, contracts.Version)
}
