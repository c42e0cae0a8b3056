package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConvertJSON(t *testing.T) {
	input := writeFile(t, "bom.csv", "Ref,Part Number,Maker\nR1-R2,RC0603,Yageo\n")

	stdout, _, err := run(t, "convert", input)
	require.NoError(t, err)

	var report struct {
		FileName string `json:"file_name"`
		Combined struct {
			Data []map[string]string `json:"data"`
		} `json:"combined"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "bom.csv", report.FileName)
	require.Len(t, report.Combined.Data, 1)
	assert.Equal(t, "R1, R2", report.Combined.Data[0]["ref"])
}

func TestConvertCSVWithWarnings(t *testing.T) {
	input := writeFile(t, "bom.csv", "Ref,Part\nR1,RC0603\nU1\n")

	stdout, stderr, err := run(t, "convert", "--format", "csv", input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "部品番号,部品型番,メーカー")
	assert.Contains(t, stdout, "R1,RC0603,")
	assert.Contains(t, stderr, "warning: 不一致/mismatch")
}

func TestConvertXLSXOutput(t *testing.T) {
	input := writeFile(t, "bom.csv", "Ref,Part\nR1,RC0603\n")

	_, _, err := run(t, "convert", "--format", "xlsx", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires --output")

	out := filepath.Join(t.TempDir(), "bom.xlsx")
	_, _, err = run(t, "convert", "--format", "xlsx", "-o", out, input)
	require.NoError(t, err)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("BOM", "B2")
	require.NoError(t, err)
	assert.Equal(t, "RC0603", v)
}

func TestConvertErrors(t *testing.T) {
	_, _, err := run(t, "convert", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")

	input := writeFile(t, "bom.csv", "foo,bar\n")
	_, _, err = run(t, "convert", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header row not found")

	_, _, err = run(t, "convert", "--format", "yaml", input)
	assert.Error(t, err)
}

func TestSheetsTable(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Ref", "Part"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"R1", "RC0603"}))
	_, err := f.NewSheet("Empty")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "board.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	stdout, _, err := run(t, "sheets", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "SHEET")
	assert.Regexp(t, `Sheet1\s+A1:B2\s+2`, stdout)
	assert.Regexp(t, `Empty\s+-\s+0`, stdout)
}
