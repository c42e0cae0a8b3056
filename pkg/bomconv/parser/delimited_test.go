package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
)

func values(grid models.Grid) [][]string {
	out := make([][]string, len(grid))
	for i, row := range grid {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = cell.Value
		}
	}
	return out
}

func TestReadCSV(t *testing.T) {
	input := "Ref,Part Number,Maker\n\"R1, R2\",RC0603,Yageo\nC1,\"GRM155\",\n\",\",\",\"\n"

	src, err := ReadCSV(strings.NewReader(input), "bom.csv")
	require.NoError(t, err)

	assert.Equal(t, "bom.csv", src.Name)
	assert.NotNil(t, src.Cancelled)
	assert.Equal(t, [][]string{
		{"Ref", "Part Number", "Maker"},
		{"R1, R2", "RC0603", "Yageo"},
		{"C1", "GRM155", ""},
		{"", ""},
	}, values(src.Grid))
}

func TestReadCSVByteOrderMark(t *testing.T) {
	input := "\xEF\xBB\xBFRef,Part\nR1,X\n"

	src, err := ReadCSV(strings.NewReader(input), "bom.csv")
	require.NoError(t, err)
	assert.Equal(t, "Ref", src.Grid[0].At(0).Value)
}

func TestReadCSVShiftJIS(t *testing.T) {
	utf8Text := "部品番号,部品型番,メーカー\nR1,RC0603,ヤゲオ\n"
	sjis, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(utf8Text))
	require.NoError(t, err)

	src, err := ReadCSV(bytes.NewReader(sjis), "bom.csv")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"部品番号", "部品型番", "メーカー"},
		{"R1", "RC0603", "ヤゲオ"},
	}, values(src.Grid))
}

func TestReadTXT(t *testing.T) {
	input := "Ref\tPart Number\tMaker\r\nR1 R2    RC0603  Yageo\r\n\"\t\"\tMurata\n"

	src, err := ReadTXT(strings.NewReader(input), "bom.txt")
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Ref", "Part Number", "Maker"},
		{"R1 R2", "RC0603", "Yageo"},
		{`"`, `"`, "Murata"},
		{""},
	}, values(src.Grid))
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  R1  ", "R1"},
		{`"RC0603"`, "RC0603"},
		{`"`, `"`},
		{",R1,", "R1"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanCell(tt.input))
		})
	}
}
