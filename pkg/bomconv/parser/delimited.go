package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}

	// TXT columns are separated by a tab or a run of two or more blanks.
	txtDelimiterRe = regexp.MustCompile(`\t|\s{2,}`)
)

// ReadCSV reads comma-separated text into a single source named name.
func ReadCSV(r io.Reader, name string) (models.Source, error) {
	text, err := decodeText(r)
	if err != nil {
		return models.Source{}, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return models.Source{}, fmt.Errorf("parse csv: %w", err)
	}

	grid := make(models.Grid, len(records))
	for i, record := range records {
		grid[i] = cleanRow(record)
	}
	return textSource(name, grid), nil
}

// ReadTXT reads tab or multi-space separated text into a single source named name.
func ReadTXT(r io.Reader, name string) (models.Source, error) {
	text, err := decodeText(r)
	if err != nil {
		return models.Source{}, err
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	grid := make(models.Grid, 0, len(lines))
	for _, line := range lines {
		grid = append(grid, cleanRow(txtDelimiterRe.Split(line, -1)))
	}
	return textSource(name, grid), nil
}

// decodeText reads r as UTF-8, falling back to Shift_JIS when the bytes are not valid
// UTF-8. A leading byte order mark is dropped.
func decodeText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode shift_jis: %w", err)
	}
	return string(decoded), nil
}

// cleanCell trims blanks, surrounding quotes and stray commas. A lone quote is kept
// because it is a continuation marker.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if s == `"` {
		return s
	}
	s = strings.Trim(s, `"`)
	s = strings.Trim(s, ",")
	return strings.TrimSpace(s)
}

func cleanRow(values []string) models.Row {
	row := make(models.Row, len(values))
	for i, v := range values {
		row[i] = models.Cell{Value: cleanCell(v)}
	}
	return row
}

func textSource(name string, grid models.Grid) models.Source {
	return models.Source{Name: name, Grid: grid, Cancelled: map[string]struct{}{}}
}
