package output

import (
	"fmt"
	"io"

	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
)

// Format is an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (must be json, csv or xlsx)", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Extension returns the file extension of the format, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// WriteLines writes BOM lines in the given format.
func WriteLines(w io.Writer, f Format, lines []models.BomLine, pretty bool) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, lines)
	case FormatXLSX:
		return WriteXLSX(w, lines)
	case FormatJSON:
		if lines == nil {
			lines = []models.BomLine{}
		}
		data, err := ToJSON(lines, pretty)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}
