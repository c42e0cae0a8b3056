// Package parser turns uploaded files into cell grids. Each adapter yields one source per
// worksheet (spreadsheets) or one source per file (text and PDF).
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
)

// Format identifies an input file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
	FormatTXT  Format = "txt"
	FormatPDF  Format = "pdf"
)

// ErrUnsupportedFormat indicates a file extension no adapter handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var extensions = map[string]Format{
	".xlsx": FormatXLSX,
	".xlsm": FormatXLSX,
	".xls":  FormatXLS,
	".csv":  FormatCSV,
	".txt":  FormatTXT,
	".pdf":  FormatPDF,
}

// DetectFormat returns the format implied by the file name extension.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// IsWorkbook reports whether the format holds several named sheets.
func (f Format) IsWorkbook() bool {
	return f == FormatXLSX || f == FormatXLS
}

// Read decodes data of the given format. sheets selects worksheets of workbook formats and
// is ignored otherwise. Single-grid formats produce one source named name.
func Read(format Format, data []byte, name string, sheets []string) ([]models.Source, error) {
	switch format {
	case FormatXLSX:
		return ReadXLSX(bytes.NewReader(data), sheets)
	case FormatXLS:
		return ReadXLS(bytes.NewReader(data), sheets)
	case FormatCSV:
		src, err := ReadCSV(bytes.NewReader(data), name)
		return single(src, err)
	case FormatTXT:
		src, err := ReadTXT(bytes.NewReader(data), name)
		return single(src, err)
	case FormatPDF:
		src, err := ReadPDF(bytes.NewReader(data), int64(len(data)), name)
		return single(src, err)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// SheetNames lists the worksheets of a workbook, or the single source name otherwise.
func SheetNames(format Format, data []byte, name string) ([]string, error) {
	switch format {
	case FormatXLSX:
		return SheetNamesXLSX(bytes.NewReader(data))
	case FormatXLS:
		return SheetNamesXLS(bytes.NewReader(data))
	case FormatCSV, FormatTXT, FormatPDF:
		return []string{name}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func single(src models.Source, err error) ([]models.Source, error) {
	if err != nil {
		return nil, err
	}
	return []models.Source{src}, nil
}
