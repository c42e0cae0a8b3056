// Package bomconv converts BOM spreadsheets, delimited text and PDF tables into a
// normalized, deduplicated parts list.
package bomconv

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
	"github.com/ukaji3/bomconv-go/pkg/bomconv/parser"
)

// Options configures a conversion.
type Options struct {
	// KeepParentheses keeps parenthesized references such as "(R1)" instead of removing
	// them before tokenization.
	KeepParentheses bool
	// Sheets selects the worksheets of a workbook. Empty means every sheet.
	// Ignored for single-grid formats.
	Sheets []string
	// Range restricts every grid to a cell range such as "A1:D200". Empty means the whole grid.
	Range string
	// Logger receives per-source diagnostics. If nil, nothing is logged.
	Logger *zap.Logger
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// area parses Range. A nil area means no cropping.
func (o Options) area() (*models.Area, error) {
	if strings.TrimSpace(o.Range) == "" {
		return nil, nil
	}
	a, err := parser.ParseRange(o.Range)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return &a, nil
}
