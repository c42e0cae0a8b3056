package bomconv

import (
	"errors"
	"fmt"

	"github.com/ukaji3/bomconv-go/pkg/bomconv/core"
	"github.com/ukaji3/bomconv-go/pkg/bomconv/parser"
)

// ErrNoValidData indicates that no source produced a single BOM line.
var ErrNoValidData = errors.New("no valid BOM data found")

// ErrSheetNotFound indicates a selected sheet that the workbook does not contain.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrInvalidRange indicates a malformed cell range option.
var ErrInvalidRange = errors.New("invalid cell range")

// ErrUnsupportedFormat indicates a file extension no adapter handles.
var ErrUnsupportedFormat = parser.ErrUnsupportedFormat

// ErrHeaderNotFound indicates a grid without a usable header row.
var ErrHeaderNotFound = core.ErrHeaderNotFound

// Stages reported by SourceError.
const (
	StageRead   = "read"
	StageHeader = "header"
	StageSheet  = "sheet"
)

// SourceError represents a failure to process one source.
type SourceError struct {
	Source string
	Stage  string // "read", "header", "sheet"
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %q (%s): %v", e.Source, e.Stage, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(source, stage string, err error) *SourceError {
	return &SourceError{
		Source: source,
		Stage:  stage,
		Err:    err,
	}
}
