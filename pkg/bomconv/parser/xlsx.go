package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/bomconv-go/pkg/bomconv/core"
	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads worksheets from an xlsx workbook. Only the named sheets are read when
// sheets is non-empty; unknown names are ignored (see SheetNamesXLSX).
func ReadXLSX(r io.Reader, sheets []string) ([]models.Source, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	var sources []models.Source
	for _, name := range f.GetSheetList() {
		if !wanted(name, sheets) {
			continue
		}
		src, err := ExtractSheet(f, name)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// ExtractSheet converts one worksheet into a grid.
// Struck runs of rich-text cells and whole-cell strike styles contribute cancelled
// references; a cell whose visible text is entirely struck is marked Struck.
func ExtractSheet(f *excelize.File, sheetName string) (models.Source, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return models.Source{}, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	st := &strikeReader{f: f, sheet: sheetName, styles: make(map[int]bool)}
	cancelled := make(map[string]struct{})
	grid := make(models.Grid, len(rows))

	for rowIdx, row := range rows {
		cells := make(models.Row, len(row))
		for colIdx, cellValue := range row {
			cells[colIdx].Value = cellValue
			if strings.TrimSpace(cellValue) == "" {
				continue
			}

			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				continue
			}
			struck, struckText := st.cell(cellName, cellValue)
			cells[colIdx].Struck = struck
			for _, ref := range core.ReferencesIn(struckText) {
				cancelled[ref] = struct{}{}
			}
		}
		grid[rowIdx] = cells
	}

	return models.Source{Name: sheetName, Grid: grid, Cancelled: cancelled}, nil
}

// strikeReader resolves strike-through formatting of cells, caching style lookups.
type strikeReader struct {
	f      *excelize.File
	sheet  string
	styles map[int]bool
}

// cell returns whether the whole cell is struck and the struck part of its text.
func (s *strikeReader) cell(cellName, value string) (bool, string) {
	runs, err := s.f.GetCellRichText(s.sheet, cellName)
	if err == nil && len(runs) > 0 {
		var struck strings.Builder
		all := true
		for _, run := range runs {
			if strings.TrimSpace(run.Text) == "" {
				continue
			}
			if run.Font != nil && run.Font.Strike {
				struck.WriteString(" ")
				struck.WriteString(run.Text)
			} else {
				all = false
			}
		}
		if struck.Len() > 0 {
			return all, struck.String()
		}
	}

	if s.styleStruck(cellName) {
		return true, value
	}
	return false, ""
}

func (s *strikeReader) styleStruck(cellName string) bool {
	styleID, err := s.f.GetCellStyle(s.sheet, cellName)
	if err != nil {
		return false
	}
	if struck, ok := s.styles[styleID]; ok {
		return struck
	}

	struck := false
	if style, err := s.f.GetStyle(styleID); err == nil && style != nil && style.Font != nil {
		struck = style.Font.Strike
	}
	s.styles[styleID] = struck
	return struck
}

// SheetNamesXLSX lists the worksheets of an xlsx workbook.
func SheetNamesXLSX(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func wanted(name string, selection []string) bool {
	if len(selection) == 0 {
		return true
	}
	for _, s := range selection {
		if s == name {
			return true
		}
	}
	return false
}
