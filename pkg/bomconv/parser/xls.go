package parser

import (
	"fmt"
	"io"

	"github.com/extrame/xls"
	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
)

// xlsCharset is the charset passed to the BIFF reader for non-unicode strings.
const xlsCharset = "utf-8"

// ReadXLS reads worksheets from a legacy binary (BIFF) workbook. The format carries no
// strike-through information through this reader, so cells are never struck.
func ReadXLS(r io.ReadSeeker, sheets []string) ([]models.Source, error) {
	wb, err := xls.OpenReader(r, xlsCharset)
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}

	var sources []models.Source
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil || !wanted(sheet.Name, sheets) {
			continue
		}
		sources = append(sources, models.Source{
			Name:      sheet.Name,
			Grid:      xlsGrid(sheet),
			Cancelled: map[string]struct{}{},
		})
	}
	return sources, nil
}

func xlsGrid(sheet *xls.WorkSheet) models.Grid {
	var grid models.Grid
	for rowIdx := 0; rowIdx <= int(sheet.MaxRow); rowIdx++ {
		row := sheet.Row(rowIdx)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		last := row.LastCol()
		if last < 0 {
			last = 0
		}
		cells := make(models.Row, last)
		for colIdx := row.FirstCol(); colIdx < last; colIdx++ {
			if colIdx < 0 {
				continue
			}
			cells[colIdx].Value = row.Col(colIdx)
		}
		grid = append(grid, cells)
	}
	return grid
}

// SheetNamesXLS lists the worksheets of a legacy binary workbook.
func SheetNamesXLS(r io.ReadSeeker) ([]string, error) {
	wb, err := xls.OpenReader(r, xlsCharset)
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	names := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		if sheet := wb.GetSheet(i); sheet != nil {
			names = append(names, sheet.Name)
		}
	}
	return names, nil
}
