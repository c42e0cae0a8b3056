package parser

import (
	"fmt"

	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
	"github.com/xuri/excelize/v2"
)

// Inspect summarizes sources for a sheet picker: the used range and the number of
// non-empty rows of each grid.
func Inspect(sources []models.Source) []models.SheetInfo {
	infos := make([]models.SheetInfo, 0, len(sources))
	for _, src := range sources {
		infos = append(infos, models.SheetInfo{
			Name:  src.Name,
			Range: usedRange(src.Grid),
			Rows:  src.Grid.NonEmptyRows(),
		})
	}
	return infos
}

// usedRange converts the bounding box of non-empty cells to Excel range notation.
func usedRange(grid models.Grid) string {
	minRow, maxRow, minCol, maxCol := grid.Bounds()
	if minRow < 0 {
		return ""
	}

	startCell, err := excelize.CoordinatesToCellName(minCol+1, minRow+1)
	if err != nil {
		return ""
	}
	endCell, err := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s:%s", startCell, endCell)
}
