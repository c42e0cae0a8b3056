package parser

import (
	"fmt"
	"strings"

	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
	"github.com/xuri/excelize/v2"
)

// ParseRange parses a cell range such as "A1:D200", "$A$1:$D$200" or
// "'BOM'!A1:D200" (the sheet part is ignored).
func ParseRange(ref string) (models.Area, error) {
	rangeStr := strings.TrimSpace(ref)
	if idx := strings.LastIndex(rangeStr, "!"); idx >= 0 {
		rangeStr = rangeStr[idx+1:]
	}
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	parts := strings.Split(rangeStr, ":")
	if len(parts) != 2 {
		return models.Area{}, fmt.Errorf("invalid cell range %q: expected START:END", ref)
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(strings.TrimSpace(parts[0]))
	if err != nil {
		return models.Area{}, fmt.Errorf("invalid cell range %q: %w", ref, err)
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(strings.TrimSpace(parts[1]))
	if err != nil {
		return models.Area{}, fmt.Errorf("invalid cell range %q: %w", ref, err)
	}

	if endRow < startRow {
		startRow, endRow = endRow, startRow
	}
	if endCol < startCol {
		startCol, endCol = endCol, startCol
	}

	return models.Area{R1: startRow, C1: startCol, R2: endRow, C2: endCol}, nil
}
