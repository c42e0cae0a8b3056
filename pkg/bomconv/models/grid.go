// Package models defines data structures shared by the BOM adapters, the core pipeline and
// the output writers.
package models

import "strings"

// Cell is a single grid cell as produced by a format adapter.
type Cell struct {
	// Value is the cell text.
	Value string `json:"value"`
	// Struck reports strike-through formatting on the whole cell.
	Struck bool `json:"struck,omitempty"`
}

// IsBlank reports whether the cell holds no visible text.
func (c Cell) IsBlank() bool {
	return strings.TrimSpace(c.Value) == ""
}

// Row is an ordered sequence of cells. Rows may be ragged.
type Row []Cell

// At returns the cell at column idx, or an empty cell when idx is out of range.
func (r Row) At(idx int) Cell {
	if idx < 0 || idx >= len(r) {
		return Cell{}
	}
	return r[idx]
}

// IsBlank reports whether every cell of the row is empty.
func (r Row) IsBlank() bool {
	for _, c := range r {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}

// Grid is the normalized tabular input of the pipeline.
type Grid []Row

// TextRow builds a non-struck row from plain values.
func TextRow(values ...string) Row {
	row := make(Row, len(values))
	for i, v := range values {
		row[i] = Cell{Value: v}
	}
	return row
}

// TextGrid builds a grid of non-struck cells from plain values.
func TextGrid(rows [][]string) Grid {
	grid := make(Grid, len(rows))
	for i, r := range rows {
		grid[i] = TextRow(r...)
	}
	return grid
}

// Bounds returns the zero-based bounding box of non-empty cells.
// All four values are -1 when the grid holds no data.
func (g Grid) Bounds() (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range g {
		for colIdx, cell := range row {
			if cell.IsBlank() {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

// NonEmptyRows counts rows holding at least one non-empty cell.
func (g Grid) NonEmptyRows() int {
	n := 0
	for _, row := range g {
		if !row.IsBlank() {
			n++
		}
	}
	return n
}

// Crop returns the part of the grid inside area. Coordinates are 1-based and inclusive.
func (g Grid) Crop(area Area) Grid {
	var out Grid
	for r := area.R1; r <= area.R2 && r <= len(g); r++ {
		if r < 1 {
			continue
		}
		row := g[r-1]
		var cropped Row
		for c := area.C1; c <= area.C2 && c <= len(row); c++ {
			if c < 1 {
				continue
			}
			cropped = append(cropped, row[c-1])
		}
		out = append(out, cropped)
	}
	return out
}
