package parser

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
)

// ColumnTolerance is the horizontal distance, in points, within which text blocks are
// considered to start in the same column.
const ColumnTolerance = 4.0

// ReadPDF reads the text of every page into one grid. Text rows keep their top-to-bottom
// order; columns are derived from left edges that recur across the whole document so that
// a header on page 1 lines up with data on later pages.
func ReadPDF(r io.ReaderAt, size int64, name string) (models.Source, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return models.Source{}, fmt.Errorf("open pdf: %w", err)
	}

	var lines [][]pdf.Text
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return models.Source{}, fmt.Errorf("read pdf page %d: %w", i, err)
		}
		sort.SliceStable(rows, func(a, b int) bool {
			return rows[a].Position > rows[b].Position
		})
		for _, row := range rows {
			lines = append(lines, row.Content)
		}
	}

	return textSource(name, layoutGrid(lines)), nil
}

// layoutGrid assigns text blocks to columns by clustering their left edges.
func layoutGrid(lines [][]pdf.Text) models.Grid {
	anchors := columnAnchors(lines)

	grid := make(models.Grid, 0, len(lines))
	for _, line := range lines {
		row := make([][]string, len(anchors))
		for _, t := range line {
			s := strings.TrimSpace(t.S)
			if s == "" {
				continue
			}
			col := anchorIndex(anchors, t.X)
			row[col] = append(row[col], s)
		}

		cells := make([]string, len(row))
		for i, parts := range row {
			cells[i] = strings.Join(parts, " ")
		}
		grid = append(grid, cleanRow(cells))
	}
	return grid
}

// columnAnchors clusters the left edges of text blocks and keeps the clusters that start
// a block on at least two lines. A block whose edge does not recur, such as the second word
// of a wrapped description, joins the column to its left.
func columnAnchors(lines [][]pdf.Text) []float64 {
	type edge struct {
		x    float64
		line int
	}
	var edges []edge
	for i, line := range lines {
		for _, t := range line {
			if strings.TrimSpace(t.S) != "" {
				edges = append(edges, edge{x: t.X, line: i})
			}
		}
	}
	sort.SliceStable(edges, func(a, b int) bool { return edges[a].x < edges[b].x })

	type cluster struct {
		x     float64
		lines map[int]struct{}
	}
	var clusters []*cluster
	for _, e := range edges {
		if len(clusters) == 0 || e.x-clusters[len(clusters)-1].x > ColumnTolerance {
			clusters = append(clusters, &cluster{x: e.x, lines: make(map[int]struct{})})
		}
		clusters[len(clusters)-1].lines[e.line] = struct{}{}
	}

	minLines := 2
	if len(lines) < 2 {
		minLines = 1
	}
	var anchors []float64
	for _, c := range clusters {
		if len(c.lines) >= minLines {
			anchors = append(anchors, c.x)
		}
	}
	if len(anchors) == 0 {
		for _, c := range clusters {
			anchors = append(anchors, c.x)
		}
	}
	return anchors
}

// anchorIndex returns the index of the last anchor at or before x.
func anchorIndex(anchors []float64, x float64) int {
	idx := sort.Search(len(anchors), func(i int) bool {
		return anchors[i] > x
	})
	if idx == 0 {
		return 0
	}
	return idx - 1
}
