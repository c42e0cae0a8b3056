package parser

import (
	"bytes"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
)

func text(x float64, s string) pdf.Text {
	return pdf.Text{X: x, S: s}
}

func TestLayoutGrid(t *testing.T) {
	lines := [][]pdf.Text{
		{text(50, "Ref"), text(150, "Part"), text(151, " Number"), text(300, "Maker")},
		{text(52, "R1-R4"), text(149, "RC0603"), text(301, "Yageo")},
		{text(50, "C1"), text(302, "Murata")},
	}

	grid := layoutGrid(lines)
	assert.Equal(t, [][]string{
		{"Ref", "Part Number", "Maker"},
		{"R1-R4", "RC0603", "Yageo"},
		{"C1", "", "Murata"},
	}, values(grid))
}

func TestLayoutGridMultiBlockCell(t *testing.T) {
	lines := [][]pdf.Text{
		{text(50, "Ref"), text(150, "Part"), text(300, "Description"), text(450, "Maker")},
		{text(50, "R1"), text(150, "RC0603"), text(300, "Thick film"), text(372, "0.1W"), text(450, "Yageo")},
		{text(51, "C1"), text(150, "GRM188"), text(301, "MLCC"), text(336, "X7R"), text(449, "Murata")},
	}

	assert.Equal(t, []float64{50, 150, 300, 449}, columnAnchors(lines))
	assert.Equal(t, [][]string{
		{"Ref", "Part", "Description", "Maker"},
		{"R1", "RC0603", "Thick film 0.1W", "Yageo"},
		{"C1", "GRM188", "MLCC X7R", "Murata"},
	}, values(layoutGrid(lines)))
}

func TestColumnAnchors(t *testing.T) {
	lines := [][]pdf.Text{
		{text(10, "a"), text(13, "b"), text(40, "c"), text(90, " ")},
	}
	assert.Equal(t, []float64{10, 40}, columnAnchors(lines))
}

func TestAnchorIndex(t *testing.T) {
	anchors := []float64{10, 40, 80}
	tests := []struct {
		x        float64
		expected int
	}{
		{5, 0},
		{10, 0},
		{39.9, 0},
		{40, 1},
		{79, 1},
		{200, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, anchorIndex(anchors, tt.x), "x=%v", tt.x)
	}
}

func TestReadPDFInvalid(t *testing.T) {
	data := []byte("%PDF-garbage")
	_, err := ReadPDF(bytes.NewReader(data), int64(len(data)), "bom.pdf")
	assert.Error(t, err)
}
