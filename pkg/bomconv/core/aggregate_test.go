package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
)

func TestAggregate_Duplicate(t *testing.T) {
	lines, warnings := Aggregate([]models.Entry{
		{Ref: "R1", Part: "B"},
		{Ref: "R1", Part: "A"},
	})

	require.Len(t, warnings, 1)
	assert.Equal(t, models.WarningDuplicate, warnings[0].Kind)
	assert.Contains(t, warnings[0].Message, `"R1"`)
	assert.Contains(t, warnings[0].Message, "[A, B]")

	assert.Equal(t, []models.BomLine{
		{Ref: "R1", Part: "B"},
		{Ref: "R1", Part: "A"},
	}, lines)
}

func TestAggregate_DuplicateAcrossManufacturers(t *testing.T) {
	_, warnings := Aggregate([]models.Entry{
		{Ref: "C1", Part: "GRM188", Mfg: "Murata"},
		{Ref: "C1", Part: "GRM188", Mfg: "TDK"},
	})

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "[GRM188 (Murata), GRM188 (TDK)]")
}

func TestAggregate_MergesAndSortsReferences(t *testing.T) {
	lines, warnings := Aggregate([]models.Entry{
		{Ref: "R10", Part: "MCR03", Mfg: "Rohm"},
		{Ref: "C1", Part: "GRM188", Mfg: "Murata"},
		{Ref: "R2", Part: "MCR03", Mfg: "Rohm"},
		{Ref: "R1", Part: "MCR03", Mfg: "Rohm"},
		{Ref: "R2", Part: "MCR03", Mfg: "Rohm"},
	})

	assert.Empty(t, warnings)
	assert.Equal(t, []models.BomLine{
		{Ref: "R1, R2, R10", Part: "MCR03", Mfg: "Rohm"},
		{Ref: "C1", Part: "GRM188", Mfg: "Murata"},
	}, lines)
}

func TestAggregate_EmptySidesAreGroups(t *testing.T) {
	lines, warnings := Aggregate([]models.Entry{
		{Ref: "R5"},
		{Part: "LM358"},
		{Part: "LM358"},
	})

	assert.Empty(t, warnings)
	assert.Equal(t, []models.BomLine{
		{Ref: "R5"},
		{Ref: "", Part: "LM358"},
	}, lines)
}

func TestAggregate_Idempotent(t *testing.T) {
	entries := []models.Entry{
		{Ref: "R3", Part: "MCR03", Mfg: "Rohm"},
		{Ref: "R1", Part: "MCR03", Mfg: "Rohm"},
		{Ref: "C2", Part: "GRM188", Mfg: "Murata"},
		{Ref: "C10", Part: "GRM188", Mfg: "Murata"},
		{Ref: "U1", Part: "LM358"},
	}
	first, _ := Aggregate(entries)

	var again []models.Entry
	for _, line := range first {
		for _, ref := range SplitRefs(line.Ref) {
			again = append(again, models.Entry{Ref: ref, Part: line.Part, Mfg: line.Mfg})
		}
	}
	second, _ := Aggregate(again)

	assert.Equal(t, first, second)
}

func TestSortRefs(t *testing.T) {
	tests := []struct {
		input    []string
		expected []string
	}{
		{[]string{"R10", "R2", "R1"}, []string{"R1", "R2", "R10"}},
		{[]string{"R10A", "R10", "R2"}, []string{"R2", "R10", "R10A"}},
		{[]string{"r2", "R1", "c3"}, []string{"c3", "R1", "r2"}},
		{[]string{"(R3)", "R2", "(R1)"}, []string{"(R1)", "R2", "(R3)"}},
		{[]string{"LED10", "LED9", "C100"}, []string{"C100", "LED9", "LED10"}},
		{[]string{"R007", "R7", "R6"}, []string{"R6", "R007", "R7"}},
	}

	for _, tt := range tests {
		result := SortRefs(append([]string(nil), tt.input...))
		assert.Equal(t, tt.expected, result, "SortRefs(%v)", tt.input)
	}
}
