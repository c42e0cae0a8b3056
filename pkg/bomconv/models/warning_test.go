package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortByKind(t *testing.T) {
	ws := []Warning{
		{Kind: WarningPartStrike, Message: "a strike"},
		{Kind: WarningMismatch, Message: "b mismatch"},
		{Kind: WarningCancellation, Message: "a cancel"},
		{Kind: WarningDuplicate, Message: "dup"},
		{Kind: WarningMismatch, Message: "a mismatch"},
	}

	SortByKind(ws)
	assert.Equal(t, []string{"b mismatch", "a mismatch", "a cancel", "a strike", "dup"}, Messages(ws))
}
