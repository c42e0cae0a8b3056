package models

import "sort"

// WarningKind categorizes a non-fatal pipeline condition.
type WarningKind string

const (
	// WarningMismatch marks a reference without a part number or vice versa.
	WarningMismatch WarningKind = "mismatch"
	// WarningCancellation marks a reference excluded because it is struck-through.
	WarningCancellation WarningKind = "cancellation"
	// WarningPartStrike marks a struck part cell whose references remain active.
	WarningPartStrike WarningKind = "part-strike"
	// WarningDuplicate marks a reference attributed to two or more part identities.
	WarningDuplicate WarningKind = "duplicate"
)

// kindOrder is the order in which warning categories are reported.
var kindOrder = map[WarningKind]int{
	WarningMismatch:     0,
	WarningCancellation: 1,
	WarningPartStrike:   2,
	WarningDuplicate:    3,
}

// Warning is a categorized warning message.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return w.Message
}

// Messages renders warnings as plain strings, preserving order.
func Messages(ws []Warning) []string {
	if len(ws) == 0 {
		return nil
	}
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Message
	}
	return out
}

// SortByKind orders ws by category (mismatch, cancellation, part-strike, duplicate),
// keeping the relative order of warnings within a category.
func SortByKind(ws []Warning) {
	sort.SliceStable(ws, func(i, j int) bool {
		return kindOrder[ws[i].Kind] < kindOrder[ws[j].Kind]
	})
}
