package core

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
)

// ErrHeaderNotFound indicates that no row carries both a reference and a part column.
var ErrHeaderNotFound = errors.New("header row not found")

// ColumnMatch records how a role was recognized in the header row.
type ColumnMatch struct {
	// Column is the zero-based column index.
	Column int
	// Keyword is the keyword that matched.
	Keyword string
	// Text is the header cell text.
	Text string
}

// HeaderMap maps roles to header columns. Each column serves at most one role.
type HeaderMap map[Role]ColumnMatch

// Column returns the column index for role, or -1 when the role is absent.
func (h HeaderMap) Column(role Role) int {
	if m, ok := h[role]; ok {
		return m.Column
	}
	return -1
}

// Usable reports whether both the reference and the part column are present.
func (h HeaderMap) Usable() bool {
	_, ref := h[RoleRef]
	_, part := h[RolePart]
	return ref && part
}

// HeaderNotFoundError describes the best header candidate that was rejected.
type HeaderNotFoundError struct {
	// Row is the zero-based index of the best candidate row, -1 if nothing matched.
	Row int
	// Found holds the roles recognized in that row.
	Found HeaderMap
}

func (e *HeaderNotFoundError) Error() string {
	ref, hasRef := e.Found[RoleRef]
	part, hasPart := e.Found[RolePart]

	switch {
	case hasRef && !hasPart:
		return fmt.Sprintf("%v: found reference column %s but no part number column (型番)",
			ErrHeaderNotFound, describeMatch(e.Row, ref))
	case hasPart && !hasRef:
		return fmt.Sprintf("%v: found part number column %s but no reference column (部品番号)",
			ErrHeaderNotFound, describeMatch(e.Row, part))
	default:
		return fmt.Sprintf("%v: neither a reference column (部品番号) nor a part number column (型番) was recognized",
			ErrHeaderNotFound)
	}
}

func (e *HeaderNotFoundError) Unwrap() error {
	return ErrHeaderNotFound
}

func describeMatch(row int, m ColumnMatch) string {
	return fmt.Sprintf("%q (keyword %q, row %d, column %d)", m.Text, m.Keyword, row+1, m.Column+1)
}

// foldHeader lowercases s and removes all whitespace.
func foldHeader(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// LocateHeader finds the header row among the first HeaderScanRows rows.
// It returns the role mapping and the zero-based header row index.
func LocateHeader(grid models.Grid) (HeaderMap, int, error) {
	best := HeaderMap{}
	bestRow := -1

	limit := len(grid)
	if limit > HeaderScanRows {
		limit = HeaderScanRows
	}

	for i := 0; i < limit; i++ {
		found := matchHeaderRow(grid[i])
		if len(found) > len(best) {
			best, bestRow = found, i
			if len(best) == len(Roles) {
				break
			}
		}
	}

	if !best.Usable() {
		return nil, -1, &HeaderNotFoundError{Row: bestRow, Found: best}
	}
	return best, bestRow, nil
}

func matchHeaderRow(row models.Row) HeaderMap {
	found := HeaderMap{}
	claimed := make(map[int]bool)

	folded := make([]string, len(row))
	for j, cell := range row {
		folded[j] = foldHeader(cell.Value)
	}

	for _, role := range Roles {
	keywords:
		for _, kw := range HeaderKeywords[role] {
			needle := foldHeader(kw)
			for j, text := range folded {
				if claimed[j] || !strings.Contains(text, needle) {
					continue
				}
				found[role] = ColumnMatch{Column: j, Keyword: kw, Text: strings.TrimSpace(row[j].Value)}
				claimed[j] = true
				break keywords
			}
		}
	}

	return found
}
