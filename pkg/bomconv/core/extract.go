package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
)

// Extraction is the flat output of one grid.
type Extraction struct {
	// Header is the detected column mapping.
	Header HeaderMap
	// HeaderRow is the zero-based index of the header row.
	HeaderRow int
	// Entries holds one entry per expanded reference and part line.
	Entries []models.Entry
	// Warnings holds mismatch, cancellation and part-strike warnings, in that order.
	Warnings []models.Warning
}

// Process locates the header of grid and extracts its entries. The only error it
// returns is a *HeaderNotFoundError; bad data rows become warnings.
func Process(grid models.Grid, cancelled map[string]struct{}, keepParens bool) (Extraction, error) {
	return ProcessAt(grid, 1, cancelled, keepParens)
}

// ProcessAt is Process for a grid cut out of a larger sheet. firstRow is the 1-based sheet
// row of grid[0]; warnings and header errors count rows from it.
func ProcessAt(grid models.Grid, firstRow int, cancelled map[string]struct{}, keepParens bool) (Extraction, error) {
	if firstRow < 1 {
		firstRow = 1
	}
	header, headerRow, err := LocateHeader(grid)
	if err != nil {
		var hnf *HeaderNotFoundError
		if errors.As(err, &hnf) && hnf.Row >= 0 {
			hnf.Row += firstRow - 1
		}
		return Extraction{}, err
	}
	return extract(grid, header, headerRow, firstRow, cancelled, keepParens), nil
}

// Extract walks the rows after headerRow and emits entries for every active reference
// and part line. References found in cancelled (compared upper-cased, without parens) are
// excluded and reported.
func Extract(grid models.Grid, header HeaderMap, headerRow int, cancelled map[string]struct{}, keepParens bool) Extraction {
	return extract(grid, header, headerRow, 1, cancelled, keepParens)
}

func extract(grid models.Grid, header HeaderMap, headerRow, firstRow int, cancelled map[string]struct{}, keepParens bool) Extraction {
	cancelSet := make(map[string]struct{}, len(cancelled))
	for ref := range cancelled {
		cancelSet[NormalizeRef(ref)] = struct{}{}
	}

	refCol := header.Column(RoleRef)
	partCol := header.Column(RolePart)
	mfgCol := header.Column(RoleMfg)

	var (
		entries     []models.Entry
		ws          = newRowWarnings()
		lastPart    string
		lastMfg     string
		currentRefs []string
	)

	for i := headerRow + 1; i < len(grid); i++ {
		row := grid[i]
		if row.IsBlank() {
			continue
		}
		rowNum := i + firstRow

		partCell := row.At(partCol)
		refRaw := strings.TrimSpace(row.At(refCol).Value)
		partRaw := strings.TrimSpace(partCell.Value)
		mfgRaw := strings.TrimSpace(row.At(mfgCol).Value)

		refCont := isContinuation(refRaw)
		partCont := isContinuation(partRaw)
		mfgCont := isContinuation(mfgRaw)

		// Nothing new on this row; lastPart/lastMfg already carry its meaning.
		if refCont && partCont {
			continue
		}

		part := partRaw
		if partCont {
			part = lastPart
		} else if partRaw != "" {
			lastPart = partRaw
		}
		mfg := mfgRaw
		if mfgCont {
			mfg = lastMfg
		} else if mfgRaw != "" {
			lastMfg = mfgRaw
		}

		cancelledHere := false
		switch {
		case refCont:
			// keep the references of the previous row
		case refRaw != "":
			currentRefs = nil
			for _, ref := range ExpandRefs(refRaw, keepParens) {
				norm := NormalizeRef(ref)
				if norm == "" {
					continue
				}
				if _, ok := cancelSet[norm]; ok {
					ws.cancelled[norm] = struct{}{}
					cancelledHere = true
					continue
				}
				currentRefs = append(currentRefs, ref)
			}
		case !partCont && !mfgCont:
			currentRefs = nil
		}

		parts := partLines(part)

		switch {
		case refRaw != "" && !refCont && partRaw == "":
			if len(currentRefs) == 0 && cancelledHere {
				continue
			}
			ws.mismatch(rowNum, fmt.Sprintf("reference %q has no part number", refRaw))
			for _, ref := range currentRefs {
				entries = append(entries, models.Entry{Ref: ref, Mfg: mfg})
			}

		case len(parts) == 0:
			if refRaw == "" || refCont || len(currentRefs) == 0 {
				// description-only row, or a continuation with nothing above it
				continue
			}
			ws.mismatch(rowNum, fmt.Sprintf("reference %q has no part number (continuation with nothing above)", refRaw))
			for _, ref := range currentRefs {
				entries = append(entries, models.Entry{Ref: ref, Mfg: mfg})
			}

		case len(currentRefs) == 0:
			if cancelledHere || (partCont && refRaw == "") {
				continue
			}
			if refRaw == "" || refCont {
				ws.mismatch(rowNum, fmt.Sprintf("part number %q has no reference", part))
			} else {
				ws.mismatch(rowNum, fmt.Sprintf("reference %q contains no valid designator for part number %q", refRaw, part))
			}
			for _, p := range parts {
				entries = append(entries, models.Entry{Part: p, Mfg: manufacturerFor(mfg, p)})
			}

		default:
			if partCell.Struck {
				ws.partStrike[fmt.Sprintf("取消線/struck part: %q is struck through but still assigned to %s",
					part, strings.Join(currentRefs, ", "))] = struct{}{}
			}
			for _, p := range parts {
				m := manufacturerFor(mfg, p)
				for _, ref := range currentRefs {
					entries = append(entries, models.Entry{Ref: ref, Part: p, Mfg: m})
				}
			}
		}
	}

	return Extraction{
		Header:    header,
		HeaderRow: headerRow,
		Entries:   entries,
		Warnings:  ws.render(),
	}
}

// partLines returns the first word of every non-empty line of a part cell.
func partLines(part string) []string {
	var out []string
	for _, line := range strings.Split(part, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			out = append(out, fields[0])
		}
	}
	return out
}

func manufacturerFor(mfg, part string) string {
	if mfg != "" {
		return mfg
	}
	return InferManufacturer(part)
}

// rowWarnings accumulates extractor warnings as sets keyed by message.
type rowWarnings struct {
	mismatches map[string]int
	cancelled  map[string]struct{}
	partStrike map[string]struct{}
}

func newRowWarnings() *rowWarnings {
	return &rowWarnings{
		mismatches: make(map[string]int),
		cancelled:  make(map[string]struct{}),
		partStrike: make(map[string]struct{}),
	}
}

func (w *rowWarnings) mismatch(row int, detail string) {
	msg := fmt.Sprintf("不一致/mismatch: row %d: %s", row, detail)
	if _, ok := w.mismatches[msg]; !ok {
		w.mismatches[msg] = row
	}
}

func (w *rowWarnings) render() []models.Warning {
	var out []models.Warning

	mismatches := make([]string, 0, len(w.mismatches))
	for msg := range w.mismatches {
		mismatches = append(mismatches, msg)
	}
	sort.Slice(mismatches, func(i, j int) bool {
		ri, rj := w.mismatches[mismatches[i]], w.mismatches[mismatches[j]]
		if ri != rj {
			return ri < rj
		}
		return mismatches[i] < mismatches[j]
	})
	for _, msg := range mismatches {
		out = append(out, models.Warning{Kind: models.WarningMismatch, Message: msg})
	}

	for _, ref := range SortRefs(setKeys(w.cancelled)) {
		out = append(out, models.Warning{Kind: models.WarningCancellation, Message: "除外/excluded: " + ref})
	}

	strikes := setKeys(w.partStrike)
	sort.Strings(strikes)
	for _, msg := range strikes {
		out = append(out, models.Warning{Kind: models.WarningPartStrike, Message: msg})
	}

	return out
}

func setKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	return keys
}
